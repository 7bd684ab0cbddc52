package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/docver/pkg/pipeline"
)

// maxProgressRows caps the number of placeholder rows drawn at once.
const maxProgressRows = 15

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type (
	eventMsg      pipeline.Event
	tickMsg       time.Time
	renderDoneMsg struct {
		stats pipeline.Stats
		wrote []string
		err   error
	}
)

type rowKey struct {
	document string
	index    int
}

type progressRow struct {
	document string
	artifact string
	line     int
	kind     pipeline.EventKind
	value    string
}

// =============================================================================
// progressModel - live view of placeholders being resolved
// =============================================================================

// progressModel shows every placeholder as "loading..." until its lookup
// finishes, then the version or the error marker.
type progressModel struct {
	files     int
	rows      []progressRow
	index     map[rowKey]int
	frame     int
	done      bool
	cancelled bool
	result    renderDoneMsg
}

func newProgressModel(files int) progressModel {
	return progressModel{files: files, index: make(map[rowKey]int)}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m progressModel) Init() tea.Cmd {
	return tick()
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	case eventMsg:
		ev := pipeline.Event(msg)
		key := rowKey{ev.Document, ev.Index}
		if ev.Kind == pipeline.EventPending {
			m.index[key] = len(m.rows)
			m.rows = append(m.rows, progressRow{
				document: ev.Document,
				artifact: ev.Occurrence.Artifact,
				line:     ev.Occurrence.Line,
				kind:     ev.Kind,
			})
		} else if i, ok := m.index[key]; ok {
			m.rows[i].kind = ev.Kind
			m.rows[i].value = ev.Value
		}
	case renderDoneMsg:
		m.done = true
		m.result = msg
		return m, tea.Quit
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m progressModel) counts() (pending, resolved, failed int) {
	for _, r := range m.rows {
		switch r.kind {
		case pipeline.EventPending:
			pending++
		case pipeline.EventResolved:
			resolved++
		case pipeline.EventFailed:
			failed++
		}
	}
	return pending, resolved, failed
}

func (m progressModel) View() string {
	var b strings.Builder

	pending, resolved, failed := m.counts()
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Rendering %d files", m.files)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d/%d placeholders done", resolved+failed, len(m.rows))))
	if failed > 0 {
		b.WriteString(StyleDim.Render(" · ") + StyleError.Render(fmt.Sprintf("%d failed", failed)))
	}
	b.WriteString("\n\n")

	start := 0
	if len(m.rows) > maxProgressRows {
		start = len(m.rows) - maxProgressRows
		b.WriteString(StyleDim.Render(fmt.Sprintf("  … %d earlier", start)))
		b.WriteString("\n")
	}
	for _, r := range m.rows[start:] {
		b.WriteString(m.renderRow(r))
		b.WriteString("\n")
	}

	if !m.done && pending == 0 && len(m.rows) > 0 {
		b.WriteString("\n" + StyleDim.Render("writing files..."))
	}
	if !m.done {
		b.WriteString("\n" + StyleDim.Render("q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m progressModel) renderRow(r progressRow) string {
	loc := StyleDim.Render(fmt.Sprintf("%s:%d", r.document, r.line))
	name := StyleValue.Render(r.artifact)

	switch r.kind {
	case pipeline.EventResolved:
		return fmt.Sprintf("  %s %s %s %s", styleIconSuccess.Render(iconSuccess), loc, name, StyleVersion.Render(r.value))
	case pipeline.EventFailed:
		return fmt.Sprintf("  %s %s %s %s", styleIconError.Render(iconError), loc, name, StyleError.Render(r.value))
	default:
		frame := spinnerFrames[m.frame%len(spinnerFrames)]
		return fmt.Sprintf("  %s %s %s %s", styleIconSpinner.Render(frame), loc, name, StyleDim.Render("loading..."))
	}
}

// renderWithProgress runs renderAll behind the live view. Dry-run output is
// held back until the view has exited.
func renderWithProgress(parent context.Context, runner *pipeline.Runner, files []inputFile, opts renderOpts) (pipeline.Stats, []string, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	p := tea.NewProgram(newProgressModel(len(files)), tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	runner.Observer = func(ev pipeline.Event) { p.Send(eventMsg(ev)) }

	var dry bytes.Buffer
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		stats, wrote, err := renderAll(ctx, runner, files, opts, &dry)
		p.Send(renderDoneMsg{stats: stats, wrote: wrote, err: err})
	}()

	final, runErr := p.Run()
	cancel()
	<-finished

	if err := parent.Err(); err != nil {
		return pipeline.Stats{}, nil, err
	}
	if runErr != nil {
		return pipeline.Stats{}, nil, fmt.Errorf("progress view: %w", runErr)
	}

	m, ok := final.(progressModel)
	if !ok || m.cancelled || !m.done {
		return pipeline.Stats{}, nil, context.Canceled
	}
	if m.result.err != nil {
		return m.result.stats, m.result.wrote, m.result.err
	}
	if opts.dryRun {
		if _, err := os.Stdout.Write(dry.Bytes()); err != nil {
			return m.result.stats, nil, err
		}
	}
	return m.result.stats, m.result.wrote, nil
}
