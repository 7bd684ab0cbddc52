package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docver/pkg/placeholder"
)

// scanHit is one placeholder found by the scan command.
type scanHit struct {
	file string
	occ  placeholder.Occurrence
}

func (c *CLI) scanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan FILE|DIR...",
		Short: "List version placeholders without resolving them",
		Long: `List every placeholder that render would replace, with its file and line.
The repository is not contacted.`,
		Example: `  docver scan docs/`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hits, err := scanFiles(args)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("scan complete", "placeholders", len(hits))
			printScan(os.Stdout, hits)
			return nil
		},
	}
}

// scanFiles collects the placeholders in every document below args.
func scanFiles(args []string) ([]scanHit, error) {
	files, err := collectFiles(args)
	if err != nil {
		return nil, err
	}

	var hits []scanHit
	for _, f := range files {
		content, err := os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.path, err)
		}
		occs, err := placeholder.Scan(content, placeholder.FormatForPath(f.path))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", f.path, err)
		}
		for _, o := range occs {
			hits = append(hits, scanHit{file: f.path, occ: o})
		}
	}
	return hits, nil
}

func printScan(w io.Writer, hits []scanHit) {
	if len(hits) == 0 {
		printInfo(w, "no placeholders found")
		return
	}

	rows := make([][]string, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, []string{h.file, strconv.Itoa(h.occ.Line), h.occ.Artifact})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("File", "Line", "Artifact").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 { // header
				return headerStyle.Padding(0, 1)
			}
			if col == 2 {
				return StyleValue.Padding(0, 1)
			}
			return StyleDim.Padding(0, 1)
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%d placeholders", len(hits))))
}
