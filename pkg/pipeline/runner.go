package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	derrors "github.com/matzehuels/docver/pkg/errors"
	"github.com/matzehuels/docver/pkg/observability"
	"github.com/matzehuels/docver/pkg/placeholder"
)

// Runner processes documents. It keeps no state between calls; one Runner
// may serve many goroutines.
type Runner struct {
	Resolver    VersionResolver
	Marker      string // substituted for occurrences that fail to resolve
	Concurrency int
	Logger      *log.Logger
	Observer    Observer

	mu sync.Mutex // serializes Observer calls
}

// NewRunner creates a runner with the default concurrency.
// If logger is nil, log.Default() is used.
func NewRunner(res VersionResolver, marker string, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Resolver:    res,
		Marker:      marker,
		Concurrency: DefaultConcurrency,
		Logger:      logger,
	}
}

// WithLogger returns a copy of r that logs to l.
func (r *Runner) WithLogger(l *log.Logger) *Runner {
	return &Runner{
		Resolver:    r.Resolver,
		Marker:      r.Marker,
		Concurrency: r.Concurrency,
		Logger:      l,
		Observer:    r.Observer,
	}
}

// Scan lists the occurrences in doc without resolving them.
func (r *Runner) Scan(doc Document) ([]placeholder.Occurrence, error) {
	occs, err := placeholder.Scan(doc.Content, doc.Format)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidInput, err, "scan %s", doc.Name)
	}
	return occs, nil
}

// Process resolves every placeholder in doc and returns the rewritten
// content. Lookup failures are not errors; they show up as the marker in the
// content and in Stats.Failed. An error is returned only when the document
// cannot be scanned or ctx is cancelled.
func (r *Runner) Process(ctx context.Context, doc Document) (*Result, error) {
	start := time.Now()
	hooks := observability.Document()

	occs, err := r.Scan(doc)
	if err != nil {
		hooks.OnDocumentComplete(ctx, doc.Name, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnDocumentStart(ctx, doc.Name, len(occs))

	for i, o := range occs {
		r.notify(Event{Document: doc.Name, Index: i, Occurrence: o, Kind: EventPending})
	}

	reps := r.resolveAll(ctx, doc.Name, occs)
	if err := ctx.Err(); err != nil {
		hooks.OnDocumentComplete(ctx, doc.Name, 0, 0, time.Since(start), err)
		return nil, err
	}

	content, err := placeholder.Apply(doc.Content, reps)
	if err != nil {
		err = derrors.Wrap(derrors.ErrCodeInternal, err, "apply replacements to %s", doc.Name)
		hooks.OnDocumentComplete(ctx, doc.Name, 0, 0, time.Since(start), err)
		return nil, err
	}

	res := &Result{Content: content, Replacements: reps}
	res.Stats.Occurrences = len(occs)
	for _, rep := range reps {
		if rep.Err != nil {
			res.Stats.Failed++
		} else {
			res.Stats.Resolved++
		}
	}
	res.Stats.Duration = time.Since(start)

	hooks.OnDocumentComplete(ctx, doc.Name, res.Stats.Resolved, res.Stats.Failed, res.Stats.Duration, nil)
	if len(occs) > 0 {
		r.Logger.Info("processed document",
			"document", doc.Name,
			"placeholders", len(occs),
			"failed", res.Stats.Failed,
			"duration", res.Stats.Duration)
	} else {
		r.Logger.Debug("no placeholders", "document", doc.Name)
	}
	return res, nil
}

// resolveAll looks up each occurrence independently. The returned slice is
// indexed like occs regardless of completion order.
func (r *Runner) resolveAll(ctx context.Context, name string, occs []placeholder.Occurrence) []placeholder.Replacement {
	reps := make([]placeholder.Replacement, len(occs))

	var g errgroup.Group
	g.SetLimit(r.concurrency())
	for i, o := range occs {
		i, o := i, o
		g.Go(func() error {
			reps[i] = r.resolveOne(ctx, name, i, o)
			return nil
		})
	}
	_ = g.Wait() // workers never fail; errors live in the replacements
	return reps
}

func (r *Runner) resolveOne(ctx context.Context, name string, i int, o placeholder.Occurrence) placeholder.Replacement {
	start := time.Now()
	value, err := r.Resolver.Resolve(ctx, o.Artifact)
	ev := Event{Document: name, Index: i, Occurrence: o, Duration: time.Since(start)}

	if err != nil {
		if ctx.Err() == nil {
			r.Logger.Warn("version lookup failed",
				"document", name,
				"artifact", o.Artifact,
				"line", o.Line,
				"err", derrors.UserMessage(err))
		}
		ev.Kind, ev.Value, ev.Err = EventFailed, r.Marker, err
		r.notify(ev)
		return placeholder.Replacement{Occurrence: o, Value: r.Marker, Err: err}
	}

	r.Logger.Debug("resolved placeholder", "document", name, "artifact", o.Artifact, "version", value, "line", o.Line)
	ev.Kind, ev.Value = EventResolved, value
	r.notify(ev)
	return placeholder.Replacement{Occurrence: o, Value: value}
}

func (r *Runner) notify(ev Event) {
	if r.Observer == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Observer(ev)
}

func (r *Runner) concurrency() int {
	if r.Concurrency < 1 {
		return DefaultConcurrency
	}
	return r.Concurrency
}

// String describes the runner for debug output.
func (r *Runner) String() string {
	return fmt.Sprintf("pipeline.Runner{concurrency=%d marker=%q}", r.concurrency(), r.Marker)
}
