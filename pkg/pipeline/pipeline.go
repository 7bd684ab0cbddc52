// Package pipeline substitutes resolved versions into documents.
//
// A [Runner] scans a [Document] for placeholders, resolves each occurrence on
// its own, and applies every replacement in a single pass once all of them
// have finished. Occurrences never share a lookup: two placeholders naming
// the same artifact cause two searches. A failed lookup yields the configured
// error marker for that occurrence and does not affect the others.
//
// # Usage
//
//	res := resolver.New(artifactory.NewClient(baseURL, nil), "arachne-framework")
//	runner := pipeline.NewRunner(res, "<<API ERROR: repo.example.com>>", logger)
//	out, err := runner.Process(ctx, pipeline.Document{
//	    Name:    "index.html",
//	    Format:  placeholder.FormatHTML,
//	    Content: page,
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("index.html", out.Content, 0o644)
package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/docver/pkg/placeholder"
)

// DefaultConcurrency bounds in-flight lookups per document.
const DefaultConcurrency = 8

// VersionResolver maps an artifact name to its latest version text.
// [resolver.Resolver] implements it.
//
// [resolver.Resolver]: github.com/matzehuels/docver/pkg/resolver.Resolver
type VersionResolver interface {
	Resolve(ctx context.Context, artifact string) (string, error)
}

// Document is one input to the pipeline.
type Document struct {
	Name    string // used in logs and events only
	Format  placeholder.Format
	Content []byte
}

// NewDocument builds a Document, picking the format from the name's
// extension.
func NewDocument(name string, content []byte) Document {
	return Document{Name: name, Format: placeholder.FormatForPath(name), Content: content}
}

// Stats summarizes one Process call.
type Stats struct {
	Occurrences int
	Resolved    int
	Failed      int
	Duration    time.Duration
}

// Result is the output of Process.
type Result struct {
	Content      []byte
	Replacements []placeholder.Replacement // in document order
	Stats        Stats
}

// Changed reports whether any placeholder was substituted.
func (r *Result) Changed() bool { return r.Stats.Occurrences > 0 }

// EventKind classifies an [Event].
type EventKind int

const (
	// EventPending is sent for every occurrence before any lookup starts.
	EventPending EventKind = iota
	// EventResolved is sent when an occurrence's lookup succeeded.
	EventResolved
	// EventFailed is sent when an occurrence's lookup failed.
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventPending:
		return "pending"
	case EventResolved:
		return "resolved"
	case EventFailed:
		return "failed"
	}
	return "unknown"
}

// Event reports progress on one occurrence.
type Event struct {
	Document   string
	Index      int // position of the occurrence in the document
	Occurrence placeholder.Occurrence
	Kind       EventKind
	Value      string // version or error marker; empty while pending
	Err        error
	Duration   time.Duration
}

// Observer receives events. Calls are serialized per Runner.
type Observer func(Event)
