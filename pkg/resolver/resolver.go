// Package resolver finds the latest published version of an artifact.
//
// A [Resolver] issues one repository search per call, parses a version out of
// every returned storage URI, and returns the version segment of the greatest
// one. Nothing is cached between calls and failed searches are not retried.
package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	derrors "github.com/matzehuels/docver/pkg/errors"
	"github.com/matzehuels/docver/pkg/integrations"
	"github.com/matzehuels/docver/pkg/observability"
	"github.com/matzehuels/docver/pkg/version"
)

// ErrNoVersions is returned when a search succeeds but none of the returned
// records carries a parseable version, including when there are no records.
var ErrNoVersions = errors.New("no versions found")

// Searcher returns the storage URIs of all files published for an artifact.
// [artifactory.Client] implements it.
//
// [artifactory.Client]: github.com/matzehuels/docver/pkg/integrations/artifactory.Client
type Searcher interface {
	Search(ctx context.Context, name string) ([]string, error)
}

// Resolver resolves artifact names to their latest version segment.
// It holds no per-call state and is safe for concurrent use.
type Resolver struct {
	searcher Searcher
	group    string
	logger   *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for debug output about skipped records.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver. group restricts accepted URIs to
// ".../org/<group>/..."; an empty group accepts any.
func New(s Searcher, group string, opts ...Option) *Resolver {
	r := &Resolver{searcher: s, group: group, logger: log.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the version segment of the most recent build of name.
//
// Errors carry a [derrors.Code]:
//   - INVALID_ARTIFACT for names that cannot appear in a placeholder
//   - NOT_FOUND when the search endpoint answers 404
//   - NETWORK_ERROR for transport failures and unusable responses
//   - NO_VERSIONS (also matching [ErrNoVersions]) when nothing parseable came back
//
// Context cancellation is returned as the context's error.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	res, err := r.ResolveVersion(ctx, name)
	if err != nil {
		return "", err
	}
	return res.Raw, nil
}

// ResolveVersion is like Resolve but also returns the parsed version.
func (r *Resolver) ResolveVersion(ctx context.Context, name string) (version.Resolved, error) {
	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, name)
	start := time.Now()

	res, err := r.resolve(ctx, name)
	hooks.OnResolveComplete(ctx, name, res.Raw, time.Since(start), err)
	return res, err
}

func (r *Resolver) resolve(ctx context.Context, name string) (version.Resolved, error) {
	if err := derrors.ValidateArtifactName(name); err != nil {
		return version.Resolved{}, err
	}

	uris, err := r.searcher.Search(ctx, name)
	if err != nil {
		return version.Resolved{}, classify(ctx, name, err)
	}

	pattern := version.NewLocatorPattern(r.group, name)
	candidates := make([]version.Resolved, 0, len(uris))
	for _, uri := range uris {
		res, err := pattern.Parse(uri)
		if err != nil {
			r.logger.Debug("skipping record", "artifact", name, "uri", uri, "err", err)
			continue
		}
		candidates = append(candidates, res)
	}

	latest, ok := version.Max(candidates)
	if !ok {
		return version.Resolved{}, derrors.Wrap(derrors.ErrCodeNoVersions, ErrNoVersions,
			"artifact %s: %d records, none with a version", name, len(uris))
	}
	r.logger.Debug("selected version", "artifact", name, "version", latest.Raw, "candidates", len(candidates))
	return latest, nil
}

func classify(ctx context.Context, name string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	if errors.Is(err, integrations.ErrNotFound) {
		return derrors.Wrap(derrors.ErrCodeNotFound, err, "search %s", name)
	}
	return derrors.Wrap(derrors.ErrCodeNetwork, err, "search %s", name)
}
