package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	derrors "github.com/matzehuels/docver/pkg/errors"
	"github.com/matzehuels/docver/pkg/pipeline"
)

func (c *CLI) resolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve ARTIFACT...",
		Short: "Print the latest version of artifacts",
		Long: `Query the repository for each artifact and print its latest version.

Each artifact is looked up independently; the command fails if any of them
cannot be resolved.`,
		Example: `  docver resolve arachne-core
  docver resolve arachne-core arachne-http --base-url https://repo.example.com/artifactory`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res := c.newResolver(loggerFromContext(ctx))
			return c.runResolve(ctx, res, args, os.Stdout, os.Stderr)
		},
	}
}

type resolveResult struct {
	version string
	err     error
}

// runResolve resolves names concurrently and prints them in argument order.
func (c *CLI) runResolve(ctx context.Context, res pipeline.VersionResolver, names []string, stdout, stderr io.Writer) error {
	spinner := newSpinner(ctx, stderr, fmt.Sprintf("resolving 0/%d", len(names)))
	spinner.Start()

	results := make([]resolveResult, len(names))
	var finished atomic.Int32

	var g errgroup.Group
	g.SetLimit(c.settings().Concurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			v, err := res.Resolve(ctx, name)
			results[i] = resolveResult{version: v, err: err}
			spinner.SetMessage(fmt.Sprintf("resolving %d/%d", finished.Add(1), len(names)))
			return nil
		})
	}
	_ = g.Wait()
	spinner.Stop()

	if err := ctx.Err(); err != nil {
		return err
	}

	failed := 0
	for i, r := range results {
		if r.err != nil {
			failed++
			printError(stderr, "%s: %s", names[i], derrors.UserMessage(r.err))
			continue
		}
		printVersion(stdout, names[i], r.version)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d artifacts could not be resolved", failed, len(names))
	}
	return nil
}
