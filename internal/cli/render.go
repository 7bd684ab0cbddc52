package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	derrors "github.com/matzehuels/docver/pkg/errors"
	"github.com/matzehuels/docver/pkg/pipeline"
	"github.com/matzehuels/docver/pkg/placeholder"
)

// renderOpts holds options for the render command.
type renderOpts struct {
	outDir   string
	dryRun   bool
	progress bool
	strict   bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render FILE|DIR...",
		Short: "Substitute version placeholders in documentation",
		Long: `Replace every version placeholder with the artifact's latest version.

HTML files (.html, .htm) are scanned for placeholders inside code elements
and .version-lookup elements; all other files have every <NAME-version>
token replaced. Files are rewritten in place unless --out or --dry-run is
given. Placeholders that cannot be resolved are replaced with the error
marker.`,
		Example: `  docver render docs/
  docver render index.html --dry-run
  docver render docs/ --out site/ --progress`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "write results below this directory instead of in place")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print results to stdout without writing files")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show a live view of each placeholder")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero if any placeholder failed to resolve")
	cmd.MarkFlagsMutuallyExclusive("out", "dry-run")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, args []string, opts renderOpts) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return derrors.New(derrors.ErrCodeInvalidInput, "no documentation files found")
	}

	logger := loggerFromContext(ctx)
	runner := c.newRunner(logger)

	var (
		total pipeline.Stats
		wrote []string
	)
	if opts.progress {
		total, wrote, err = renderWithProgress(ctx, runner, files, opts)
	} else {
		prog := newProgress(logger)
		total, wrote, err = renderAll(ctx, runner, files, opts, os.Stdout)
		if err == nil {
			prog.done(fmt.Sprintf("rendered %d files", len(files)))
		}
	}
	if err != nil {
		return err
	}

	if !opts.dryRun {
		for _, p := range wrote {
			printFile(os.Stderr, p)
		}
		printStats(os.Stderr, len(files), total)
	}
	if total.Failed > 0 {
		if opts.strict {
			return fmt.Errorf("%d placeholders could not be resolved", total.Failed)
		}
		printWarning(os.Stderr, "%d placeholders replaced with the error marker", total.Failed)
	} else if !opts.dryRun && total.Resolved > 0 {
		printSuccess(os.Stderr, "%d placeholders resolved", total.Resolved)
	}
	return nil
}

// renderAll processes files in order and returns the combined stats and the
// paths written.
func renderAll(ctx context.Context, runner *pipeline.Runner, files []inputFile, opts renderOpts, stdout io.Writer) (pipeline.Stats, []string, error) {
	var (
		total pipeline.Stats
		wrote []string
	)
	for _, f := range files {
		res, target, err := renderFile(ctx, runner, f, opts, stdout)
		if err != nil {
			return total, wrote, err
		}
		addStats(&total, res.Stats)
		if target != "" {
			wrote = append(wrote, target)
		}
	}
	return total, wrote, nil
}

// renderFile processes one file and writes the result according to opts.
// It returns the path written, or "" when nothing was written.
func renderFile(ctx context.Context, runner *pipeline.Runner, f inputFile, opts renderOpts, stdout io.Writer) (*pipeline.Result, string, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return nil, "", derrors.Wrap(derrors.ErrCodeInvalidPath, err, "%s", f.path)
	}
	content, err := os.ReadFile(f.path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", f.path, err)
	}

	doc := pipeline.Document{
		Name:    filepath.ToSlash(f.rel),
		Format:  placeholder.FormatForPath(f.path),
		Content: content,
	}
	res, err := runner.Process(ctx, doc)
	if err != nil {
		return nil, "", err
	}

	switch {
	case opts.dryRun:
		_, err = stdout.Write(res.Content)
		return res, "", err

	case opts.outDir != "":
		target := filepath.Join(opts.outDir, f.rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, "", fmt.Errorf("create output directory: %w", err)
		}
		if err := os.WriteFile(target, res.Content, info.Mode().Perm()); err != nil {
			return nil, "", fmt.Errorf("write %s: %w", target, err)
		}
		return res, target, nil

	default:
		if !res.Changed() || bytes.Equal(res.Content, content) {
			return res, "", nil
		}
		if err := os.WriteFile(f.path, res.Content, info.Mode().Perm()); err != nil {
			return nil, "", fmt.Errorf("write %s: %w", f.path, err)
		}
		return res, f.path, nil
	}
}
