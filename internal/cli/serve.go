package cli

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docver/pkg/observability/metrics"
	"github.com/matzehuels/docver/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		dir         string
		addr        string
		withMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve documentation with versions resolved on every page load",
		Long: `Serve a documentation directory over HTTP. Each request for an HTML page
reads the file and resolves its placeholders before responding, so pages
always show the repository's current versions. Other files are served
unchanged.`,
		Example: `  docver serve --dir site/ --addr :8080`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			var opts []server.Option
			if withMetrics {
				collector := metrics.NewCollector("docver", prometheus.NewRegistry())
				collector.Install()
				opts = append(opts, server.WithMetrics(collector.Handler()))
			}

			srv, err := server.New(dir, c.newRunner(logger), logger, opts...)
			if err != nil {
				return err
			}
			printInfo(os.Stderr, "serving %s on %s", dir, addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "documentation root")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&withMetrics, "metrics", true, "expose Prometheus metrics at /metrics")

	return cmd
}
