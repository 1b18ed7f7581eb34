// Package serve runs the HTTP API.
package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/futurework-1/NestEgg-Journal/internal/api"
	"github.com/futurework-1/NestEgg-Journal/internal/app"
	"github.com/futurework-1/NestEgg-Journal/internal/logger"
	"github.com/futurework-1/NestEgg-Journal/internal/observability"
)

// Command creates the serve command
func Command(ctx *app.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long:  "Serve the catalog, journal, game and settings over HTTP until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Run(sigCtx, ctx)
		},
	}

	cmd.Flags().String("listen", "", "Listen address, overriding webserver.listen")
	cmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	cmd.Flags().Bool("ratelimit", false, "Throttle API requests per client IP")
	_ = ctx.Viper.BindPFlag("webserver.listen", cmd.Flags().Lookup("listen"))
	_ = ctx.Viper.BindPFlag("webserver.metrics", cmd.Flags().Lookup("metrics"))
	_ = ctx.Viper.BindPFlag("webserver.ratelimit.enabled", cmd.Flags().Lookup("ratelimit"))
	return cmd
}

// Run serves until ctx is done, then shuts the server down and closes the
// app.
func Run(ctx context.Context, cli *app.Context) error {
	log := cli.Log().Module("serve")

	m, err := observability.NewMetrics()
	if err != nil {
		return err
	}
	a, err := cli.Open(app.WithMetrics(m))
	if err != nil {
		return err
	}
	defer a.Close()

	srv := api.New(a, api.WithLogger(cli.Log()))
	addr := cli.Settings.WebServer.Listen

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		return err
	}
	return nil
}
