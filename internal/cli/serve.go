package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/proctex/pkg/server"
	"github.com/matzehuels/proctex/pkg/session"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve presets and editable texture sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			sessions := session.NewMemoryStore(c.Config.Server.SessionTTL.Duration)
			sessions.SetLogger(c.Logger)

			srv := server.New(server.Config{
				Runner:    runner,
				Sessions:  sessions,
				Workers:   c.Config.Render.Workers,
				Timeout:   c.Config.Render.Timeout.Duration,
				MaxPixels: c.Config.Server.MaxPixels,
				Logger:    c.Logger,
			})
			printInfo("Serving on %s", StyleValue.Render(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}
