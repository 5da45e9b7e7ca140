package cli

import (
	"github.com/spf13/cobra"

	"github.com/longplay45/swissgrid/internal/server"
	"github.com/longplay45/swissgrid/pkg/document/store"
	"github.com/longplay45/swissgrid/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string // listen address
	storeURL string // document store URL
	workers  int    // planner worker count
}

// serveCommand creates the serve command, which runs the layout HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run an HTTP API that derives grids, plans and fits documents, and keeps
documents in a store. The store URL picks the backend: mem:// for
in-memory, file://<dir> for a directory, redis:// or mongodb:// for a
server-backed store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.storeURL, "store", "mem://", "document store URL")
	cmd.Flags().IntVar(&opts.workers, "workers", 2, "planner worker count")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.StoreURL != "" && !cmd.Flags().Changed("store") {
		opts.storeURL = cfg.StoreURL
	}

	st, err := store.Open(cmd.Context(), opts.storeURL)
	if err != nil {
		return err
	}
	defer st.Close()

	runner := c.newRunner(pipeline.Options{Workers: opts.workers})
	defer runner.Close()

	printInfo("Serving the layout API on %s (store %s)", opts.addr, opts.storeURL)

	return server.New(runner, st, c.Logger).ListenAndServe(cmd.Context(), opts.addr)
}
