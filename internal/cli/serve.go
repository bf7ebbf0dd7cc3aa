package cli

import (
	"github.com/spf13/cobra"

	"github.com/lmoral/captaleads/internal/config"
	"github.com/lmoral/captaleads/internal/logging"
	"github.com/lmoral/captaleads/internal/web"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP API server for uploads, lists, and agent access.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from CAPTALEADS_HTTP_ADDR or :8080)")

	return cmd
}

func runServe(addr string) error {
	cfg := config.Load()
	logging.Setup(cfg.DevMode)

	if addr == "" {
		addr = cfg.HTTPAddr
	}
	if flagDB == "" && cfg.DBPath != "" {
		flagDB = cfg.DBPath
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	return web.NewServer(database, cfg).ListenAndServe(addr)
}
