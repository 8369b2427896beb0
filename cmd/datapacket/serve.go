// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/datapacket/internal/secrets"
	"github.com/pdiddy/datapacket/internal/tracker"
	"github.com/pdiddy/datapacket/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the data source tracker web form",
	Long: `Serve starts the tracker web form: GET / shows the add form, POST /add
records a source, GET /sources lists them and GET /api/sources returns
them as JSON. Flash messages are signed with .secrets/session-key, which
is generated on first run.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		addr = v
	}

	key, err := secrets.SessionKey(secretsDir, logger)
	if err != nil {
		return err
	}

	store, err := tracker.NewStore(cfg.Tracker)
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := web.NewServer(store, key, logger)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(cmd.Context(), addr)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config server.addr)")

	rootCmd.AddCommand(serveCmd)
}
