package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipmind/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/clipmind/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP JSON API",
	Long: `Start the HTTP JSON API. Every /v1 request names its owner with the
X-User-ID or X-Session-ID header.

Routes:
  POST   /v1/search
  POST   /v1/ask
  PUT    /v1/videos/{id}
  DELETE /v1/videos/{id}
  PUT    /v1/videos/{id}/content/{type}
  POST   /v1/videos/{id}/conversation
  PUT    /v1/collections/{id}/videos/{videoId}
  GET    /v1/history`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil || indexingService == nil {
		return errors.New("search and indexing services not configured")
	}
	addr, _ := cmd.Flags().GetString("addr")

	server, err := httpapi.NewServer(httpapi.Services{
		Search:   searchService,
		Indexing: indexingService,
		Answer:   answerService,
		Videos:   videoRegistry,
		History:  historyReader,
	}, httpapi.HeaderOwner)
	if err != nil {
		return err
	}

	logger.Info("HTTP API listening on %s", addr)
	cmd.Printf("HTTP API listening on %s\n", addr)
	return server.Run(commandContext(cmd), addr)
}
