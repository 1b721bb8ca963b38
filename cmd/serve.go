package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wscc/fixture-converter/internal/server"
)

// listenAddr overrides server.listen_addr when set.
var listenAddr string

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web service",
	Long: `Run the web service: the upload page at /, the preview endpoint at
/api/convert/preview and the download endpoint at /api/convert.

The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listenAddr != "" {
			appConfig.Server.ListenAddr = listenAddr
		}

		srv := server.New(appConfig, *loggerFrom(cmd))
		return srv.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(
		&listenAddr,
		"addr",
		"",
		"Address to listen on (overrides server.listen_addr)",
	)
}
