package main

import (
	"github.com/spf13/cobra"

	"github.com/yigit/universe/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := server.NewServer(configPath)
		if err != nil {
			return err
		}
		return srv.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
