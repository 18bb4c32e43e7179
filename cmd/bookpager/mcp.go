package main

import (
	"github.com/dgallion1/bookpager/internal/config"
	"github.com/dgallion1/bookpager/internal/mcptools"
	"github.com/dgallion1/bookpager/internal/version"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the chapter and page tools over MCP (stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		pageCfg, err := config.Load().PageConfig()
		if err != nil {
			return err
		}
		server := mcptools.NewServer(version.Version, mcptools.Toolset{
			WordsPerPage: pageCfg.WordsPerPage,
			ParseOpts:    parseOptions(),
		})
		log.Info("mcp server ready", "version", version.Version, "words_per_page", pageCfg.WordsPerPage)
		return server.Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
