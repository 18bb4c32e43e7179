package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/bookpager/internal/config"
	"github.com/dgallion1/bookpager/internal/parser"
	"github.com/dgallion1/bookpager/internal/version"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	log     = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

var rootCmd = &cobra.Command{
	Use:   "bookpager",
	Short: "Split plain text books into chapters and pages",
	Long: `bookpager splits a book into chapters at PREFACE, CONCLUSION and
CHAPTER <roman numeral> heading lines, then cuts every chapter into pages
of a fixed number of words (250 by default).

Text before the first heading becomes the TITLE section.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("bookpager %s\n", version.String()))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// parseOptions reads the parser settings shared with the server.
func parseOptions() parser.Options {
	return parser.Options{PDFFallbackPdftotext: config.Load().PDFFallbackPdftotext}
}
