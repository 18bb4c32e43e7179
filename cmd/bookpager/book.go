package main

import (
	"os"

	"github.com/dgallion1/bookpager/internal/pager"
	"github.com/dgallion1/bookpager/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	bookOut          string
	bookWordsPerPage int
	bookSummary      bool
)

var bookCmd = &cobra.Command{
	Use:   "book <input>",
	Short: "Split a book into chapters and pages in one step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readBook(args[0])
		if err != nil {
			return err
		}
		result, err := pipeline.Run(doc.Text, pager.Config{WordsPerPage: bookWordsPerPage})
		if err != nil {
			return err
		}
		if err := writeOutput(bookOut, result); err != nil {
			return err
		}
		if bookSummary {
			FormatSummary(os.Stderr, doc.Title, bookWordsPerPage, result)
		}
		return nil
	},
}

func init() {
	bookCmd.Flags().StringVarP(&bookOut, "out", "o", "", "Write JSON to this file instead of stdout")
	bookCmd.Flags().IntVarP(&bookWordsPerPage, "words-per-page", "w", pager.DefaultWordsPerPage, "Words per page")
	bookCmd.Flags().BoolVarP(&bookSummary, "summary", "s", false, "Print a chapter/page summary to stderr")
	rootCmd.AddCommand(bookCmd)
}
