package main

import (
	"github.com/dgallion1/bookpager/internal/codec"
	"github.com/dgallion1/bookpager/internal/pager"
	"github.com/spf13/cobra"
)

var (
	pagesOut          string
	pagesWordsPerPage int
)

var pagesCmd = &cobra.Command{
	Use:   "pages <chapters.json>",
	Short: "Split chapters into pages",
	Long: `Read a JSON array of { chapterName, text } objects (as written by the
chapters command) and split each chapter's text into pages.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		sections, err := codec.DecodeSections(in)
		if err != nil {
			return err
		}
		result, err := pager.PaginateSections(sections, pager.Config{WordsPerPage: pagesWordsPerPage})
		if err != nil {
			return err
		}
		return writeOutput(pagesOut, result)
	},
}

func init() {
	pagesCmd.Flags().StringVarP(&pagesOut, "out", "o", "", "Write JSON to this file instead of stdout")
	pagesCmd.Flags().IntVarP(&pagesWordsPerPage, "words-per-page", "w", pager.DefaultWordsPerPage, "Words per page")
	rootCmd.AddCommand(pagesCmd)
}
