package main

import (
	"github.com/dgallion1/bookpager/internal/segment"
	"github.com/spf13/cobra"
)

var chaptersOut string

var chaptersCmd = &cobra.Command{
	Use:   "chapters <input>",
	Short: "Split a book into chapters",
	Long: `Split a book into chapters and print them as a JSON array of
{ chapterName, text } objects. The input may be plain text or any supported
document format (md, html, pdf, docx, epub). Use "-" to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readBook(args[0])
		if err != nil {
			return err
		}
		sections := segment.Segment(doc.Text)
		log.Debug("segmented", "sections", len(sections))
		return writeOutput(chaptersOut, sections)
	},
}

func init() {
	chaptersCmd.Flags().StringVarP(&chaptersOut, "out", "o", "", "Write JSON to this file instead of stdout")
	rootCmd.AddCommand(chaptersCmd)
}
