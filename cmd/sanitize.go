package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/sanitize"
)

var (
	sanitizeOutputTree          string
	sanitizeSuffix              string
	sanitizeRandomNames         bool
	sanitizeAutoDelete          bool
	sanitizePreserveOrientation bool
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [flags] <path>...",
	Short: "Strip metadata from images; directories expand to their images",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}

		items, err := selectionFromArgs(args)
		if err != nil {
			return err
		}

		// Persist before running so a killed batch can be resumed.
		if len(items) == 1 {
			err = p.selection.PutSingle(items[0].SourceURI, false)
		} else {
			err = p.selection.PutMulti(items)
		}
		if err != nil {
			return err
		}

		opts := sanitize.Options{
			DisplayNameSuffix:   sanitizeSuffix,
			AutoDelete:          sanitizeAutoDelete,
			PreserveOrientation: sanitizePreserveOrientation,
			RandomizeNames:      sanitizeRandomNames,
		}
		if sanitizeOutputTree != "" {
			abs, err := filepath.Abs(sanitizeOutputTree)
			if err != nil {
				return err
			}
			opts.DefaultTreeURI = abs
		}

		summaries, err := runBatch(cmd.Context(), p, items, opts)
		if err != nil {
			return err
		}

		reportBatch(summaries)

		// The selection is consumed by one successful run.
		return p.selection.Clear()
	},
}

func init() {
	sanitizeCmd.Flags().StringVarP(&sanitizeOutputTree, "output", "o", "", "destination directory for sanitized copies")
	sanitizeCmd.Flags().StringVar(&sanitizeSuffix, "suffix", "", "append a suffix to output names")
	sanitizeCmd.Flags().BoolVar(&sanitizeRandomNames, "random-names", false, "use random identifiers as output names")
	sanitizeCmd.Flags().BoolVar(&sanitizeAutoDelete, "auto-delete", false, "delete originals after a successful sanitized write")
	sanitizeCmd.Flags().BoolVar(&sanitizePreserveOrientation, "preserve-orientation", false, "keep the EXIF orientation in sanitized copies")

	rootCmd.AddCommand(sanitizeCmd)
}
