package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/sanitize"
)

var (
	resumeFrom                int
	resumeOutputTree          string
	resumeSuffix              string
	resumeRandomNames         bool
	resumeAutoDelete          bool
	resumePreserveOrientation bool
)

var resumeCmd = &cobra.Command{
	Use:   "resume [flags]",
	Short: "Re-run the persisted selection, optionally from a later index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}

		items, err := p.selection.Selection(resumeFrom)
		if err != nil {
			return err
		}

		opts := sanitize.Options{
			DisplayNameSuffix:   resumeSuffix,
			AutoDelete:          resumeAutoDelete,
			PreserveOrientation: resumePreserveOrientation,
			RandomizeNames:      resumeRandomNames,
		}
		if resumeOutputTree != "" {
			abs, err := filepath.Abs(resumeOutputTree)
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
		return p.selection.Clear()
	},
}

func init() {
	resumeCmd.Flags().IntVar(&resumeFrom, "from", 0, "selection index to resume from")
	resumeCmd.Flags().StringVarP(&resumeOutputTree, "output", "o", "", "destination directory for sanitized copies")
	resumeCmd.Flags().StringVar(&resumeSuffix, "suffix", "", "append a suffix to output names")
	resumeCmd.Flags().BoolVar(&resumeRandomNames, "random-names", false, "use random identifiers as output names")
	resumeCmd.Flags().BoolVar(&resumeAutoDelete, "auto-delete", false, "delete originals after a successful sanitized write")
	resumeCmd.Flags().BoolVar(&resumePreserveOrientation, "preserve-orientation", false, "keep the EXIF orientation in sanitized copies")

	rootCmd.AddCommand(resumeCmd)
}
