package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
	"github.com/spf13/cobra"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/state"
)

var stageCmd = &cobra.Command{
	Use:   "stage <dir>",
	Short: "Import a camera card or mount directory into the staging area",
	Long: "stage copies a directory (for example a mounted camera card) into the\n" +
		"app-private cache staging area and persists the staged images as the\n" +
		"current selection, marked as camera captures.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		p, err := newPipeline()
		if err != nil {
			return err
		}

		root, err := p.staging.Root()
		if err != nil {
			return err
		}

		dest := filepath.Join(root, filepath.Base(src))
		if err := cp.Copy(src, dest); err != nil {
			return err
		}

		children, err := p.resolver.Children(dest)
		if err != nil {
			return err
		}

		items := make([]state.SelectionItem, 0, len(children))
		for _, child := range children {
			items = append(items, state.SelectionItem{SourceURI: child, FromCamera: true})
		}
		if err := p.selection.PutMulti(items); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Staged %d images under %s\n", len(items), dest)
		fmt.Fprintln(os.Stdout, "Run 'exif-eraser resume' to sanitize the staged selection.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stageCmd)
}
