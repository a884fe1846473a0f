package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/state"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show the image source order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		printOrder(p.catalog.Order())
		return nil
	},
}

var sourcesMoveCmd = &cobra.Command{
	Use:   "move <old> <new>",
	Short: "Swap two positions in the image source order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldIndex, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("old position: %w", err)
		}
		newIndex, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("new position: %w", err)
		}

		p, err := newPipeline()
		if err != nil {
			return err
		}

		updated, err := state.Reorder(p.catalog.Order(), oldIndex, newIndex)
		if err != nil {
			return err
		}
		if err := p.catalog.Put(updated); err != nil {
			return err
		}

		printOrder(updated)
		return nil
	},
}

func printOrder(order []state.Source) {
	for i, source := range order {
		fmt.Fprintf(os.Stdout, "%d. %s\n", i, source)
	}
}

func init() {
	sourcesCmd.AddCommand(sourcesMoveCmd)
	rootCmd.AddCommand(sourcesCmd)
}
