package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/metadata"
	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/tui"
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>...",
	Short: "Report embedded metadata without modifying files",
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
		resolved, err := p.orchestrator.ExpandSelection(items)
		if err != nil {
			return err
		}

		engine := metadata.NewEngine()
		for i, item := range resolved {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintf(os.Stdout, "%s\n", scanFileStyle.Render(item.SourceURI))

			src, err := p.store.OpenInput(item.SourceURI)
			if err != nil {
				fmt.Fprintf(os.Stdout, "  %s %s\n", scanBulletStyle.Render("-"), scanDimStyle.Render(err.Error()))
				continue
			}

			snapshot, err := engine.Inspect(src)
			if err != nil {
				_ = src.Close()
				fmt.Fprintf(os.Stdout, "  %s %s\n", scanBulletStyle.Render("-"), scanDimStyle.Render(err.Error()))
				continue
			}

			details, _ := metadata.Details(src)
			_ = src.Close()

			if !snapshot.MetadataPresent() && len(details) == 0 {
				fmt.Fprintf(os.Stdout, "  %s %s\n", scanBulletStyle.Render("-"), scanDimStyle.Render("none"))
				continue
			}

			fmt.Fprintf(os.Stdout, "  %s %s\n",
				scanCategoryStyle.Render("Attributes:"),
				scanValueStyle.Render(strings.Join(attributeNames(snapshot), ", ")),
			)
			for _, detail := range details {
				if len(detail.Values) == 0 {
					continue
				}
				fmt.Fprintf(os.Stdout, "  %s\n", scanCategoryStyle.Render(detail.Category+":"))
				for _, value := range detail.Values {
					fmt.Fprintf(os.Stdout, "    %s %s\n", scanBulletStyle.Render("-"), scanValueStyle.Render(value))
				}
			}
		}

		return nil
	},
}

func attributeNames(snapshot metadata.Snapshot) []string {
	var names []string
	if snapshot.HasEXIF {
		names = append(names, "EXIF")
	}
	if snapshot.HasXMP {
		names = append(names, "XMP")
	}
	if snapshot.HasExtendedXMP {
		names = append(names, "Extended XMP")
	}
	if snapshot.HasICCProfile {
		names = append(names, "ICC profile")
	}
	if snapshot.HasPhotoshopResources {
		names = append(names, "Photoshop resources")
	}
	if len(names) == 0 {
		names = append(names, "none")
	}
	return names
}

var (
	scanFileStyle     = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	scanCategoryStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	scanValueStyle    = lipgloss.NewStyle().Foreground(tui.ColorInk)
	scanDimStyle      = lipgloss.NewStyle().Foreground(tui.ColorDim)
	scanBulletStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(scanCmd)
}
