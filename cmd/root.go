package cmd

import (
	"context"
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var rootCmd = &cobra.Command{
	Use:   "exif-eraser",
	Short: "exif-eraser - strip embedded metadata from images",
	Long: "exif-eraser strips EXIF, XMP/Extended XMP, ICC profiles and Photoshop image\n" +
		"resources from JPEG, PNG and WEBP images - one image, many images, or whole\n" +
		"directory trees - with per-image outcome reporting.",
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	klog.InitFlags(nil)
	rootCmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
