package cmd

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/sanitize"
	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/state"
	"github.com/Tommy-Geenexus/exif-eraser-sub000/pkg/imgutil"
)

var (
	watchOutputTree          string
	watchAutoDelete          bool
	watchPreserveOrientation bool
)

// settleDelay gives writers time to finish a file before it is sanitized.
const settleDelay = time.Second

// producedSet remembers outputs the watcher itself wrote. Without it, a
// sanitized copy landing in the watched directory with a re-embedded
// orientation block would be picked up and re-sanitized without end.
type producedSet map[string]struct{}

func (s producedSet) mark(uri string) {
	s[uri] = struct{}{}
}

// skip reports whether path is a remembered output and forgets it, so a later
// external rewrite of the same file is processed normally.
func (s producedSet) skip(path string) bool {
	if _, ok := s[path]; !ok {
		return false
	}
	delete(s, path)
	return true
}

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <dir>",
	Short: "Sanitize images as they appear in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		p, err := newPipeline()
		if err != nil {
			return err
		}

		opts := sanitize.Options{
			AutoDelete:          watchAutoDelete,
			PreserveOrientation: watchPreserveOrientation,
		}
		if watchOutputTree != "" {
			abs, err := filepath.Abs(watchOutputTree)
			if err != nil {
				return err
			}
			opts.DefaultTreeURI = abs
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()

		if err := watcher.Add(dir); err != nil {
			return err
		}

		ctx := cmd.Context()
		pending := make(map[string]time.Time)
		produced := make(producedSet)
		ticker := time.NewTicker(settleDelay / 2)
		defer ticker.Stop()

		klog.Infof("watching %s", dir)
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					pending[event.Name] = time.Now()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				klog.Warningf("watch: %v", err)
			case <-ticker.C:
				for path, seen := range pending {
					if time.Since(seen) < settleDelay {
						continue
					}
					delete(pending, path)
					if produced.skip(path) {
						continue
					}
					watchSanitize(ctx, p, path, opts, produced)
				}
			}
		}
	},
}

// watchSanitize runs a one-item batch for a settled file and records the
// outputs it wrote so their own watch events are skipped.
func watchSanitize(ctx context.Context, p *pipeline, path string, opts sanitize.Options, produced producedSet) {
	kind, err := imgutil.SniffFile(path)
	if err != nil || kind == imgutil.KindUnknown {
		return
	}

	steps, err := p.orchestrator.Run(ctx, []state.SelectionItem{{SourceURI: path}}, opts)
	if err != nil {
		klog.Warningf("sanitize %s: %v", path, err)
		return
	}

	for step := range steps {
		single, ok := step.(sanitize.FinishedSingle)
		if !ok {
			continue
		}
		if single.Summary.Saved {
			produced.mark(single.Summary.OutputURI)
			klog.Infof("sanitized %s -> %s", path, single.Summary.OutputURI)
		} else {
			klog.V(1).Infof("already clean: %s", path)
		}
	}
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutputTree, "output", "o", "", "destination directory for sanitized copies")
	watchCmd.Flags().BoolVar(&watchAutoDelete, "auto-delete", false, "delete originals after a successful sanitized write")
	watchCmd.Flags().BoolVar(&watchPreserveOrientation, "preserve-orientation", false, "keep the EXIF orientation in sanitized copies")

	rootCmd.AddCommand(watchCmd)
}
