package sanitize

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/document"
	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/metadata"
	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/state"
	"github.com/Tommy-Geenexus/exif-eraser-sub000/pkg/imgutil"
	"github.com/Tommy-Geenexus/exif-eraser-sub000/pkg/naming"
)

// stepBuffer bounds how far the batch worker runs ahead of a slow consumer.
const stepBuffer = 8

// Orchestrator drives the per-item and whole-batch sanitization algorithm.
type Orchestrator struct {
	resolver *document.Resolver
	engine   metadata.Engine
}

// NewOrchestrator wires the pipeline over a resolver and metadata engine.
func NewOrchestrator(resolver *document.Resolver, engine metadata.Engine) *Orchestrator {
	return &Orchestrator{resolver: resolver, engine: engine}
}

// ExpandSelection resolves selection items into the concrete ordered batch:
// tree references expand into their supported image children, document
// references pass through.
func (o *Orchestrator) ExpandSelection(items []state.SelectionItem) ([]state.SelectionItem, error) {
	if len(items) == 0 {
		return nil, state.ErrEmptySelection
	}

	var resolved []state.SelectionItem
	for _, item := range items {
		if !o.resolver.Store().IsTree(item.SourceURI) {
			resolved = append(resolved, item)
			continue
		}

		children, err := o.resolver.Children(item.SourceURI)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			resolved = append(resolved, state.SelectionItem{SourceURI: child, FromCamera: item.FromCamera})
		}
	}

	if len(resolved) == 0 {
		return nil, state.ErrEmptySelection
	}
	return resolved, nil
}

// Run processes items strictly in order on a single worker and returns the
// step stream. Items are never parallelized: each one buffers a full image,
// and concurrent buffering is memory-unsafe at scale. The returned channel
// is bounded and closed after the terminal event.
//
// Per-item failures fold into summaries with Saved=false; only an empty
// selection fails Run itself.
func (o *Orchestrator) Run(ctx context.Context, items []state.SelectionItem, opts Options) (<-chan Step, error) {
	if len(items) == 0 {
		return nil, state.ErrEmptySelection
	}

	steps := make(chan Step, stepBuffer)
	go func() {
		defer close(steps)

		total := len(items)
		for i, item := range items {
			if ctx.Err() != nil {
				return
			}

			summary := o.processItem(ctx, item, opts)
			select {
			case steps <- FinishedSingle{Summary: summary, Progress: Progress(i, total)}:
			case <-ctx.Done():
				return
			}
		}

		select {
		case steps <- FinishedBulk{}:
		case <-ctx.Done():
		}
	}()

	return steps, nil
}

// processItem contains every failure at the item boundary: the summary
// reflects whatever was computed before the failure, with Saved=false.
func (o *Orchestrator) processItem(ctx context.Context, item state.SelectionItem, opts Options) (summary Summary) {
	summary = Summary{OutputURI: item.SourceURI}

	defer func() {
		if r := recover(); r != nil {
			klog.Errorf("item %s: %v", item.SourceURI, r)
			summary.Saved = false
			summary.OutputURI = item.SourceURI
		}
	}()

	info, err := o.resolver.DisplayNameAndMime(item.SourceURI)
	if err != nil {
		klog.Warningf("resolve %s: %v", item.SourceURI, err)
		return summary
	}
	summary.DisplayName = info.DisplayName
	summary.MimeType = info.MimeType
	summary.Extension = imgutil.KindForMimeType(info.MimeType).Extension()

	snapshot, err := o.inspect(item.SourceURI)
	if err != nil {
		klog.Warningf("inspect %s: %v", item.SourceURI, err)
		return summary
	}
	summary.Metadata = snapshot

	// Sanitization only ever creates output when there is something to
	// remove.
	if !snapshot.MetadataPresent() {
		return summary
	}

	outName := o.outputName(info.DisplayName, summary.Extension, opts)

	destURI, err := o.resolver.CreateDestination(item.SourceURI, opts.DefaultTreeURI, outName, info.MimeType)
	if err != nil {
		klog.Warningf("destination for %s: %v", item.SourceURI, err)
		return summary
	}

	if ctx.Err() != nil {
		o.discardDestination(destURI)
		return summary
	}

	if err := o.save(item.SourceURI, destURI, opts.PreserveOrientation); err != nil {
		klog.Warningf("sanitize %s: %v", item.SourceURI, err)
		o.discardDestination(destURI)
		return summary
	}
	summary.Saved = true
	summary.OutputURI = destURI

	if opts.AutoDelete && !o.resolver.IsStaged(item.SourceURI) {
		o.resolver.DeleteOriginal(item.SourceURI)
	}

	// The store may normalize the display name it was handed.
	if destInfo, err := o.resolver.DisplayNameAndMime(destURI); err == nil {
		summary.DisplayName = destInfo.DisplayName
	} else {
		summary.DisplayName = outName
	}

	return summary
}

func (o *Orchestrator) inspect(uri string) (metadata.Snapshot, error) {
	src, err := o.resolver.Store().OpenInput(uri)
	if err != nil {
		return metadata.Snapshot{}, fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	defer src.Close()

	return o.engine.Inspect(src)
}

func (o *Orchestrator) save(srcURI, destURI string, preserveOrientation bool) error {
	src, err := o.resolver.Store().OpenInput(srcURI)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	defer src.Close()

	dst, err := o.resolver.Store().OpenOutput(destURI)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}

	if err := o.engine.SaveExclusive(src, dst, preserveOrientation); err != nil {
		_ = dst.Close()
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIoFailure, err)
	}
	return nil
}

// discardDestination removes a destination whose write never completed, so
// cancellation and write failures do not leave empty documents behind.
func (o *Orchestrator) discardDestination(destURI string) {
	if err := o.resolver.Store().Delete(destURI); err != nil {
		klog.V(1).Infof("unable to discard %s: %v", destURI, err)
	}
}

func (o *Orchestrator) outputName(displayName, extension string, opts Options) string {
	if opts.RandomizeNames {
		return naming.Randomized()
	}

	base := naming.BaseName(displayName)
	if base == "" {
		base = naming.Randomized()
	}

	if opts.DisplayNameSuffix != "" {
		suffixed, err := naming.ApplySuffix(base, opts.DisplayNameSuffix)
		if err == nil {
			base = suffixed
		} else {
			// An invalid suffix never fails the item; keep the plain base.
			klog.V(1).Infof("suffix %q rejected for %q: %v", opts.DisplayNameSuffix, base, err)
		}
	}

	return naming.FallbackFor(base, extension)
}
