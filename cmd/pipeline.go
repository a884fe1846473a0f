package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/document"
	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/metadata"
	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/sanitize"
	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/state"
	"github.com/Tommy-Geenexus/exif-eraser-sub000/internal/tui"
)

// pipeline bundles the wired collaborators every command shares.
type pipeline struct {
	store        document.Store
	staging      *document.Staging
	resolver     *document.Resolver
	orchestrator *sanitize.Orchestrator
	selection    *state.SelectionStore
	catalog      *state.Catalog
}

func newPipeline() (*pipeline, error) {
	staging, err := document.NewStaging()
	if err != nil {
		return nil, err
	}
	selection, err := state.NewSelectionStore()
	if err != nil {
		return nil, err
	}
	catalog, err := state.NewCatalog()
	if err != nil {
		return nil, err
	}

	store := document.NewFSStore()
	resolver := document.NewResolver(store, staging)

	return &pipeline{
		store:        store,
		staging:      staging,
		resolver:     resolver,
		orchestrator: sanitize.NewOrchestrator(resolver, metadata.NewEngine()),
		selection:    selection,
		catalog:      catalog,
	}, nil
}

// selectionFromArgs absolutizes and validates path arguments.
func selectionFromArgs(args []string) ([]state.SelectionItem, error) {
	items := make([]state.SelectionItem, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, err
		}
		items = append(items, state.SelectionItem{SourceURI: abs})
	}
	return items, nil
}

// runBatch drives one batch under the live progress UI and collects the
// ordered per-item summaries.
func runBatch(ctx context.Context, p *pipeline, items []state.SelectionItem, opts sanitize.Options) ([]sanitize.Summary, error) {
	resolved, err := p.orchestrator.ExpandSelection(items)
	if err != nil {
		return nil, err
	}

	steps, err := p.orchestrator.Run(ctx, resolved, opts)
	if err != nil {
		return nil, err
	}

	updates := make(chan tui.Update, 64)
	program := tea.NewProgram(tui.NewModel(updates))

	uiDone := make(chan struct{})
	go func() {
		_, _ = program.Run()
		close(uiDone)
	}()

	var summaries []sanitize.Summary
	finished := false
	for step := range steps {
		switch step := step.(type) {
		case sanitize.FinishedSingle:
			summaries = append(summaries, step.Summary)
			updates <- tui.Update{
				DisplayName: step.Summary.DisplayName,
				Saved:       step.Summary.Saved,
				Progress:    step.Progress,
			}
		case sanitize.FinishedBulk:
			finished = true
		}
	}

	close(updates)
	<-uiDone

	if !finished {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}
	}
	return summaries, nil
}

func reportBatch(summaries []sanitize.Summary) {
	rows := make([]tui.ResultRow, 0, len(summaries))
	saved := 0
	for _, summary := range summaries {
		outcome := "already clean"
		if summary.Saved {
			saved++
			outcome = summary.OutputURI
		} else if summary.Metadata.MetadataPresent() {
			outcome = "failed"
		}
		name := summary.DisplayName
		if name == "" {
			name = "(unresolved)"
		}
		rows = append(rows, tui.ResultRow{DisplayName: name, Outcome: outcome, Saved: summary.Saved})
	}

	fmt.Fprintln(os.Stdout, tui.RenderResults(rows))
	fmt.Fprintln(os.Stdout, tui.RenderSummary([]tui.SummaryRow{
		{Label: "Images handled", Value: fmt.Sprintf("%d", len(summaries))},
		{Label: "Sanitized copies written", Value: fmt.Sprintf("%d", saved)},
	}))
}
