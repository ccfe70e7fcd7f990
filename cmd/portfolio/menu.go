package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"

	"github.com/fpang/portfolio-uploader/internal/cli"
	"github.com/fpang/portfolio-uploader/internal/media"
	"github.com/fpang/portfolio-uploader/internal/pipeline"
)

// Menu actions, in display order.
const (
	actionUpload        = "Upload batch"
	actionMarkFeatured  = "Mark photos as featured"
	actionClearFeatured = "Clear all featured flags"
	actionReset         = "Full reset (delete everything)"
	actionExit          = "Exit"
)

// menuLoop runs the interactive menu until the user exits.
func (a *app) menuLoop(ctx context.Context) {
	for {
		prompt := promptui.Select{
			Label: "Portfolio",
			Items: []string{actionUpload, actionMarkFeatured, actionClearFeatured, actionReset, actionExit},
			Size:  5,
			Templates: &promptui.SelectTemplates{
				Label:    "{{ . }}",
				Active:   "▸ {{ . | cyan }}",
				Inactive: "  {{ . }}",
				Selected: "{{ . }}",
			},
			HideHelp: true,
		}

		_, action, err := prompt.Run()
		if err != nil {
			// Ctrl-C / EOF in the menu means leave.
			fmt.Println()
			return
		}

		switch action {
		case actionUpload:
			path := cli.PromptLine("Folder list file")
			path = cli.ValidateAndResolveFile(path)
			if err := a.runUpload(ctx, path); err != nil {
				a.hadFailure = true
			}
		case actionMarkFeatured:
			a.markFeatured(ctx)
		case actionClearFeatured:
			a.clearFeatured(ctx)
		case actionReset:
			a.fullReset(ctx)
		case actionExit:
			return
		}
	}
}

// runUpload executes one batch over the folders listed in the input file.
// The returned error is non-nil when any unit failed; the caller maps it to
// a non-zero exit.
func (a *app) runUpload(ctx context.Context, inputPath string) error {
	folders, err := media.ReadFolderList(inputPath)
	if err != nil {
		log.Error().Err(err).Str("path", inputPath).Msg("Cannot read folder list")
		return err
	}

	start := time.Now()
	batch := &pipeline.Batch{
		Store:        a.store,
		Assets:       a.assets,
		Extract:      media.ExtractCaptureInfo,
		Prefix:       a.cfg.IDPrefix,
		PadWidth:     a.cfg.IDPadWidth,
		Concurrency:  a.cfg.Concurrency,
		MaxDimension: a.cfg.MaxDimension,
		Sink:         newTerminalSink(os.Stdout),
	}

	summary, err := batch.Run(ctx, folders)
	if err != nil {
		var batchErr *pipeline.BatchError
		if errors.As(err, &batchErr) {
			fmt.Printf("Uploaded %d, skipped %d, FAILED %d in %s\n",
				summary.Completed, summary.Skipped, len(summary.FailedIDs),
				cli.FormatDurationShort(time.Since(start)))
			for _, id := range batchErr.FailedIDs {
				fmt.Printf("  failed: %s\n", id)
			}
			return err
		}
		log.Error().Err(err).Msg("Batch aborted")
		return err
	}

	fmt.Printf("Uploaded %d, skipped %d in %s\n",
		summary.Completed, summary.Skipped, cli.FormatDurationShort(time.Since(start)))
	return nil
}

// markFeatured sets the featured flag on a comma-separated list of photo
// numbers. Per-identifier errors are logged and the rest continue.
func (a *app) markFeatured(ctx context.Context) {
	input := cli.PromptLine("Photo numbers to feature (e.g. 3, 17)")
	numbers, err := cli.ParseIDNumbers(input)
	if err != nil {
		log.Error().Err(err).Msg("Invalid input")
		return
	}

	marked := 0
	for _, n := range numbers {
		id := pipeline.FormatID(a.cfg.IDPrefix, n, a.cfg.IDPadWidth)
		if err := a.store.SetFeatured(ctx, id, true); err != nil {
			log.Error().Err(err).Str("id", id).Msg("Failed to mark featured")
			continue
		}
		marked++
	}
	fmt.Printf("Marked %d photo(s) as featured.\n", marked)
}

func (a *app) clearFeatured(ctx context.Context) {
	cleared, err := a.store.ClearFeatured(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to clear featured flags")
		return
	}
	fmt.Printf("Cleared featured flag on %d photo(s).\n", cleared)
}

// fullReset deletes every photo record, then every remote asset under the
// namespace. Requires the configured confirmation flow.
func (a *app) fullReset(ctx context.Context) {
	if !cli.ConfirmReset(a.cfg.ResetConfirm) {
		return
	}

	records, err := a.store.DeleteAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to delete photo records")
		return
	}

	assets, err := a.assets.DeleteAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to delete remote assets")
		return
	}

	fmt.Printf("Reset complete: %d record(s) and %d asset(s) deleted.\n", records, assets)
}
