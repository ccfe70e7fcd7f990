// Command portfolio ingests batches of local photos into the portfolio
// backend: content-hash deduplication, sequential identifier assignment,
// windowed concurrent upload to S3, and photo record persistence in DynamoDB.
package main

import (
	"context"
	"os"
	"strconv"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/portfolio-uploader/internal/config"
	"github.com/fpang/portfolio-uploader/internal/logging"
	"github.com/fpang/portfolio-uploader/internal/s3store"
	"github.com/fpang/portfolio-uploader/internal/store"
)

// CLI flags
var (
	inputFlag       string
	concurrencyFlag int
)

// rootCmd is the main Cobra command for the portfolio CLI.
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Batch photo uploader for the portfolio site",
	Long: `Portfolio ingests batches of local image files, assigns each a stable
sequential identifier (IMG-0001, IMG-0002, ...), deduplicates by content
hash, and uploads surviving files to S3 with their EXIF capture info
persisted in DynamoDB.

Input is a text file listing one folder per line; each folder is scanned
non-recursively for supported images. Already-uploaded content (by hash)
is skipped. Per-file failures are collected and reported at the end of the
batch without aborting the remaining uploads.

Examples:
  portfolio --input folders.txt          # run one batch, scriptable
  portfolio --input folders.txt -c 4     # smaller upload windows
  portfolio                              # interactive menu`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&inputFlag, "input", "i", "", "File listing folders to ingest, one per line")
	rootCmd.Flags().IntVarP(&concurrencyFlag, "concurrency", "c", 0, "Upload window size (overrides PORTFOLIO_CONCURRENCY)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the configured collaborators for the menu actions.
type app struct {
	cfg    *config.Config
	store  *store.DynamoStore
	assets *s3store.Store

	// hadFailure latches any batch failure so the menu loop can exit non-zero.
	hadFailure bool
}

// runMain is the main execution logic called by Cobra.
func runMain(cmd *cobra.Command, args []string) {
	initStart := time.Now()
	logging.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if concurrencyFlag > 0 {
		cfg.Concurrency = concurrencyFlag
	}

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	log.Debug().Str("region", awsCfg.Region).Msg("AWS config loaded")

	a := &app{
		cfg:    cfg,
		store:  store.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.TableName),
		assets: s3store.New(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Namespace, cfg.PublicBaseURL),
	}

	logging.NewStartupLogger("portfolio").
		S3Bucket("assets", cfg.Bucket).
		DynamoTable("photos", cfg.TableName).
		Config("namespace", cfg.Namespace).
		Config("idPrefix", cfg.IDPrefix).
		Config("concurrency", strconv.Itoa(cfg.Concurrency)).
		Config("maxDimension", strconv.Itoa(cfg.MaxDimension)).
		Feature("doubleConfirmReset", cfg.ResetConfirm == config.ResetConfirmDouble).
		InitDuration(time.Since(initStart)).
		Log()

	if inputFlag != "" {
		if err := a.runUpload(ctx, inputFlag); err != nil {
			os.Exit(1)
		}
		return
	}

	a.menuLoop(ctx)
	if a.hadFailure {
		os.Exit(1)
	}
}
