package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eqingest/internal/extract"
	"eqingest/internal/ingest"
	"eqingest/internal/logging"
	"eqingest/internal/meta"
	"eqingest/internal/storage"
)

var chartCmd = &cobra.Command{
	Use:   "chart [path ...]",
	Short: "Ingest result chart XML files",
	Long: `Ingest result chart XML files. Each path may be a single file or a
directory; directories are walked for *.xml files under chart folders. With
no paths the configured DATA_DIR is used.`,
	RunE: runKind(extract.KindChart),
}

var ppCmd = &cobra.Command{
	Use:   "pp [path ...]",
	Short: "Ingest past performance XML files",
	Long: `Ingest past performance XML files. Each path may be a single file or
a directory; directories are walked for *.xml files under pp folders. With no
paths the configured DATA_DIR is used.`,
	RunE: runKind(extract.KindPP),
}

var (
	flagRoot string
	flagKind string

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Ingest every matching file under a root directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := extract.Kind(flagKind)
			if _, err := extract.ForKind(kind); err != nil {
				return err
			}
			if flagRoot == "" {
				flagRoot = resolve().DataDir
			}
			return runKind(kind)(cmd, []string{flagRoot})
		},
	}
)

func init() {
	runCmd.Flags().StringVar(&flagRoot, "root", "", "directory to walk (default DATA_DIR)")
	runCmd.Flags().StringVar(&flagKind, "kind", "chart", "document kind: chart or pp")

	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(ppCmd)
	rootCmd.AddCommand(runCmd)
}

func runKind(kind extract.Kind) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := resolve()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		log, err := logging.New(cfg.Debug)
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer log.Sync()

		dsn, err := cfg.RequireDSN()
		if err != nil {
			return err
		}
		repo, err := storage.Open(ctx, cfg.Driver, storage.Config{
			DSN:    dsn,
			Schema: cfg.Schema,
		})
		if err != nil {
			return fmt.Errorf("open %s: %w", cfg.Driver, err)
		}
		defer repo.Close()

		p, err := ingest.New(repo, log, kind, ingest.Options{
			Provider:  cfg.Provider,
			Overrides: meta.FileMeta{TrackCode: flagTrack, RaceDate: flagDate},
			Limit:     flagLimit,
		})
		if err != nil {
			return err
		}
		if err := p.Validate(ctx); err != nil {
			return fmt.Errorf("destination schema: %w", err)
		}

		if len(args) == 0 {
			args = []string{cfg.DataDir}
		}
		return ingestPaths(ctx, p, log, args)
	}
}

// ingestPaths runs each argument through the pipeline. Directory runs tally
// per-file failures; any failure anywhere makes the invocation exit non-zero
// after all paths have been attempted.
func ingestPaths(ctx context.Context, p *ingest.Pipeline, log *zap.Logger, paths []string) error {
	var failed int
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			rep, err := p.IngestDir(ctx, path)
			if err != nil {
				return err
			}
			failed += rep.Failed
			continue
		}
		if _, err := p.IngestFile(ctx, path); err != nil {
			failed++
			log.Error("file failed", zap.String("file", path), zap.Error(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}
