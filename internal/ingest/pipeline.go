// Package ingest drives the per-file pipeline: discover, dedupe, parse,
// register, extract, stage. It owns no parsing or SQL of its own; it wires
// the other packages together and reports what happened.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"eqingest/internal/extract"
	"eqingest/internal/meta"
	"eqingest/internal/scan"
	"eqingest/internal/schema"
	"eqingest/internal/storage"
	"eqingest/internal/xmltree"
)

// Options tunes a pipeline run.
type Options struct {
	// Provider labels the file registry rows. Defaults to "equibase".
	Provider string

	// Overrides beat both filename and document metadata.
	Overrides meta.FileMeta

	// Limit caps the number of files processed in a directory run.
	// Zero means no cap.
	Limit int
}

// Pipeline ingests documents of one kind into one repository. Files are
// processed sequentially; content-identical files after the first are
// skipped within a run.
type Pipeline struct {
	repo  storage.Repository
	log   *zap.Logger
	kind  extract.Kind
	spec  *extract.DocSpec
	opts  Options
	dedup *scan.Dedup
}

// FileReport summarizes the outcome for one file.
type FileReport struct {
	Path      string
	Duplicate bool
	FileID    int64
	Staged    map[string]int
	Skipped   map[string]error
	Dropped   map[string]int
}

// Report summarizes a directory run.
type Report struct {
	Found      int
	Processed  int
	Duplicates int
	Failed     int
	Staged     int
}

// New builds a pipeline for one document kind.
func New(repo storage.Repository, log *zap.Logger, kind extract.Kind, opts Options) (*Pipeline, error) {
	spec, err := extract.ForKind(kind)
	if err != nil {
		return nil, err
	}
	if opts.Provider == "" {
		opts.Provider = "equibase"
	}
	return &Pipeline{
		repo:  repo,
		log:   log,
		kind:  kind,
		spec:  spec,
		opts:  opts,
		dedup: scan.NewDedup(),
	}, nil
}

// Validate resolves every staging table this pipeline can write against the
// destination. Run once before ingesting.
func (p *Pipeline) Validate(ctx context.Context) error {
	tables := []schema.Table{schema.FileRegistry.Table()}
	for _, et := range schema.Tables[p.kind] {
		tables = append(tables, et.Table)
	}
	return p.repo.Validate(ctx, tables)
}

// IngestFile runs one document end to end. Extraction losses (malformed
// races, keyless rows) are reported, not errors; a failed registration or a
// database error during staging is.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (FileReport, error) {
	rep := FileReport{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return rep, fmt.Errorf("read %s: %w", path, err)
	}
	if p.dedup.Seen(data) {
		// Content already staged this run. Registration still happens so
		// the registry picks up the latest display name; on conflict only
		// file_name is refreshed, so filename-derived metadata suffices.
		rep.Duplicate = true
		fileID, err := p.register(ctx, path, meta.FromFilename(path).Merge(p.opts.Overrides))
		if err != nil {
			return rep, err
		}
		rep.FileID = fileID
		p.log.Info("skipping duplicate content", zap.String("file", path), zap.Int64("file_id", fileID))
		return rep, nil
	}

	root, err := xmltree.Parse(data)
	if err != nil {
		return rep, fmt.Errorf("parse %s: %w", path, err)
	}

	defaults := meta.FromFilename(path)
	eff, result, dropped := p.spec.Extract(root, defaults, p.opts.Overrides)
	rep.Dropped = dropped

	fileID, err := p.register(ctx, path, eff)
	if err != nil {
		return rep, err
	}
	rep.FileID = fileID

	var batches []storage.Batch
	for _, et := range schema.Tables[p.kind] {
		rows := result[et.Entity]
		if len(rows) == 0 {
			continue
		}
		batches = append(batches, storage.Batch{Table: et.Table, Rows: rows})
	}

	res, err := p.repo.StageDocument(ctx, fileID, batches)
	if err != nil {
		return rep, fmt.Errorf("stage %s: %w", path, err)
	}
	rep.Staged = res.Staged
	rep.Skipped = res.Skipped

	for entity, n := range dropped {
		if n > 0 {
			p.log.Warn("dropped malformed rows",
				zap.String("file", path), zap.String("entity", entity), zap.Int("rows", n))
		}
	}
	for table, reason := range res.Skipped {
		p.log.Warn("skipped batch", zap.String("file", path),
			zap.String("table", table), zap.Error(reason))
	}
	p.log.Info("staged document",
		zap.String("file", path),
		zap.Int64("file_id", fileID),
		zap.String("track", eff.TrackCode),
		zap.String("date", eff.RaceDate),
		zap.Any("rows", res.Staged))
	return rep, nil
}

// register hashes the file and upserts its registry row.
func (p *Pipeline) register(ctx context.Context, path string, fm meta.FileMeta) (int64, error) {
	hash, err := storage.HashFile(path)
	if err != nil {
		return 0, err
	}
	fileID, err := p.repo.RegisterFile(ctx, storage.File{
		Provider:  p.opts.Provider,
		FileType:  string(p.kind),
		TrackCode: fm.TrackCode,
		RaceDate:  fm.RaceDate,
		FileName:  filepath.Base(path),
		Hash:      hash,
	})
	if err != nil {
		return 0, fmt.Errorf("register %s: %w", path, err)
	}
	return fileID, nil
}

// IngestDir discovers and ingests every matching file under root. Per-file
// failures are logged and counted but do not stop the run; only discovery
// itself can error.
func (p *Pipeline) IngestDir(ctx context.Context, root string) (Report, error) {
	paths, err := scan.Find(root, string(p.kind))
	if err != nil {
		return Report{}, err
	}
	rep := Report{Found: len(paths)}
	if p.opts.Limit > 0 && len(paths) > p.opts.Limit {
		paths = paths[:p.opts.Limit]
	}
	for _, path := range paths {
		fr, err := p.IngestFile(ctx, path)
		if err != nil {
			rep.Failed++
			p.log.Error("file failed", zap.String("file", path), zap.Error(err))
			continue
		}
		if fr.Duplicate {
			rep.Duplicates++
			continue
		}
		rep.Processed++
		for _, n := range fr.Staged {
			rep.Staged += n
		}
	}
	p.log.Info("run complete",
		zap.Int("found", rep.Found),
		zap.Int("processed", rep.Processed),
		zap.Int("duplicates", rep.Duplicates),
		zap.Int("failed", rep.Failed),
		zap.Int("rows", rep.Staged))
	return rep, nil
}
