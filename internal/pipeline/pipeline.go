// Package pipeline wires the chunker, worker pool, detectors, overlap
// resolution, normalization, post-processing, and visualization
// accumulator into the single entry point the CLI calls per sequence:
// chunk, scan and score in workers, spill, merge with boundary dedup,
// resolve, normalize, derive, accumulate.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/nbdfinder/engine/internal/chunker"
	"github.com/nbdfinder/engine/internal/conservation"
	"github.com/nbdfinder/engine/internal/detect"
	"github.com/nbdfinder/engine/internal/executor"
	"github.com/nbdfinder/engine/internal/logx"
	"github.com/nbdfinder/engine/internal/normalize"
	"github.com/nbdfinder/engine/internal/post"
	"github.com/nbdfinder/engine/internal/prefilter"
	"github.com/nbdfinder/engine/internal/registry"
	"github.com/nbdfinder/engine/internal/resolve"
	"github.com/nbdfinder/engine/internal/scan"
	"github.com/nbdfinder/engine/internal/spill"
	"github.com/nbdfinder/engine/internal/types"
	"github.com/nbdfinder/engine/internal/viz"
)

// Config holds every knob the CLI surface exposes plus the
// resolution, normalization, and cluster options.
type Config struct {
	Workers            int
	ChunkSize          int
	Classes            []string
	LogLevel           logx.Level
	KeepTemp           bool
	FallbackTimeoutSec int

	Resolve resolve.Config
	Norm    normalize.Method
	Cluster post.ClusterConfig

	VizBins      int
	VizMaxLength int64

	// Conservation enables the single-sequence shuffling-control analysis.
	// Off by default: it reruns every requested detector once per shuffle,
	// multiplying runtime.
	Conservation bool
}

func DefaultConfig() Config {
	return Config{
		Workers:            2,
		ChunkSize:          50_000,
		LogLevel:           logx.Info,
		FallbackTimeoutSec: 5,
		Resolve:            resolve.DefaultConfig(),
		Norm:               normalize.MinMax,
		Cluster:            post.DefaultClusterConfig(),
		VizBins:            100,
		VizMaxLength:       10_000,
	}
}

// Pipeline bundles the compiled, run-scoped resources (pattern registry,
// scan engine, prefilter) that are built once and shared across every
// sequence in a run.
type Pipeline struct {
	cfg    Config
	logger *logx.Logger
	env    *detect.Env
}

func New(cfg Config) (*Pipeline, error) {
	reg, err := registry.Load()
	if err != nil {
		return nil, fmt.Errorf("pipeline: load registry: %w", err)
	}
	engine := scan.NewEngine(cfg.FallbackTimeoutSec)
	pf := prefilter.New()

	return &Pipeline{
		cfg:    cfg,
		logger: logx.New(os.Stderr, cfg.LogLevel),
		env:    &detect.Env{Engine: engine, Registry: reg, Prefilter: pf},
	}, nil
}

func (p *Pipeline) Close() error {
	return p.env.Engine.Close()
}

// Run executes the full pipeline over one named sequence and returns the
// final, resolved, normalized, and post-processed result.
func (p *Pipeline) Run(ctx context.Context, sequenceName, contig string, data []byte) (*types.Result, error) {
	detectors, err := detect.Factory(p.env, p.cfg.Classes)
	if err != nil {
		return nil, fmt.Errorf("pipeline: build detectors: %w", err)
	}

	strategy := chunker.SelectStrategy(len(data))
	p.logger.Info("sequence %s: %d bp, strategy=%d", sequenceName, len(data), strategy)

	chunkCfg := chunker.DefaultConfig()
	if p.cfg.ChunkSize > 0 {
		chunkCfg.ChunkSize = p.cfg.ChunkSize
	}
	chunks := chunker.SplitWithConfig(sequenceName, contig, data, chunkCfg)

	// Short sequences run single-threaded; genome-scale ones stream
	// sequentially so only one chunk's worth of scan state is live at a
	// time. Only the middle band fans out to the worker pool.
	concurrency := p.cfg.Workers
	if strategy != chunker.StrategyParallel {
		concurrency = 1
	}
	pool, err := executor.New(detectors, executor.Options{
		Concurrency: concurrency,
		SpillDir:    os.TempDir(),
		Logger:      p.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: create worker pool: %w", err)
	}
	if !p.cfg.KeepTemp {
		defer os.RemoveAll(pool.RunDir())
	}

	metas, err := pool.Run(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("pipeline: run workers: %w", err)
	}

	result := &types.Result{}
	// The accumulator streams one chunk-worth of candidates per batch as
	// spill files are merged; the final table is never re-walked for it.
	acc := viz.New(p.cfg.VizBins, p.cfg.VizMaxLength, int64(len(data)))
	var primary []*types.Candidate
	for i, meta := range metas {
		if meta.Err != nil && ctx.Err() == nil {
			p.logger.Error("chunk %d failed in parallel pass, retrying sequentially: %v", meta.ChunkIndex, meta.Err)
			meta = pool.RunSequential(chunks[i])
		}
		if meta.Err != nil {
			p.logger.Error("chunk %d failed sequentially too, skipping: %v", meta.ChunkIndex, meta.Err)
			result.Incomplete = true
			result.IncompleteChunks = append(result.IncompleteChunks, meta.ChunkIndex)
			continue
		}
		if meta.FilePath == "" {
			continue
		}
		cands, err := spill.Read(meta.FilePath)
		if err != nil {
			p.logger.Error("merge: chunk %d spill unreadable, skipping: %v", meta.ChunkIndex, err)
			result.Incomplete = true
			result.IncompleteChunks = append(result.IncompleteChunks, meta.ChunkIndex)
			continue
		}
		acc.AddBatch(cands)
		primary = append(primary, cands...)
	}

	resolved := resolve.Resolve(primary, p.cfg.Resolve)
	normalize.Apply(resolved, p.cfg.Norm)

	if p.cfg.Conservation {
		result.Conservation = conservation.Analyze(sequenceName, contig, data, resolved, detectors)
	}

	hybrids := post.Hybrid(resolved)
	clusters := post.Cluster(resolved, p.cfg.Cluster)

	// Each derived stage contributes its own batch to the accumulator,
	// after the primary chunk batches have already streamed through.
	acc.AddBatch(hybrids)
	acc.AddBatch(clusters)

	all := make([]*types.Candidate, 0, len(resolved)+len(hybrids)+len(clusters))
	all = append(all, resolved...)
	all = append(all, hybrids...)
	all = append(all, clusters...)

	result.Candidates = all
	result.Visualization = acc.Summary()
	return result, nil
}
