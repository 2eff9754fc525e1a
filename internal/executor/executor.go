// Package executor runs the class detectors over a sequence's chunks
// with a bounded worker pool, spilling each chunk's candidates to disk
// and returning only lightweight metadata. Workers never pass candidate
// payloads across the pool boundary; scan state and match payloads stay
// local to the goroutine that produced them.
package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"

	"github.com/nbdfinder/engine/internal/detect"
	"github.com/nbdfinder/engine/internal/logx"
	"github.com/nbdfinder/engine/internal/spill"
	"github.com/nbdfinder/engine/internal/types"
)

// Options configures the worker pool.
type Options struct {
	Concurrency int
	SpillDir    string
	Logger      *logx.Logger
}

func DefaultOptions() Options {
	return Options{
		Concurrency: 4,
		SpillDir:    os.TempDir(),
		Logger:      logx.Default(),
	}
}

// Pool runs detectors across chunks concurrently.
type Pool struct {
	detectors []detect.Detector
	opts      Options
	runDir    string
}

func New(detectors []detect.Detector, opts Options) (*Pool, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultOptions().Concurrency
	}
	if opts.Logger == nil {
		opts.Logger = logx.Default()
	}
	runDir := filepath.Join(opts.SpillDir, "nbdfinder-"+uuid.NewString())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("executor: create spill dir: %w", err)
	}
	return &Pool{detectors: detectors, opts: opts, runDir: runDir}, nil
}

// RunDir exposes the per-run spill directory so the pipeline can clean
// it up once results are merged.
func (p *Pool) RunDir() string { return p.runDir }

// Run processes every chunk, applying the start < core_end ownership
// invariant before spilling survivors to disk. A worker
// panic is caught and reported via ChunkMeta.Err rather than crashing
// the pool; the caller may then re-run that chunk sequentially as a
// fallback.
func (p *Pool) Run(ctx context.Context, chunks []*types.Chunk) ([]types.ChunkMeta, error) {
	metas := make([]types.ChunkMeta, len(chunks))
	sem := make(chan struct{}, p.opts.Concurrency)
	var wg sync.WaitGroup

	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
			metas[i] = types.ChunkMeta{ChunkIndex: chunk.Index, Err: ctx.Err()}
			continue
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, chunk *types.Chunk) {
			defer wg.Done()
			defer func() { <-sem }()
			metas[i] = p.runOne(chunk)
		}(i, chunk)
	}
	wg.Wait()
	return metas, nil
}

// RunSequential is the fallback path for a chunk whose parallel attempt
// failed: same logic, no goroutine.
func (p *Pool) RunSequential(chunk *types.Chunk) types.ChunkMeta {
	return p.runOne(chunk)
}

func (p *Pool) runOne(chunk *types.Chunk) (meta types.ChunkMeta) {
	meta = types.ChunkMeta{
		ChunkIndex: chunk.Index,
		ChunkStart: chunk.GlobalStart,
		ChunkEnd:   chunk.GlobalEnd,
		CoreEnd:    chunk.CoreEnd,
	}
	defer func() {
		if r := recover(); r != nil {
			p.opts.Logger.Error("chunk %d panicked: %v\n%s", chunk.Index, r, debug.Stack())
			meta.Err = fmt.Errorf("chunk %d: panic: %v", chunk.Index, r)
		}
	}()

	var owned []*types.Candidate
	for _, d := range p.detectors {
		cands, err := d.Detect(chunk)
		if err != nil {
			meta.Err = fmt.Errorf("chunk %d: detect %s: %w", chunk.Index, d.ClassID().Name(), err)
			return meta
		}
		if err := d.Score(cands); err != nil {
			meta.Err = fmt.Errorf("chunk %d: score %s: %w", chunk.Index, d.ClassID().Name(), err)
			return meta
		}
		for _, c := range cands {
			// Ownership invariant: a candidate belongs to this chunk only
			// if its (0-based) start falls strictly before core_end, so
			// the overlap tail never produces duplicate ownership across
			// adjacent chunks.
			localStart0 := c.Start - 1 - chunk.GlobalStart
			if chunk.GlobalStart+localStart0 >= chunk.CoreEnd {
				continue
			}
			owned = append(owned, c)
		}
	}

	path := filepath.Join(p.runDir, fmt.Sprintf("chunk_%06d.csv", chunk.Index))
	if err := spill.Write(path, owned); err != nil {
		meta.Err = fmt.Errorf("chunk %d: spill: %w", chunk.Index, err)
		return meta
	}
	meta.FilePath = path
	meta.MotifCount = len(owned)
	return meta
}
