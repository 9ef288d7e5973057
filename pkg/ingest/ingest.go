// Package ingest runs statement files through parsing, categorization,
// persistence and aggregation.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yurifrl/finsum/pkg/aggregate"
	"github.com/yurifrl/finsum/pkg/categorize"
	"github.com/yurifrl/finsum/pkg/models"
	"github.com/yurifrl/finsum/pkg/parser"
	"github.com/yurifrl/finsum/pkg/store"
)

var (
	ErrNothingParsed = errors.New("no transactions found in the uploaded files")
	ErrNotFound      = errors.New("transaction not found")
)

// Source is an in-memory statement file.
type Source struct {
	Name string
	Data []byte
}

// Result is what one ingest run produced.
type Result struct {
	BatchID      string
	Transactions []models.Transaction
	Data         *models.ProcessedData
}

// Pipeline wires a parser to a categorizer and a store.
type Pipeline struct {
	logger      *log.Logger
	parser      *parser.Parser
	categorizer categorize.Categorizer
	buckets     *categorize.BucketAssigner
	store       store.Store
	chunkSize   int
	progress    categorize.ProgressFunc
}

type Option func(*Pipeline)

func WithChunkSize(size int) Option {
	return func(p *Pipeline) { p.chunkSize = size }
}

func WithProgress(fn categorize.ProgressFunc) Option {
	return func(p *Pipeline) { p.progress = fn }
}

func WithBuckets(b *categorize.BucketAssigner) Option {
	return func(p *Pipeline) { p.buckets = b }
}

func New(logger *log.Logger, p *parser.Parser, c categorize.Categorizer, s store.Store, opts ...Option) *Pipeline {
	pl := &Pipeline{
		logger:      logger,
		parser:      p,
		categorizer: c,
		buckets:     categorize.NewBucketAssigner(nil),
		store:       s,
		chunkSize:   categorize.DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(pl)
	}
	return pl
}

// ParseFiles reads every file, then parses every file, each phase
// concurrently. Transactions come back grouped per file in argument order.
// Any file that fails aborts the whole batch.
func (p *Pipeline) ParseFiles(ctx context.Context, paths []string) ([]models.Transaction, error) {
	sources := make([]Source, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", path, err)
			}
			sources[i] = Source{Name: filepath.Base(path), Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return p.ParseSources(ctx, sources)
}

// ParseSources parses in-memory files concurrently.
func (p *Pipeline) ParseSources(ctx context.Context, sources []Source) ([]models.Transaction, error) {
	perFile := make([][]models.Transaction, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			txs, err := p.parser.ProcessBytes(src.Data, src.Name)
			if err != nil {
				return err
			}
			perFile[i] = txs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.Transaction
	for _, txs := range perFile {
		all = append(all, txs...)
	}
	if len(all) == 0 {
		return nil, ErrNothingParsed
	}
	p.logger.Info("parsed statements", "files", len(sources), "transactions", len(all))
	return all, nil
}

// Run parses paths, categorizes and buckets the result, saves it for userID
// and aggregates it. A failing save is logged and does not fail the run.
func (p *Pipeline) Run(ctx context.Context, userID string, paths []string) (*Result, error) {
	txs, err := p.ParseFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	return p.process(ctx, userID, txs)
}

// RunSources is Run for in-memory files.
func (p *Pipeline) RunSources(ctx context.Context, userID string, sources []Source) (*Result, error) {
	txs, err := p.ParseSources(ctx, sources)
	if err != nil {
		return nil, err
	}
	return p.process(ctx, userID, txs)
}

func (p *Pipeline) process(ctx context.Context, userID string, txs []models.Transaction) (*Result, error) {
	batchID := uuid.NewString()
	logger := p.logger.With("batch", batchID)

	categorized, err := categorize.Chunked(ctx, logger, p.categorizer, txs, p.chunkSize, p.progress)
	if err != nil {
		return nil, err
	}
	categorized = p.buckets.Assign(categorized)

	if p.store != nil {
		if err := p.store.Save(ctx, userID, categorized); err != nil {
			logger.Error("failed to save transactions", "user", userID, "error", err)
		}
	}

	data := aggregate.Aggregate(categorized)
	logger.Info("ingested statements", "transactions", len(categorized), "periods", len(data.PeriodSummaries))
	return &Result{BatchID: batchID, Transactions: categorized, Data: data}, nil
}

// Load aggregates what the store holds for userID.
func (p *Pipeline) Load(ctx context.Context, userID string) ([]models.Transaction, *models.ProcessedData, error) {
	txs, err := p.store.Load(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return txs, aggregate.Aggregate(txs), nil
}

// Recategorize changes the category of one stored transaction and returns
// the recomputed summary.
func (p *Pipeline) Recategorize(ctx context.Context, userID, id, category string) (*models.ProcessedData, error) {
	txs, err := p.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	updated, ok := categorize.Recategorize(txs, id, category)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := p.store.Save(ctx, userID, updated); err != nil {
		return nil, fmt.Errorf("failed to save transactions: %w", err)
	}
	p.logger.Info("recategorized transaction", "id", id, "category", category)
	return aggregate.Aggregate(updated), nil
}
