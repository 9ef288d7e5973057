// Package categorize assigns categories and buckets of life to parsed
// transactions.
package categorize

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/finsum/pkg/models"
)

// DefaultChunkSize is how many transactions are sent to a categorizer at once.
const DefaultChunkSize = 50

// Categorizer fills in the Category of each transaction. Implementations
// return one transaction per input with the same ids.
type Categorizer interface {
	Categorize(ctx context.Context, txs []models.Transaction) ([]models.Transaction, error)
}

// ProgressFunc receives the number of transactions processed so far.
type ProgressFunc func(completed, total int)

// Chunked runs c over txs in batches of size. A batch that fails is kept with
// every transaction Uncategorized, and so is any transaction the categorizer
// left out of its answer. Only the category is taken from the categorizer's
// output; every other field comes from txs, in the original order.
//
// The only error returned is ctx's.
func Chunked(ctx context.Context, logger *log.Logger, c Categorizer, txs []models.Transaction, size int, progress ProgressFunc) ([]models.Transaction, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}

	out := make([]models.Transaction, 0, len(txs))
	for start := 0; start < len(txs); start += size {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("categorizing transactions: %w", err)
		}

		end := min(start+size, len(txs))
		chunk := txs[start:end]

		categories := make(map[string]string, len(chunk))
		result, err := c.Categorize(ctx, chunk)
		if err != nil {
			logger.Warn("categorization failed, keeping chunk uncategorized", "from", start, "to", end, "error", err)
		} else {
			for _, t := range result {
				if t.ID != "" && t.Category != "" {
					categories[t.ID] = t.Category
				}
			}
		}

		for _, t := range chunk {
			category, ok := categories[t.ID]
			if !ok {
				category = models.Uncategorized
			}
			out = append(out, t.WithCategory(category))
		}

		if progress != nil {
			progress(end, len(txs))
		}
	}
	return out, nil
}

// Recategorize returns a copy of txs where the transaction with the given id
// has its category replaced. It reports false when no transaction matched.
func Recategorize(txs []models.Transaction, id, category string) ([]models.Transaction, bool) {
	out := make([]models.Transaction, len(txs))
	found := false
	for i, t := range txs {
		if t.ID == id {
			t = t.WithCategory(category)
			found = true
		}
		out[i] = t
	}
	return out, found
}
