package categorize

import (
	"strings"

	"github.com/yurifrl/finsum/pkg/models"
)

// DefaultBucket receives every transaction no bucket keyword matches.
const DefaultBucket = "Personal"

// Bucket is a big area of someone's finances, like a car or a rental
// property, recognized by keywords in the description.
type Bucket struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// BucketAssigner sets the bucket of life of transactions.
type BucketAssigner struct {
	buckets []Bucket
}

// NewBucketAssigner ignores buckets without a name or keywords.
func NewBucketAssigner(buckets []Bucket) *BucketAssigner {
	valid := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		if strings.TrimSpace(b.Name) != "" && len(b.Keywords) > 0 {
			valid = append(valid, b)
		}
	}
	return &BucketAssigner{buckets: valid}
}

// Assign returns a copy of txs with Bucket set. The first bucket with a
// matching keyword wins.
func (a *BucketAssigner) Assign(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	for i, t := range txs {
		t.Bucket = a.bucketFor(strings.ToLower(t.Description))
		out[i] = t
	}
	return out
}

func (a *BucketAssigner) bucketFor(description string) string {
	for _, b := range a.buckets {
		for _, k := range b.Keywords {
			if k != "" && strings.Contains(description, strings.ToLower(k)) {
				return b.Name
			}
		}
	}
	return DefaultBucket
}
