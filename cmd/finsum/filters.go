package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/yurifrl/finsum/pkg/models"
	"github.com/yurifrl/finsum/pkg/report"
)

type filters struct {
	startDate   string
	endDate     string
	minAmount   float64
	maxAmount   float64
	description string
	direction   string
	category    string
}

func (f *filters) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.startDate, "start", "", "Start date (YYYY-MM-DD)")
	flags.StringVar(&f.endDate, "end", "", "End date (YYYY-MM-DD)")
	flags.Float64Var(&f.minAmount, "min", 0, "Minimum amount")
	flags.Float64Var(&f.maxAmount, "max", 0, "Maximum amount")
	flags.StringVar(&f.description, "description", "", "Filter by description (case insensitive)")
	flags.StringVar(&f.direction, "type", "", "Filter by type (Income or Expense)")
	flags.StringVar(&f.category, "category", "", "Filter by category")
}

func (f *filters) toFilters(loc *time.Location) (report.Filters, error) {
	out := report.Filters{
		MinAmount:   f.minAmount,
		MaxAmount:   f.maxAmount,
		Description: f.description,
		Category:    f.category,
	}

	var err error
	if f.startDate != "" {
		if out.Start, err = time.ParseInLocation("2006-01-02", f.startDate, loc); err != nil {
			return out, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if f.endDate != "" {
		if out.End, err = time.ParseInLocation("2006-01-02", f.endDate, loc); err != nil {
			return out, fmt.Errorf("invalid --end: %w", err)
		}
	}

	switch models.Direction(f.direction) {
	case "", models.Income, models.Expense:
		out.Type = models.Direction(f.direction)
	default:
		return out, fmt.Errorf("invalid --type %q, expected Income or Expense", f.direction)
	}
	return out, nil
}

// expandInputs turns glob patterns into file paths. Directories contribute
// the files directly inside them.
func expandInputs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files found matching pattern %s", pattern)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				files = append(files, match)
				continue
			}

			entries, err := os.ReadDir(match)
			if err != nil {
				return nil, fmt.Errorf("failed to read directory: %w", err)
			}
			for _, entry := range entries {
				if !entry.IsDir() {
					files = append(files, filepath.Join(match, entry.Name()))
				}
			}
		}
	}
	return files, nil
}
