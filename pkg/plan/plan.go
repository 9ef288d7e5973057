package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yurifrl/finsum/pkg/categorize"
)

var ErrNoStatements = errors.New("plan has no statements")

// Plan describes a batch of statements to ingest for one user.
type Plan struct {
	User       string              `yaml:"user"`
	Rules      string              `yaml:"rules"`
	Buckets    []categorize.Bucket `yaml:"buckets"`
	Statements []Statement         `yaml:"statements"`

	dir string
}

// Statement is a file or glob, relative to the plan file.
type Statement struct {
	File string `yaml:"file"`
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(p.Statements) == 0 {
		return nil, ErrNoStatements
	}
	p.dir = filepath.Dir(path)
	return &p, nil
}

// Files expands ~ and globs in every statement. Duplicates are dropped and a
// pattern matching nothing is an error.
func (p *Plan) Files() ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, st := range p.Statements {
		pattern, err := p.resolve(st.File)
		if err != nil {
			return nil, err
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", st.File, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files found matching pattern %s", st.File)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// RulesFile returns the rules path resolved like statement files, or "" when
// the plan does not set one.
func (p *Plan) RulesFile() (string, error) {
	if p.Rules == "" {
		return "", nil
	}
	return p.resolve(p.Rules)
}

func (p *Plan) resolve(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	if !filepath.IsAbs(path) && p.dir != "" {
		return filepath.Join(p.dir, path), nil
	}
	return path, nil
}
