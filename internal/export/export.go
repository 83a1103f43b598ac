package export

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/pagination"
	"github.com/lepinkainen/sanad/internal/resolver"
)

// Format selects the on-disk representation.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts "markdown", "md" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md", "":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Lister is the part of the resolver an export pages through.
type Lister interface {
	Hadiths(ctx context.Context, q resolver.ListQuery) pagination.Result[hadith.Hadith]
}

// Options controls one export run.
type Options struct {
	CollectionID   string
	CollectionName string
	Book           *int
	Grade          *hadith.Grade
	Dir            string
	Format         Format
	Overwrite      bool
}

// Summary reports what an export did.
type Summary struct {
	Narrations int
	Written    int
	Skipped    int
	Source     string
}

// Run pages through the resolver with the largest page size and writes
// every narration it returns.
func Run(ctx context.Context, l Lister, opts Options) (Summary, error) {
	if opts.CollectionID == "" {
		return Summary{}, fmt.Errorf("collection is required")
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}

	items, source, err := collect(ctx, l, opts)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Narrations: len(items), Source: source}

	switch opts.Format {
	case FormatJSON:
		written, err := writeJSON(filepath.Join(opts.Dir, jsonFilename(opts)), items, opts.Overwrite)
		if err != nil {
			return summary, err
		}
		if written {
			summary.Written = 1
		} else {
			summary.Skipped = 1
		}
	default:
		for _, h := range items {
			data, err := Note(h, opts.CollectionName)
			if err != nil {
				return summary, err
			}
			written, err := writeFile(filepath.Join(opts.Dir, noteFilename(h)), data, opts.Overwrite)
			if err != nil {
				return summary, err
			}
			if written {
				summary.Written++
			} else {
				summary.Skipped++
			}
		}
	}

	slog.Info("Export finished",
		"collection", opts.CollectionID,
		"narrations", summary.Narrations,
		"written", summary.Written,
		"skipped", summary.Skipped,
		"source", summary.Source,
	)
	return summary, nil
}

func collect(ctx context.Context, l Lister, opts Options) ([]hadith.Hadith, string, error) {
	var (
		items  []hadith.Hadith
		source string
	)
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		res := l.Hadiths(ctx, resolver.ListQuery{
			CollectionID: opts.CollectionID,
			Book:         opts.Book,
			Grade:        opts.Grade,
			Page:         page,
			Limit:        pagination.MaxLimit,
		})
		if source == "" {
			source = res.Source
		}
		items = append(items, res.Items...)
		if !res.HasMore || len(res.Items) == 0 {
			break
		}
	}
	if items == nil {
		items = []hadith.Hadith{}
	}
	return items, source, nil
}

func noteFilename(h hadith.Hadith) string {
	return sanitizeFilename(fmt.Sprintf("%s-%04d.md", h.CollectionID, h.Number))
}

func jsonFilename(opts Options) string {
	name := opts.CollectionID
	if opts.Book != nil {
		name = fmt.Sprintf("%s-book-%d", name, *opts.Book)
	}
	if opts.Grade != nil {
		name += "-" + strings.ToLower(string(*opts.Grade))
	}
	return sanitizeFilename(name + ".json")
}
