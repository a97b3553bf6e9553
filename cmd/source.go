package cmd

import (
	"fmt"
	"unicode/utf8"

	"github.com/jmehdipour/rfm-dashboard/internal/config"
	"github.com/jmehdipour/rfm-dashboard/internal/dataset"
	"github.com/jmehdipour/rfm-dashboard/internal/db"
	"github.com/jmehdipour/rfm-dashboard/internal/repository"
)

// newLoader builds the loader for dataset.source. The returned close func
// releases any connection it opened.
func newLoader(cfg config.Config) (dataset.Loader, func(), error) {
	switch cfg.Dataset.Source {
	case dataset.SourceCSV, "":
		delim, err := delimiter(cfg.Dataset.Delimiter)
		if err != nil {
			return nil, nil, err
		}
		return dataset.CSVLoader{Path: cfg.Dataset.Path, Delimiter: delim}, func() {}, nil

	case dataset.SourceMySQL, dataset.SourcePostgres, dataset.SourceClickHouse:
		dbx, err := db.Open(cfg.Dataset.Source, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("%s connect: %w", cfg.Dataset.Source, err)
		}
		repo := repository.NewSegmentsRepository(dbx, cfg.Dataset.Source)
		return dataset.SQLLoader{Repo: repo, Source: cfg.Dataset.Source}, func() { _ = dbx.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", dataset.ErrSourceUnknown, cfg.Dataset.Source)
	}
}

func delimiter(s string) (rune, error) {
	if s == "" {
		return ',', nil
	}
	if s == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, fmt.Errorf("dataset.delimiter must be a single character, got %q", s)
	}
	return r, nil
}
