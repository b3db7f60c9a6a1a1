package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/kokkonisd/locstats/internal/cache"
	"github.com/kokkonisd/locstats/internal/config"
	"github.com/kokkonisd/locstats/internal/core"
	"github.com/kokkonisd/locstats/internal/db"
	"github.com/kokkonisd/locstats/internal/discover"
)

type serviceOptions struct {
	Exclude    []string
	SkipVendor bool
	Workers    int
	Silent     bool
}

// openService builds the counting service from the resolved config, with
// command line options layered on top.
func openService(cfg *config.Config, log logrus.FieldLogger, opts serviceOptions) (*core.Service, error) {
	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	exclude := append([]string{}, cfg.Exclude...)
	exclude = append(exclude, opts.Exclude...)
	finder := &discover.Finder{
		Exclude:    exclude,
		SkipVendor: cfg.SkipVendor || opts.SkipVendor,
		Silent:     opts.Silent,
		Log:        log,
	}

	counts, err := cache.New(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	svc := core.NewService(registry, finder, counts, log)
	svc.Workers = cfg.Workers
	if opts.Workers > 0 {
		svc.Workers = opts.Workers
	}
	svc.Silent = opts.Silent
	return svc, nil
}

// openHistory opens the history database under projectDir, creating the
// state directory when create is set.
func openHistory(projectDir string, create bool) (*db.DB, error) {
	stateDir := filepath.Join(projectDir, config.StateDirName)
	if create {
		if err := os.MkdirAll(stateDir, 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	} else if st, err := os.Stat(stateDir); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("no recorded runs in %s (run 'locstats LANGUAGE DIRS --record' first)", projectDir)
	}
	database, err := db.Open(filepath.Join(stateDir, config.DBFileName))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return database, nil
}
