package core

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/kokkonisd/locstats/internal/cache"
	"github.com/kokkonisd/locstats/internal/db"
	"github.com/kokkonisd/locstats/internal/diff"
	"github.com/kokkonisd/locstats/internal/discover"
	"github.com/kokkonisd/locstats/internal/lang"
	"github.com/kokkonisd/locstats/internal/loc"
)

// ErrUnknownLanguage aborts a count before anything is discovered.
var ErrUnknownLanguage = errors.NewKind("the language %q doesn't exist or hasn't yet been registered")

// SourceFinder lists the files of a language under a directory. A missing
// directory is reported with discover.ErrDirectoryNotFound.
type SourceFinder interface {
	Find(root string, extensions []string) ([]string, error)
}

type Service struct {
	Registry *lang.Registry
	Finder   SourceFinder
	Cache    *cache.Cache
	History  *db.DB
	Log      logrus.FieldLogger

	Workers int
	Silent  bool
}

func NewService(registry *lang.Registry, finder SourceFinder, counts *cache.Cache, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		Registry: registry,
		Finder:   finder,
		Cache:    counts,
		Log:      log,
	}
}

func (s *Service) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.NumCPU()
}

// Count discovers the language's files under every directory and sums their
// LOC. Unreadable files and missing directories are warned about and
// skipped; only an unknown language fails the whole count.
func (s *Service) Count(ctx context.Context, req Request) (*Result, error) {
	spec, ok := s.Registry.Lookup(req.Language)
	if !ok {
		return nil, ErrUnknownLanguage.New(req.Language)
	}

	result := &Result{Language: spec, Strict: req.Strict, Dirs: req.Dirs}
	var paths []string
	for _, dir := range req.Dirs {
		files, err := s.Finder.Find(dir, spec.Extensions)
		if err != nil {
			if discover.ErrDirectoryNotFound.Is(err) {
				result.Missing = append(result.Missing, dir)
				continue
			}
			return nil, fmt.Errorf("discover %s: %w", dir, err)
		}
		paths = append(paths, files...)
	}

	counts := make([]FileCount, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			counts[i] = s.countFile(path, spec, req.Strict)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Path < counts[j].Path
	})
	for _, c := range counts {
		result.Total += c.LOC
	}
	result.Files = counts

	s.Log.WithFields(logrus.Fields{
		"language": spec.Key,
		"files":    len(counts),
		"loc":      result.Total,
		"strict":   req.Strict,
	}).Debug("count finished")
	return result, nil
}

func (s *Service) countFile(path string, spec lang.Spec, strict bool) FileCount {
	fc := FileCount{Path: path}

	if s.Cache == nil {
		n, err := loc.CountFile(path, spec.Comments, strict)
		if err != nil {
			return s.failed(fc, err)
		}
		fc.LOC = n
		if info, err := os.Stat(path); err == nil {
			fc.Size = info.Size()
		}
		return fc
	}

	data, err := loc.ReadSource(path)
	if err != nil {
		return s.failed(fc, err)
	}
	fc.Size = int64(len(data))

	key := cache.Key(data, spec.Key, strict)
	if n, ok := s.Cache.Get(key); ok {
		fc.LOC = n
		fc.Cached = true
		return fc
	}
	n, err := loc.Count(bytes.NewReader(data), spec.Comments, strict)
	if err != nil {
		return s.failed(fc, loc.ErrFileAccess.Wrap(err, path))
	}
	s.Cache.Add(key, n)
	fc.LOC = n
	return fc
}

func (s *Service) failed(fc FileCount, err error) FileCount {
	if !s.Silent {
		s.Log.WithFields(logrus.Fields{"path": fc.Path, "error": err}).Warn("cannot read source file, counting it as zero")
	}
	fc.Err = err
	fc.LOC = 0
	return fc
}

// Record stores a count in the history database.
func (s *Service) Record(result *Result) (*db.Run, error) {
	if s.History == nil {
		return nil, fmt.Errorf("history database is not open")
	}
	run := db.Run{
		ID:           uuid.NewString(),
		Language:     result.Language.Key,
		LanguageName: result.Language.Name,
		Strict:       result.Strict,
		TotalLOC:     result.Total,
		TotalFiles:   len(result.Files),
		FailedFiles:  result.Failed(),
		Dirs:         result.Dirs,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339Nano),
	}
	byPath := make(map[string]*db.RunFile, len(result.Files))
	files := make([]db.RunFile, 0, len(result.Files))
	for _, f := range result.Files {
		if f.Err != nil {
			continue
		}
		if existing, ok := byPath[f.Path]; ok {
			existing.LOC += f.LOC
			continue
		}
		files = append(files, db.RunFile{RunID: run.ID, Path: f.Path, LOC: f.LOC, Size: f.Size})
		byPath[f.Path] = &files[len(files)-1]
	}
	if err := s.History.InsertRun(run, files); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	s.Log.WithField("run", run.ID).Debug("recorded run")
	return &run, nil
}

// CompareRuns diffs the per-file counts of two recorded runs, given by id or
// unique id prefix.
func (s *Service) CompareRuns(fromRef, toRef string) (*db.Run, *db.Run, diff.Result, error) {
	if s.History == nil {
		return nil, nil, diff.Result{}, fmt.Errorf("history database is not open")
	}
	from, err := s.resolveRun(fromRef)
	if err != nil {
		return nil, nil, diff.Result{}, err
	}
	to, err := s.resolveRun(toRef)
	if err != nil {
		return nil, nil, diff.Result{}, err
	}

	fromCounts, err := s.runCounts(from.ID)
	if err != nil {
		return nil, nil, diff.Result{}, err
	}
	toCounts, err := s.runCounts(to.ID)
	if err != nil {
		return nil, nil, diff.Result{}, err
	}
	return from, to, diff.CompareRuns(fromCounts, toCounts), nil
}

func (s *Service) resolveRun(ref string) (*db.Run, error) {
	run, err := s.History.ResolveRun(ref)
	if err == db.ErrNotFound {
		return nil, fmt.Errorf("run %s not found", ref)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Service) runCounts(runID string) (map[string]int, error) {
	files, err := s.History.GetRunFiles(runID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(files))
	for _, f := range files {
		out[f.Path] = f.LOC
	}
	return out, nil
}
