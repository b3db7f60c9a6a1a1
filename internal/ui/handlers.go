package ui

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/kokkonisd/locstats/internal/config"
	"github.com/kokkonisd/locstats/internal/db"
	"github.com/kokkonisd/locstats/internal/diff"
)

type runJSON struct {
	ID           string   `json:"id"`
	Language     string   `json:"language"`
	LanguageName string   `json:"language_name"`
	Strict       bool     `json:"strict"`
	TotalLOC     int      `json:"total_loc"`
	TotalFiles   int      `json:"total_files"`
	FailedFiles  int      `json:"failed_files"`
	Dirs         []string `json:"dirs"`
	CreatedAt    string   `json:"created_at"`
}

type fileJSON struct {
	Path string `json:"path"`
	LOC  int    `json:"loc"`
	Size int64  `json:"size"`
}

type runDetailJSON struct {
	runJSON
	Files []fileJSON `json:"files"`
}

type diffJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
	diff.Result
}

type languageJSON struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

type summaryJSON struct {
	TotalRuns int                `json:"total_runs"`
	Latest    map[string]runJSON `json:"latest"`
}

func (s *Server) handleAPIRuns(w http.ResponseWriter, r *http.Request) {
	limit := config.DefaultHistoryLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	runs, err := s.svc.History.ListRuns(strings.TrimSpace(r.URL.Query().Get("language")), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]runJSON, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunJSON(run))
	}
	writeJSON(w, out)
}

func (s *Server) handleAPIRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.resolve(w, r.PathValue("id"))
	if !ok {
		return
	}
	files, err := s.svc.History.GetRunFiles(run.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]fileJSON, 0, len(files))
	for _, f := range files {
		out = append(out, fileJSON{Path: f.Path, LOC: f.LOC, Size: f.Size})
	}
	writeJSON(w, runDetailJSON{runJSON: toRunJSON(*run), Files: out})
}

func (s *Server) handleAPIDiff(w http.ResponseWriter, r *http.Request) {
	runA, ok := s.resolve(w, r.PathValue("runA"))
	if !ok {
		return
	}
	runB, ok := s.resolve(w, r.PathValue("runB"))
	if !ok {
		return
	}
	from, to, result, err := s.svc.CompareRuns(runA.ID, runB.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, diffJSON{From: from.ID, To: to.ID, Result: result})
}

func (s *Server) handleAPILanguages(w http.ResponseWriter, r *http.Request) {
	if s.svc.Registry == nil {
		writeJSON(w, []languageJSON{})
		return
	}
	specs := s.svc.Registry.Specs()
	out := make([]languageJSON, 0, len(specs))
	for _, spec := range specs {
		out = append(out, languageJSON{Key: spec.Key, Name: spec.Name, Extensions: spec.Extensions})
	}
	writeJSON(w, out)
}

// handleAPISummary reports the most recent run of every recorded language.
func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	total, err := s.svc.History.CountRuns()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	latest, err := s.svc.History.LatestRuns()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	summary := summaryJSON{TotalRuns: total, Latest: make(map[string]runJSON, len(latest))}
	for _, run := range latest {
		summary.Latest[run.Language] = toRunJSON(run)
	}
	writeJSON(w, summary)
}

func (s *Server) resolve(w http.ResponseWriter, ref string) (*db.Run, bool) {
	run, err := s.svc.History.ResolveRun(ref)
	switch {
	case err == nil:
		return run, true
	case err == db.ErrNotFound:
		http.Error(w, "run not found", http.StatusNotFound)
	case errors.Is(err, db.ErrAmbiguous):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
	return nil, false
}

func toRunJSON(run db.Run) runJSON {
	dirs := run.Dirs
	if dirs == nil {
		dirs = []string{}
	}
	return runJSON{
		ID:           run.ID,
		Language:     run.Language,
		LanguageName: run.LanguageName,
		Strict:       run.Strict,
		TotalLOC:     run.TotalLOC,
		TotalFiles:   run.TotalFiles,
		FailedFiles:  run.FailedFiles,
		Dirs:         dirs,
		CreatedAt:    run.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}
