// Package ui serves the recorded run history as a read-only JSON API.
package ui

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/kokkonisd/locstats/internal/core"
)

type Server struct {
	svc *core.Service
	log logrus.FieldLogger
	mux *http.ServeMux
}

// NewServer needs a service with an open history database.
func NewServer(svc *core.Service, log logrus.FieldLogger) (*Server, error) {
	if svc == nil || svc.History == nil {
		return nil, fmt.Errorf("history database is not open")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		svc: svc,
		log: log,
		mux: http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/runs", s.handleAPIRuns)
	s.mux.HandleFunc("GET /api/runs/{id}", s.handleAPIRun)
	s.mux.HandleFunc("GET /api/diff/{runA}/{runB}", s.handleAPIDiff)
	s.mux.HandleFunc("GET /api/languages", s.handleAPILanguages)
	s.mux.HandleFunc("GET /api/summary", s.handleAPISummary)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.log.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Debug("request")
	s.mux.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	fmt.Printf("locstats history API running at http://%s/api/runs\n", addr)
	return http.ListenAndServe(addr, s)
}
