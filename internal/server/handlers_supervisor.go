package server

import (
	"net/http"

	"github.com/ajsalpv/job-agent/internal/fetch"
)

// handleSupervisorStatus returns per-platform scrape health.
func (s *Server) handleSupervisorStatus(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.runner.Supervisor().Report())
}

// handleReEnable resets a disabled platform back to active. This is the only
// way a platform comes back after hitting the failure threshold.
func (s *Server) handleReEnable(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("platform")
	platform, err := fetch.ParsePlatform(name)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, (&ErrUnknownPlatform{Name: name}).Error())
		return
	}

	if !s.runner.Supervisor().ReEnable(string(platform)) {
		notFound := &ErrNotFound{Resource: "platform health record", ID: name}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"platform": string(platform),
		"status":   "active",
	})
}
