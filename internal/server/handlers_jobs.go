package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/ajsalpv/job-agent/internal/db"
	"github.com/ajsalpv/job-agent/internal/fetch"
	"github.com/ajsalpv/job-agent/internal/pipeline"
)

// backgroundScanTimeout bounds an async discovery run.
const backgroundScanTimeout = 30 * time.Minute

// handleJobsByPlatform returns tracked applications for one platform.
func (s *Server) handleJobsByPlatform(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("platform")
	platform, err := fetch.ParsePlatform(name)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, (&ErrUnknownPlatform{Name: name}).Error())
		return
	}

	apps, err := s.store.ListApplications(r.Context(), db.ListApplicationsOptions{
		Platform: string(platform),
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list applications")
		return
	}
	if apps == nil {
		apps = []db.Application{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"platform": string(platform),
		"jobs":     apps,
		"count":    len(apps),
	})
}

// scanRequest is the payload for POST /api/jobs/scan and /api/jobs/search.
// Empty fields fall back to the configured user profile.
type scanRequest struct {
	Keywords    []string `json:"keywords"`
	Locations   []string `json:"locations"`
	Platforms   []string `json:"platforms"`
	MinFitScore *int     `json:"min_fit_score" validate:"omitempty"`
}

// scanOptions resolves a scan request against the configured defaults.
func (s *Server) scanOptions(req *scanRequest) (pipeline.ScanOptions, error) {
	opts := pipeline.ScanOptions{
		Keywords:    req.Keywords,
		Locations:   req.Locations,
		MinFitScore: s.settings.MinFitScore,
	}
	if len(opts.Keywords) == 0 {
		opts.Keywords = s.settings.Roles()
	}
	if len(opts.Locations) == 0 {
		opts.Locations = s.settings.Locations()
	}
	if req.MinFitScore != nil {
		if *req.MinFitScore < 0 || *req.MinFitScore > 100 {
			return opts, &ErrValidation{Field: "min_fit_score", Message: "must be between 0 and 100"}
		}
		opts.MinFitScore = *req.MinFitScore
	}
	for _, name := range req.Platforms {
		platform, err := fetch.ParsePlatform(name)
		if err != nil {
			return opts, &ErrUnknownPlatform{Name: name}
		}
		opts.Platforms = append(opts.Platforms, platform)
	}
	return opts, nil
}

// handleScan triggers an asynchronous discovery run. Only one scan runs at a
// time; a second trigger while one is active returns 409.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if r.ContentLength > 0 {
		if err := s.decodeJSON(r, &req); err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	opts, err := s.scanOptions(&req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if !s.scanActive.CompareAndSwap(false, true) {
		scanErr := &ErrScanInProgress{}
		s.errorResponse(w, HTTPStatus(scanErr), scanErr.Error())
		return
	}

	go func() {
		defer s.scanActive.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), backgroundScanTimeout)
		defer cancel()
		if _, err := s.runner.RunScan(ctx, opts); err != nil {
			log.Printf("[server] background scan failed: %v", err)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"status": "scan_started",
	})
}

// handleSearch runs a synchronous discovery run and returns the scored jobs.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if r.ContentLength > 0 {
		if err := s.decodeJSON(r, &req); err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	opts, err := s.scanOptions(&req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if !s.scanActive.CompareAndSwap(false, true) {
		scanErr := &ErrScanInProgress{}
		s.errorResponse(w, HTTPStatus(scanErr), scanErr.Error())
		return
	}
	defer s.scanActive.Store(false)

	result, err := s.runner.RunScan(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Scan failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// approveRequest is the payload for POST /api/jobs/approve.
type approveRequest struct {
	JobURLs []string `json:"job_urls" validate:"required,min=1,dive,url"`
}

// handleApprove looks up the applications for the given URLs and runs the
// application phase on each: resume bullets, cover letter, interview prep.
func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var materials []pipeline.Material
	failures := make(map[string]string)

	for _, jobURL := range req.JobURLs {
		app, err := s.store.GetApplicationByURL(r.Context(), jobURL)
		if err != nil {
			failures[jobURL] = "lookup failed"
			continue
		}
		if app == nil {
			failures[jobURL] = (&ErrNotFound{Resource: "application", ID: jobURL}).Error()
			continue
		}

		material, err := s.runner.PrepareApplication(r.Context(), app.ID)
		if err != nil {
			log.Printf("[server] prepare %s failed: %v", jobURL, err)
			failures[jobURL] = err.Error()
			continue
		}
		materials = append(materials, *material)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"prepared": materials,
		"failures": failures,
	})
}

// handleScanStream runs a discovery scan, streaming progress as SSE events.
func (s *Server) handleScanStream(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if r.ContentLength > 0 {
		if err := s.decodeJSON(r, &req); err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
	}

	opts, err := s.scanOptions(&req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !s.scanActive.CompareAndSwap(false, true) {
		sse.WriteError((&ErrScanInProgress{}).Error())
		return
	}
	defer s.scanActive.Store(false)

	opts.OnProgress = func(event pipeline.ProgressEvent) {
		_ = sse.WriteEvent("progress", event)
	}

	result, err := s.runner.RunScan(r.Context(), opts)
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteComplete(result)
}
