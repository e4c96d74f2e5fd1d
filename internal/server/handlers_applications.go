package server

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ajsalpv/job-agent/internal/db"
)

// defaultFollowUpDays is the age threshold for the follow-up list.
const defaultFollowUpDays = 7

// handleListApplications returns tracked applications, optionally filtered by
// status and platform.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	opts := db.ListApplicationsOptions{
		Platform: r.URL.Query().Get("platform"),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		if !db.Status(status).IsValid() {
			s.errorResponse(w, http.StatusBadRequest, "Invalid status: "+status)
			return
		}
		opts.Status = db.Status(status)
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit: "+limit)
			return
		}
		opts.Limit = n
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid offset: "+offset)
			return
		}
		opts.Offset = n
	}

	apps, err := s.store.ListApplications(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list applications")
		return
	}
	if apps == nil {
		apps = []db.Application{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"applications": apps,
		"count":        len(apps),
	})
}

// handleStats returns aggregate counts by status plus the success rate.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

// handleFollowUps returns applied applications older than the days threshold.
func (s *Server) handleFollowUps(w http.ResponseWriter, r *http.Request) {
	days := defaultFollowUpDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid days: "+v)
			return
		}
		days = n
	}

	apps, err := s.store.ListFollowUps(r.Context(), days)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list follow-ups")
		return
	}
	if apps == nil {
		apps = []db.Application{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"followups": apps,
		"count":     len(apps),
		"days":      days,
	})
}

// statusUpdateRequest is the payload for POST /api/applications/status.
type statusUpdateRequest struct {
	ApplicationID string     `json:"application_id" validate:"required,uuid"`
	Status        string     `json:"status" validate:"required"`
	Notes         string     `json:"notes"`
	AppliedAt     *time.Time `json:"applied_at,omitempty"`
}

// handleUpdateStatus transitions an application to a new status. The status
// must be one of the accepted enumeration values.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	newStatus := db.Status(req.Status)
	if !newStatus.IsValid() {
		s.errorResponse(w, http.StatusBadRequest, "Invalid status: "+req.Status)
		return
	}

	id, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application_id")
		return
	}

	if err := s.store.UpdateStatus(r.Context(), id, newStatus, req.Notes, req.AppliedAt); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	// Mirror the change to the tracker sheet. The sheet is a best-effort
	// copy; a mirror failure never fails the request.
	if s.mirror != nil {
		if app, err := s.store.GetApplicationByID(r.Context(), id); err != nil || app == nil {
			log.Printf("[server] skipping sheet status update for %s: %v", id, err)
		} else if err := s.mirror.UpdateStatus(r.Context(), app.JobURL, newStatus); err != nil {
			log.Printf("[server] sheet status update for %s failed: %v", app.JobURL, err)
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"application_id": id.String(),
		"status":         string(newStatus),
	})
}
