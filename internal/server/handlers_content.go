package server

import (
	"net/http"

	"github.com/ajsalpv/job-agent/internal/content"
)

// generateRequest is the payload for the content generation endpoints.
type generateRequest struct {
	Company        string `json:"company" validate:"required"`
	Role           string `json:"role" validate:"required"`
	JobDescription string `json:"job_description" validate:"required"`
}

func (req *generateRequest) jobContext() content.JobContext {
	return content.JobContext{
		Company:     req.Company,
		Role:        req.Role,
		Description: req.JobDescription,
	}
}

// handleGenerateResume generates ATS-optimized resume bullets for a posting.
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.generator.ResumeBullets(r.Context(), req.jobContext())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Resume generation failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleGenerateCoverLetter generates a cover letter for a posting.
func (s *Server) handleGenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	letter, err := s.generator.CoverLetter(r.Context(), req.jobContext())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Cover letter generation failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"company":      req.Company,
		"role":         req.Role,
		"cover_letter": letter,
	})
}
