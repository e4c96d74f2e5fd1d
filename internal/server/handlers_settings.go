package server

import (
	"net/http"

	"github.com/ajsalpv/job-agent/internal/db"
	"github.com/ajsalpv/job-agent/internal/fetch"
)

// handleGetSettings returns the saved user settings, falling back to the
// environment defaults when nothing was saved yet.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	saved, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	if saved == nil {
		saved = &db.UserSettings{
			UserName:        s.settings.UserName,
			UserEmail:       s.settings.UserEmail,
			UserPhone:       s.settings.UserPhone,
			Locations:       s.settings.Locations(),
			TargetRoles:     s.settings.Roles(),
			ExperienceYears: s.settings.ExperienceYears,
			MinFitScore:     s.settings.MinFitScore,
			Platforms:       platformNames(),
		}
	}
	s.jsonResponse(w, http.StatusOK, saved)
}

type settingsRequest struct {
	UserName        string   `json:"user_name" validate:"required"`
	UserEmail       string   `json:"user_email" validate:"omitempty,email"`
	UserPhone       string   `json:"user_phone"`
	Locations       []string `json:"locations" validate:"required,min=1"`
	TargetRoles     []string `json:"target_roles" validate:"required,min=1"`
	ExperienceYears int      `json:"experience_years" validate:"min=0,max=50"`
	MinFitScore     int      `json:"min_fit_score" validate:"min=0,max=100"`
	Platforms       []string `json:"platforms"`
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	for _, name := range req.Platforms {
		if _, err := fetch.ParsePlatform(name); err != nil {
			unknown := &ErrUnknownPlatform{Name: name}
			s.errorResponse(w, HTTPStatus(unknown), unknown.Error())
			return
		}
	}

	settings := &db.UserSettings{
		UserName:        req.UserName,
		UserEmail:       req.UserEmail,
		UserPhone:       req.UserPhone,
		Locations:       req.Locations,
		TargetRoles:     req.TargetRoles,
		ExperienceYears: req.ExperienceYears,
		MinFitScore:     req.MinFitScore,
		Platforms:       req.Platforms,
	}
	if err := s.store.SaveSettings(r.Context(), settings); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	s.jsonResponse(w, http.StatusOK, settings)
}

func platformNames() []string {
	platforms := fetch.AllPlatforms()
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}
	return names
}
