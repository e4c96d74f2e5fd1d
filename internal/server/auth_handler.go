package server

import (
	"net/http"
	"time"
)

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleLogin exchanges the dashboard password for a JWT. When auth is not
// configured, every endpoint is open and there is nothing to log in to.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.jwtService == nil {
		s.errorResponse(w, http.StatusNotFound, "authentication is not enabled")
		return
	}

	var req loginRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if !s.passwords.VerifyPassword(req.Password, s.settings.APIPasswordHash) {
		err := &ErrInvalidCredentials{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	token, expiresAt, err := s.jwtService.GenerateToken()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	s.jsonResponse(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt})
}
