package server

import "net/http"

func (s *Server) handleSchedulerStatus(w http.ResponseWriter, _ *http.Request) {
	if s.sched == nil {
		s.errorResponse(w, http.StatusNotFound, "scheduler not configured")
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sched.Status())
}

func (s *Server) handleSchedulerStart(w http.ResponseWriter, _ *http.Request) {
	if s.sched == nil {
		s.errorResponse(w, http.StatusNotFound, "scheduler not configured")
		return
	}
	if err := s.sched.Start(); err != nil {
		s.errorResponse(w, http.StatusConflict, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sched.Status())
}

func (s *Server) handleSchedulerStop(w http.ResponseWriter, _ *http.Request) {
	if s.sched == nil {
		s.errorResponse(w, http.StatusNotFound, "scheduler not configured")
		return
	}
	s.sched.Stop()
	s.jsonResponse(w, http.StatusOK, s.sched.Status())
}
