package server

import (
	"net/http"

	"boxd/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, api.StatusResponse{
		DB:       s.store.Alive(),
		Sessions: s.sessions.Alive(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.CountUsers(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	files, err := s.store.CountEntries(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.StatsResponse{Users: users, Files: files})
}
