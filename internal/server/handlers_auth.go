package server

import (
	"net/http"

	"boxd/internal/api"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req api.CreateUserRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	user, err := s.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.UserResponse{ID: user.ID.String(), Email: user.Email})
}

// handleConnect exchanges HTTP Basic credentials for a session token.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized())
		return
	}

	token, err := s.authService.Connect(r.Context(), email, password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ConnectResponse{Token: token})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.authService.Disconnect(r.Context(), requestToken(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUsersMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.authService.UserFromToken(r.Context(), requestToken(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.UserResponse{ID: user.ID.String(), Email: user.Email})
}
