package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and operator endpoints.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /stats", s.handleStats)

	// Accounts and sessions.
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users/me", s.handleUsersMe)
	mux.HandleFunc("GET /connect", s.handleConnect)
	mux.HandleFunc("GET /disconnect", s.handleDisconnect)

	// Entries.
	mux.HandleFunc("POST /files", s.handleCreateEntry)
	mux.HandleFunc("GET /files", s.handleListEntries)
	mux.HandleFunc("GET /files/{id}", s.handleGetEntry)
	mux.HandleFunc("PUT /files/{id}/publish", s.handlePublish)
	mux.HandleFunc("PUT /files/{id}/unpublish", s.handleUnpublish)
	mux.HandleFunc("GET /files/{id}/data", s.handleEntryData)

	return s.withRequestLogging(mux)
}
