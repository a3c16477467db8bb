package server

import (
	"io"
	"net/http"
	"strings"

	"boxd/internal/api"
	"boxd/internal/models"
)

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticateRequest(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req api.CreateEntryRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	entry, err := s.entryService.CreateEntry(r.Context(), userID, CreateEntryInput{
		Name:     strings.TrimSpace(req.Name),
		Kind:     strings.TrimSpace(req.Type),
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, entryResponse(entry))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticateRequest(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	entry, err := s.entryService.GetEntry(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entryResponse(entry))
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticateRequest(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	entries, err := s.entryService.ListChildren(r.Context(), userID, r.URL.Query().Get("parentId"), queryPage(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	payload := make([]api.EntryResponse, 0, len(entries))
	for i := range entries {
		payload = append(payload, entryResponse(&entries[i]))
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, true)
}

func (s *Server) handleUnpublish(w http.ResponseWriter, r *http.Request) {
	s.setVisibility(w, r, false)
}

func (s *Server) setVisibility(w http.ResponseWriter, r *http.Request, desired bool) {
	userID, err := s.authenticateRequest(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	entry, err := s.entryService.SetVisibility(r.Context(), userID, r.PathValue("id"), desired)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entryResponse(entry))
}

// handleEntryData streams blob content. Auth is optional here: a token
// only widens visibility to the caller's own private entries.
func (s *Server) handleEntryData(w http.ResponseWriter, r *http.Request) {
	userID := s.optionalUserID(r)

	content, err := s.entryService.ServeBlob(r.Context(), userID, r.PathValue("id"), r.URL.Query().Get("size"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer content.Reader.Close()

	w.Header().Set("Content-Type", content.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, content.Reader); err != nil {
		s.log().Error("stream blob", "path", r.URL.Path, "error", err)
	}
}

func entryResponse(entry *models.Entry) api.EntryResponse {
	return api.EntryResponse{
		ID:       entry.ID.String(),
		UserID:   entry.OwnerID.String(),
		Name:     entry.Name,
		Type:     string(entry.Kind),
		IsPublic: entry.IsPublic,
		ParentID: entry.ParentID.String(),
	}
}
