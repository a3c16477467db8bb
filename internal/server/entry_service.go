package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strconv"
	"time"

	"boxd/internal/blobstore"
	"boxd/internal/models"
	"boxd/internal/store"
	"boxd/internal/thumbs"
)

// validRenditionWidths is the enumerated set accepted by the size query
// parameter, matching the widths the pipeline produces.
var validRenditionWidths = map[int]struct{}{100: {}, 250: {}, 500: {}}

// EntryService owns the ownership, visibility, and hierarchy rules for
// entries. Every entry operation goes through it after authentication.
type EntryService struct {
	store  *store.Store
	blobs  blobstore.Store
	thumbs ThumbnailEnqueuer
	logger *slog.Logger
}

// CreateEntryInput is the validated-at-the-edge input of CreateEntry.
// Data is still base64 encoded; decoding is part of validation.
type CreateEntryInput struct {
	Name     string
	Kind     string
	ParentID string
	IsPublic bool
	Data     string
}

func NewEntryService(st *store.Store, blobs blobstore.Store, pipeline ThumbnailEnqueuer, logger *slog.Logger) *EntryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EntryService{store: st, blobs: blobs, thumbs: pipeline, logger: logger}
}

// CreateEntry validates and persists a new entry for userID.
//
// Checks run in a fixed order and the first failure wins: name, kind,
// data presence, parent existence, parent kind. Nothing is written to
// blob storage or the repository until every check has passed, so a
// rejected request leaves no partial state behind.
func (e *EntryService) CreateEntry(ctx context.Context, userID models.UserID, input CreateEntryInput) (*models.Entry, error) {
	if input.Name == "" {
		return nil, badRequestCode(fmt.Errorf("Missing name"), ErrCodeMissingName)
	}
	kind := models.EntryKind(input.Kind)
	if !models.IsValidEntryKind(kind) {
		return nil, badRequestCode(fmt.Errorf("Missing type or invalid type"), ErrCodeMissingKind)
	}
	if kind != models.KindFolder && input.Data == "" {
		return nil, badRequestCode(fmt.Errorf("Missing data"), ErrCodeMissingData)
	}
	var data []byte
	if kind != models.KindFolder {
		decoded, err := base64.StdEncoding.DecodeString(input.Data)
		if err != nil {
			return nil, badRequestCode(fmt.Errorf("Invalid data"), ErrCodeInvalidData)
		}
		data = decoded
	}

	parentID, err := models.ParseParentID(input.ParentID)
	if err != nil {
		return nil, badRequestCode(fmt.Errorf("Parent not found"), ErrCodeParentNotFound)
	}
	if !parentID.IsRoot() {
		parent, err := e.store.GetEntryByID(ctx, parentID)
		if err != nil {
			return nil, storeFailure(err)
		}
		if parent == nil {
			return nil, badRequestCode(fmt.Errorf("Parent not found"), ErrCodeParentNotFound)
		}
		if parent.Kind != models.KindFolder {
			return nil, badRequestCode(fmt.Errorf("Parent is not a folder"), ErrCodeParentNotFolder)
		}
	}

	// Validation is complete; failures past this point are internal.
	blobPath := ""
	if kind != models.KindFolder {
		blobPath, err = e.blobs.Write(ctx, data)
		if err != nil {
			return nil, internalError(fmt.Errorf("write blob: %w", err))
		}
	}

	rawID, err := store.GenerateEntryID(e.store.EntryExists)
	if err != nil {
		return nil, internalError(err)
	}
	now := time.Now().UTC()
	entry := &models.Entry{
		ID:        models.EntryID(rawID),
		OwnerID:   userID,
		Name:      input.Name,
		Kind:      kind,
		ParentID:  parentID,
		IsPublic:  input.IsPublic,
		BlobPath:  blobPath,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.InsertEntry(ctx, entry); err != nil {
		return nil, storeFailure(err)
	}

	if kind == models.KindImage {
		// Fire and forget: a rejected job is logged by the pipeline and
		// never affects the upload response.
		e.thumbs.Enqueue(thumbs.Job{OwnerID: userID, EntryID: entry.ID})
	}

	return entry, nil
}

// GetEntry returns an entry visible to the caller. Missing entries,
// malformed ids, and entries the caller may not see are all the same
// NotFound so private entries never leak their existence.
func (e *EntryService) GetEntry(ctx context.Context, userID models.UserID, rawID string) (*models.Entry, error) {
	entry, err := e.visibleEntry(ctx, userID, rawID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListChildren returns one page of the caller's entries under a parent.
func (e *EntryService) ListChildren(ctx context.Context, userID models.UserID, rawParentID string, page int) ([]models.Entry, error) {
	parentID, err := models.ParseParentID(rawParentID)
	if err != nil {
		// An unresolvable parent reference simply has no children.
		return []models.Entry{}, nil
	}
	entries, err := e.store.ListEntriesByParent(ctx, userID, parentID, page)
	if err != nil {
		return nil, storeFailure(err)
	}
	return entries, nil
}

// SetVisibility updates is_public on an entry the caller owns. Ownership
// mismatch reads exactly like non-existence.
func (e *EntryService) SetVisibility(ctx context.Context, userID models.UserID, rawID string, desired bool) (*models.Entry, error) {
	entryID, err := models.ParseEntryID(rawID)
	if err != nil {
		return nil, notFound()
	}
	entry, err := e.store.GetEntryByIDAndOwner(ctx, entryID, userID)
	if err != nil {
		return nil, storeFailure(err)
	}
	if entry == nil {
		return nil, notFound()
	}

	updated, err := e.store.SetEntryVisibility(ctx, entryID, desired, time.Now().UTC())
	if err != nil {
		return nil, storeFailure(err)
	}
	if updated == nil {
		return nil, notFound()
	}
	return updated, nil
}

// BlobContent is an open blob stream with its content type.
type BlobContent struct {
	Reader      io.ReadCloser
	ContentType string
}

// ServeBlob opens the content of a file or image entry for a caller,
// optionally at one of the fixed rendition widths. The rendition path is
// derived by convention, never looked up: a rendition that has not been
// generated yet is NotFound, and generation is never triggered from here.
func (e *EntryService) ServeBlob(ctx context.Context, userID models.UserID, rawID, rawSize string) (*BlobContent, error) {
	entry, err := e.visibleEntry(ctx, userID, rawID)
	if err != nil {
		return nil, err
	}
	if entry.Kind == models.KindFolder {
		return nil, badRequestCode(fmt.Errorf("A folder doesn't have content"), ErrCodeFolderNoContent)
	}

	path := entry.BlobPath
	contentType := contentTypeForName(entry.Name)
	if rawSize != "" {
		width, err := strconv.Atoi(rawSize)
		if err != nil {
			return nil, badRequestCode(fmt.Errorf("Invalid size"), ErrCodeInvalidSize)
		}
		if _, ok := validRenditionWidths[width]; !ok {
			return nil, badRequestCode(fmt.Errorf("Invalid size"), ErrCodeInvalidSize)
		}
		path = blobstore.RenditionPath(entry.BlobPath, width)
		contentType = "image/jpeg"
	}

	if !e.blobs.Exists(ctx, path) {
		return nil, notFound()
	}
	r, err := e.blobs.Open(ctx, path)
	if err != nil {
		return nil, internalError(err)
	}
	return &BlobContent{Reader: r, ContentType: contentType}, nil
}

// visibleEntry loads an entry and applies the shared visibility rule.
func (e *EntryService) visibleEntry(ctx context.Context, userID models.UserID, rawID string) (*models.Entry, error) {
	entryID, err := models.ParseEntryID(rawID)
	if err != nil {
		return nil, notFound()
	}
	entry, err := e.store.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, storeFailure(err)
	}
	if entry == nil || !entry.VisibleTo(userID) {
		return nil, notFound()
	}
	return entry, nil
}

func contentTypeForName(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
