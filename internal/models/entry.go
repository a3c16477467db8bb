package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// EntryKind defines the allowed entry types.
type EntryKind string

const (
	KindFolder EntryKind = "folder"
	KindFile   EntryKind = "file"
	KindImage  EntryKind = "image"
)

var validEntryKinds = map[EntryKind]struct{}{
	KindFolder: {},
	KindFile:   {},
	KindImage:  {},
}

func IsValidEntryKind(kind EntryKind) bool {
	_, ok := validEntryKinds[kind]
	return ok
}

// RootParentID is the sentinel parent id meaning "top level, no parent".
const RootParentID EntryID = "0"

// EntryID is an opaque entry identifier. The zero value is invalid; ids
// enter the system only through ParseEntryID.
type EntryID string

// UserID is an opaque user identifier.
type UserID string

var (
	entryIDPattern = regexp.MustCompile(`^en-[0-9a-z]{10}$`)
	userIDPattern  = regexp.MustCompile(`^us-[0-9a-z]{10}$`)
)

// ParseEntryID validates a raw identifier string. The root sentinel is not
// a valid entry id; callers that accept it must check for it first.
func ParseEntryID(raw string) (EntryID, error) {
	raw = strings.TrimSpace(raw)
	if !entryIDPattern.MatchString(raw) {
		return "", fmt.Errorf("invalid entry id %q", raw)
	}
	return EntryID(raw), nil
}

// ParseParentID validates a raw parent reference, accepting the root sentinel.
func ParseParentID(raw string) (EntryID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == string(RootParentID) {
		return RootParentID, nil
	}
	return ParseEntryID(raw)
}

// ParseUserID validates a raw user identifier string.
func ParseUserID(raw string) (UserID, error) {
	raw = strings.TrimSpace(raw)
	if !userIDPattern.MatchString(raw) {
		return "", fmt.Errorf("invalid user id %q", raw)
	}
	return UserID(raw), nil
}

func (id EntryID) String() string { return string(id) }

func (id EntryID) IsRoot() bool { return id == RootParentID }

func (id UserID) String() string { return string(id) }

// Entry is one file, image, or folder record owned by a user.
//
// OwnerID, Kind, ParentID and BlobPath are immutable after creation;
// IsPublic is the only field mutated afterwards, via the visibility
// operations.
type Entry struct {
	ID        EntryID
	OwnerID   UserID
	Name      string
	Kind      EntryKind
	ParentID  EntryID
	IsPublic  bool
	BlobPath  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasBlob reports whether this entry kind carries blob content.
func (e *Entry) HasBlob() bool {
	return e.Kind == KindFile || e.Kind == KindImage
}

// VisibleTo reports whether the entry may be read by the given caller.
// An empty userID means the caller is unauthenticated.
func (e *Entry) VisibleTo(userID UserID) bool {
	if e.IsPublic {
		return true
	}
	return userID != "" && e.OwnerID == userID
}
