// Package api defines the JSON wire types of the boxd HTTP API.
package api

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse describes one user account.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ConnectResponse carries a freshly issued session token.
type ConnectResponse struct {
	Token string `json:"token"`
}

// CreateEntryRequest is the body of POST /files. Data carries base64
// encoded blob content for file and image entries.
type CreateEntryRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// EntryResponse describes one entry. Blob paths are storage-internal and
// never serialized.
type EntryResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

// StatusResponse reports backing store liveness.
type StatusResponse struct {
	DB       bool `json:"db"`
	Sessions bool `json:"sessions"`
}

// StatsResponse reports entity counts.
type StatsResponse struct {
	Users int `json:"users"`
	Files int `json:"files"`
}
