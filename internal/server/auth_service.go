package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	internalauth "boxd/internal/auth"
	"boxd/internal/models"
	"boxd/internal/sessions"
	"boxd/internal/store"
)

// tokenHeader is the opaque session token header of the API.
const tokenHeader = "X-Token"

const defaultSessionTTL = 24 * time.Hour

// AuthService exchanges credentials for session tokens and tokens for
// user identities. It is the single point of truth for identity: every
// entry point resolves callers through here.
type AuthService struct {
	store      *store.Store
	sessions   sessions.Store
	sessionTTL time.Duration
}

func NewAuthService(st *store.Store, sessionStore sessions.Store, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &AuthService{store: st, sessions: sessionStore, sessionTTL: sessionTTL}
}

// Register creates a new account from an email and plaintext password.
func (a *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, badRequestCode(fmt.Errorf("Missing email"), ErrCodeMissingEmail)
	}
	if password == "" {
		return nil, badRequestCode(fmt.Errorf("Missing password"), ErrCodeMissingPassword)
	}
	normalized, err := internalauth.NormalizeEmail(email)
	if err != nil {
		return nil, badRequestCode(err, ErrCodeMissingEmail)
	}

	existing, err := a.store.GetUserByEmail(ctx, normalized)
	if err != nil {
		return nil, storeFailure(err)
	}
	if existing != nil {
		return nil, badRequestCode(fmt.Errorf("Already exists"), ErrCodeUserExists)
	}

	hash, err := internalauth.HashPassword(password)
	if err != nil {
		return nil, internalError(err)
	}
	user, err := a.store.CreateUser(ctx, normalized, hash, time.Now().UTC())
	if err != nil {
		return nil, storeFailure(err)
	}
	return user, nil
}

// Connect verifies credentials and issues a fresh session token bound to
// the user for the configured TTL.
func (a *AuthService) Connect(ctx context.Context, email, password string) (string, error) {
	normalized, err := internalauth.NormalizeEmail(email)
	if err != nil {
		return "", unauthorized()
	}
	user, err := a.store.GetUserByEmail(ctx, normalized)
	if err != nil {
		return "", storeFailure(err)
	}
	if user == nil || !internalauth.VerifyPassword(user.PasswordHash, password) {
		return "", unauthorized()
	}

	token := uuid.NewString()
	if err := a.sessions.Create(ctx, token, user.ID.String(), a.sessionTTL); err != nil {
		return "", storeFailure(err)
	}
	return token, nil
}

// Disconnect revokes a session token. An unknown token is Unauthorized.
func (a *AuthService) Disconnect(ctx context.Context, token string) error {
	userID, err := a.sessions.Resolve(ctx, token)
	if err != nil {
		return storeFailure(err)
	}
	if userID == "" {
		return unauthorized()
	}
	if err := a.sessions.Destroy(ctx, token); err != nil {
		return storeFailure(err)
	}
	return nil
}

// Authenticate resolves a session token to a user id. Absence and expiry
// both come back as Unauthorized, never as any other error.
func (a *AuthService) Authenticate(ctx context.Context, token string) (models.UserID, error) {
	if strings.TrimSpace(token) == "" {
		return "", unauthorized()
	}
	raw, err := a.sessions.Resolve(ctx, token)
	if err != nil {
		return "", storeFailure(err)
	}
	if raw == "" {
		return "", unauthorized()
	}
	userID, err := models.ParseUserID(raw)
	if err != nil {
		return "", unauthorized()
	}
	return userID, nil
}

// UserFromToken resolves a token all the way to the stored user record.
func (a *AuthService) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := a.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := a.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeFailure(err)
	}
	if user == nil {
		return nil, unauthorized()
	}
	return user, nil
}

// requestToken extracts the session token header from a request.
func requestToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(tokenHeader))
}

// authenticateRequest resolves the caller of an authenticated endpoint.
func (s *Server) authenticateRequest(r *http.Request) (models.UserID, error) {
	return s.authService.Authenticate(r.Context(), requestToken(r))
}

// optionalUserID resolves the caller when a token is present, and returns
// the empty id for anonymous requests. Used by endpoints where auth only
// affects visibility.
func (s *Server) optionalUserID(r *http.Request) models.UserID {
	token := requestToken(r)
	if token == "" {
		return ""
	}
	userID, err := s.authService.Authenticate(r.Context(), token)
	if err != nil {
		return ""
	}
	return userID
}
