package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"boxd/internal/blobstore"
	"boxd/internal/sessions"
	"boxd/internal/store"
	"boxd/internal/thumbs"
)

const (
	allowRemoteEnvKey = "BOXD_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
)

// ThumbnailEnqueuer is the one-way send into the thumbnail pipeline. The
// request path never waits on job outcomes.
type ThumbnailEnqueuer interface {
	Enqueue(job thumbs.Job) bool
}

// Server wraps HTTP handlers for the boxd API.
type Server struct {
	addr         string
	store        *store.Store
	sessions     sessions.Store
	entryService *EntryService
	authService  *AuthService
	logger       *slog.Logger
}

// New creates a new server instance.
func New(addr string, st *store.Store, sessionStore sessions.Store, blobs blobstore.Store, pipeline ThumbnailEnqueuer, sessionTTL time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:         addr,
		store:        st,
		sessions:     sessionStore,
		entryService: NewEntryService(st, blobs, pipeline, logger),
		authService:  NewAuthService(st, sessionStore, sessionTTL),
		logger:       logger,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
