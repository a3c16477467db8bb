package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configDirEnvKey, t.TempDir())
	t.Setenv(blobRootEnvKey, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Fatalf("expected default api url, got %q", cfg.APIURL)
	}
	if cfg.BlobRoot != DefaultBlobRoot {
		t.Fatalf("expected default blob root, got %q", cfg.BlobRoot)
	}
	if cfg.DBPath == "" || cfg.SessionDBPath == "" {
		t.Fatalf("expected derived paths, got %+v", cfg)
	}
	if cfg.Thumbs.Workers != DefaultThumbWorkers || cfg.Thumbs.QueueSize != DefaultThumbQueueSize {
		t.Fatalf("expected default thumbs config, got %+v", cfg.Thumbs)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
api_url = "http://127.0.0.1:9999"
db_path = "/data/boxd.db"
blob_root = "/data/blobs"

[thumbs]
workers = 4
queue_size = 128
`
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configDirEnvKey, dir)
	t.Setenv(blobRootEnvKey, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:9999" {
		t.Fatalf("expected file api url, got %q", cfg.APIURL)
	}
	if cfg.DBPath != "/data/boxd.db" {
		t.Fatalf("expected file db path, got %q", cfg.DBPath)
	}
	if cfg.BlobRoot != "/data/blobs" {
		t.Fatalf("expected file blob root, got %q", cfg.BlobRoot)
	}
	if cfg.SessionDBPath != "/data/.boxd-sessions" {
		t.Fatalf("expected derived session db path, got %q", cfg.SessionDBPath)
	}
	if cfg.Thumbs.Workers != 4 || cfg.Thumbs.QueueSize != 128 {
		t.Fatalf("expected thumbs overrides, got %+v", cfg.Thumbs)
	}
}

func TestBlobRootEnvOverride(t *testing.T) {
	t.Setenv(configDirEnvKey, t.TempDir())
	t.Setenv(blobRootEnvKey, "/env/blobs")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BlobRoot != "/env/blobs" {
		t.Fatalf("expected env blob root, got %q", cfg.BlobRoot)
	}
}
