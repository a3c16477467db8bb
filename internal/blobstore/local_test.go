package blobstore

import (
	"context"
	"io"
	"path/filepath"
	"testing"
)

func testLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	return l
}

func TestWriteAndOpen(t *testing.T) {
	l := testLocal(t)
	ctx := context.Background()

	path, err := l.Write(ctx, []byte("payload"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Dir(path) != l.Root() {
		t.Fatalf("blob written outside root: %q", path)
	}
	if !l.Exists(ctx, path) {
		t.Fatal("expected blob to exist")
	}

	r, err := l.Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("expected payload, got %q", data)
	}
}

func TestWriteGeneratesUniquePaths(t *testing.T) {
	l := testLocal(t)
	ctx := context.Background()

	first, err := l.Write(ctx, []byte("a"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	second, err := l.Write(ctx, []byte("b"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct paths, both %q", first)
	}
}

func TestOpenRejectsPathOutsideRoot(t *testing.T) {
	l := testLocal(t)
	if _, err := l.Open(context.Background(), "/etc/passwd"); err == nil {
		t.Fatal("expected error for path outside root")
	}
	if l.Exists(context.Background(), "/etc/passwd") {
		t.Fatal("exists must reject paths outside root")
	}
}

func TestWriteAtOverwrites(t *testing.T) {
	l := testLocal(t)
	ctx := context.Background()

	path := filepath.Join(l.Root(), "thumb_100.jpg")
	if err := l.WriteAt(ctx, path, []byte("v1")); err != nil {
		t.Fatalf("write at: %v", err)
	}
	if err := l.WriteAt(ctx, path, []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	r, err := l.Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()
	data, _ := io.ReadAll(r)
	if string(data) != "v2" {
		t.Fatalf("expected overwritten content, got %q", data)
	}
}

func TestRenditionPath(t *testing.T) {
	cases := []struct {
		blobPath string
		width    int
		want     string
	}{
		{"/data/blobs/0c91ab", 100, "/data/blobs/0c91ab_100.jpg"},
		{"/data/blobs/0c91ab.png", 250, "/data/blobs/0c91ab_250.jpg"},
		{"/data/blobs/photo.holiday.jpeg", 500, "/data/blobs/photo.holiday_500.jpg"},
	}
	for _, tc := range cases {
		got := RenditionPath(tc.blobPath, tc.width)
		if got != tc.want {
			t.Fatalf("RenditionPath(%q, %d) = %q, want %q", tc.blobPath, tc.width, got, tc.want)
		}
	}
}
