package thumbs

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"testing"
	"time"

	"boxd/internal/blobstore"
	"boxd/internal/models"
)

type fakeEntries struct {
	entries map[models.EntryID]*models.Entry
}

func (f *fakeEntries) GetEntryByIDAndOwner(_ context.Context, id models.EntryID, ownerID models.UserID) (*models.Entry, error) {
	entry, ok := f.entries[id]
	if !ok || entry.OwnerID != ownerID {
		return nil, nil
	}
	return entry, nil
}

func testBlobs(t *testing.T) *blobstore.Local {
	t.Helper()
	blobs, err := blobstore.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new blob store: %v", err)
	}
	return blobs
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func seedImageEntry(t *testing.T, blobs *blobstore.Local) (*fakeEntries, Job) {
	t.Helper()
	path, err := blobs.Write(context.Background(), testPNG(t, 800, 600))
	if err != nil {
		t.Fatalf("write original: %v", err)
	}
	entry := &models.Entry{
		ID:       "en-a000000001",
		OwnerID:  "us-a000000001",
		Name:     "photo.png",
		Kind:     models.KindImage,
		ParentID: models.RootParentID,
		BlobPath: path,
	}
	entries := &fakeEntries{entries: map[models.EntryID]*models.Entry{entry.ID: entry}}
	return entries, Job{OwnerID: entry.OwnerID, EntryID: entry.ID}
}

func TestProcessProducesAllRenditions(t *testing.T) {
	blobs := testBlobs(t)
	entries, job := seedImageEntry(t, blobs)
	p := New(entries, blobs, 1, 4, quietLogger())

	if err := p.process(context.Background(), job); err != nil {
		t.Fatalf("process: %v", err)
	}

	entry := entries.entries[job.EntryID]
	for _, width := range renditionWidths {
		path := blobstore.RenditionPath(entry.BlobPath, width)
		if !blobs.Exists(context.Background(), path) {
			t.Fatalf("missing %dpx rendition at %q", width, path)
		}
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	blobs := testBlobs(t)
	entries, job := seedImageEntry(t, blobs)
	p := New(entries, blobs, 1, 4, quietLogger())

	if err := p.process(context.Background(), job); err != nil {
		t.Fatalf("first process: %v", err)
	}
	if err := p.process(context.Background(), job); err != nil {
		t.Fatalf("redelivered process: %v", err)
	}
}

func TestProcessFailsForMissingEntry(t *testing.T) {
	blobs := testBlobs(t)
	entries := &fakeEntries{entries: map[models.EntryID]*models.Entry{}}
	p := New(entries, blobs, 1, 4, quietLogger())

	err := p.process(context.Background(), Job{OwnerID: "us-a000000001", EntryID: "en-a000000001"})
	if err == nil {
		t.Fatal("expected error for missing entry")
	}
}

func TestProcessFailsForOwnerMismatch(t *testing.T) {
	blobs := testBlobs(t)
	entries, job := seedImageEntry(t, blobs)
	job.OwnerID = "us-0000000000"
	p := New(entries, blobs, 1, 4, quietLogger())

	if err := p.process(context.Background(), job); err == nil {
		t.Fatal("expected error for owner mismatch")
	}
}

func TestProcessFailsForUndecodableBlob(t *testing.T) {
	blobs := testBlobs(t)
	path, err := blobs.Write(context.Background(), []byte("not an image"))
	if err != nil {
		t.Fatalf("write blob: %v", err)
	}
	entry := &models.Entry{
		ID:       "en-a000000001",
		OwnerID:  "us-a000000001",
		Kind:     models.KindImage,
		BlobPath: path,
	}
	entries := &fakeEntries{entries: map[models.EntryID]*models.Entry{entry.ID: entry}}
	p := New(entries, blobs, 1, 4, quietLogger())

	if err := p.process(context.Background(), Job{OwnerID: entry.OwnerID, EntryID: entry.ID}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	blobs := testBlobs(t)
	entries, job := seedImageEntry(t, blobs)
	p := New(entries, blobs, 2, 4, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	if !p.Enqueue(job) {
		t.Fatal("enqueue rejected with empty queue")
	}

	deadline := time.Now().Add(5 * time.Second)
	for p.Completed() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for job completion")
		}
		time.Sleep(10 * time.Millisecond)
	}
	p.Stop()

	entry := entries.entries[job.EntryID]
	for _, width := range renditionWidths {
		if !blobs.Exists(context.Background(), blobstore.RenditionPath(entry.BlobPath, width)) {
			t.Fatalf("missing %dpx rendition after pipeline run", width)
		}
	}
}

func TestEnqueueDropsWhenQueueFull(t *testing.T) {
	blobs := testBlobs(t)
	entries, job := seedImageEntry(t, blobs)
	p := New(entries, blobs, 1, 1, quietLogger())
	// Pipeline not started: nothing drains the queue.

	if !p.Enqueue(job) {
		t.Fatal("first enqueue should fit")
	}
	if p.Enqueue(job) {
		t.Fatal("second enqueue should be dropped")
	}
	if p.Dropped() != 1 {
		t.Fatalf("expected 1 dropped job, got %d", p.Dropped())
	}
}
