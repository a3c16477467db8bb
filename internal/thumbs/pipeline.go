// Package thumbs generates fixed-width JPEG renditions of image entries.
//
// Jobs move Queued -> Running -> Completed or Failed. Failures are
// terminal here; redelivery safety comes from deterministic output paths
// and unconditional overwrite, not from retry bookkeeping.
package thumbs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"

	"boxd/internal/blobstore"
	"boxd/internal/models"
)

// renditionWidths are the fixed output widths, in pixels.
var renditionWidths = []int{500, 250, 100}

// Job is one unit of thumbnail work for an image entry.
type Job struct {
	OwnerID models.UserID
	EntryID models.EntryID
}

// EntryGetter re-fetches the entry a job references. A job whose entry no
// longer exists under its recorded owner fails terminally.
type EntryGetter interface {
	GetEntryByIDAndOwner(ctx context.Context, id models.EntryID, ownerID models.UserID) (*models.Entry, error)
}

// Pipeline consumes thumbnail jobs from a bounded queue with a pool of
// workers. Enqueue never blocks the caller.
type Pipeline struct {
	jobs    chan Job
	entries EntryGetter
	blobs   blobstore.Store
	workers int
	logger  *slog.Logger

	wg      sync.WaitGroup
	started atomic.Bool

	completed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// New creates a pipeline with the given worker count and queue capacity.
func New(entries EntryGetter, blobs blobstore.Store, workers, queueSize int, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pipeline{
		jobs:    make(chan Job, queueSize),
		entries: entries,
		blobs:   blobs,
		workers: workers,
		logger:  logger,
	}
}

// Start launches the worker pool. Workers exit when the context is
// cancelled or the queue is closed by Stop.
func (p *Pipeline) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (p *Pipeline) Stop() {
	if !p.started.Load() {
		return
	}
	close(p.jobs)
	p.wg.Wait()
}

// Enqueue offers a job to the queue without blocking. When the queue is
// full the job is dropped and logged; the upload that produced it is
// unaffected.
func (p *Pipeline) Enqueue(job Job) bool {
	select {
	case p.jobs <- job:
		p.logger.Debug("thumbnail job queued", "entry_id", job.EntryID, "owner_id", job.OwnerID)
		return true
	default:
		p.dropped.Add(1)
		p.logger.Error("thumbnail queue full, dropping job", "entry_id", job.EntryID, "owner_id", job.OwnerID)
		return false
	}
}

// Completed returns the number of jobs that produced all renditions.
func (p *Pipeline) Completed() int64 { return p.completed.Load() }

// Failed returns the number of terminally failed jobs.
func (p *Pipeline) Failed() int64 { return p.failed.Load() }

// Dropped returns the number of jobs rejected by a full queue.
func (p *Pipeline) Dropped() int64 { return p.dropped.Load() }

func (p *Pipeline) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.logger.Debug("thumbnail job running", "entry_id", job.EntryID)
			if err := p.process(ctx, job); err != nil {
				p.failed.Add(1)
				p.logger.Error("thumbnail job failed", "entry_id", job.EntryID, "owner_id", job.OwnerID, "error", err)
				continue
			}
			p.completed.Add(1)
			p.logger.Info("thumbnail job completed", "entry_id", job.EntryID)
		}
	}
}

// process generates every rendition for one job. Any failure fails the
// whole job; renditions already written stay on disk, which is safe
// because serving treats each missing rendition file as not found.
func (p *Pipeline) process(ctx context.Context, job Job) error {
	entry, err := p.entries.GetEntryByIDAndOwner(ctx, job.EntryID, job.OwnerID)
	if err != nil {
		return fmt.Errorf("fetch entry: %w", err)
	}
	if entry == nil {
		return fmt.Errorf("entry %s not found for owner %s", job.EntryID, job.OwnerID)
	}
	if entry.BlobPath == "" {
		return fmt.Errorf("entry %s has no blob", job.EntryID)
	}

	r, err := p.blobs.Open(ctx, entry.BlobPath)
	if err != nil {
		return fmt.Errorf("open original: %w", err)
	}
	src, err := imaging.Decode(r)
	closeErr := r.Close()
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	if closeErr != nil {
		return closeErr
	}

	for _, width := range renditionWidths {
		resized := imaging.Resize(src, width, 0, imaging.Lanczos)
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.JPEG); err != nil {
			return fmt.Errorf("encode %dpx rendition: %w", width, err)
		}
		out := blobstore.RenditionPath(entry.BlobPath, width)
		if err := p.blobs.WriteAt(ctx, out, buf.Bytes()); err != nil {
			return fmt.Errorf("write %dpx rendition: %w", width, err)
		}
	}

	return nil
}
