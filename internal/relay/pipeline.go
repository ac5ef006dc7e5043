package relay

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/media"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/mega"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/pkg/format"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/pkg/logger"
)

// Downloader is the storage-session slice the pipeline needs.
type Downloader interface {
	Download(ctx context.Context, rec mega.FileRecord, dir string) (string, error)
}

// Sender delivers one local file to the destination chat.
type Sender interface {
	SendMedia(path, filename string, kind media.Kind) error
}

// StatusSink receives the human-readable progress line for the status
// message.
type StatusSink interface {
	Update(text string)
}

// Summary is the per-run tally. Uploaded+Failed == Total on every return
// from Run.
type Summary struct {
	Uploaded int
	Failed   int
	Total    int
}

// Pipeline moves resolved media sets into the target chat. The scratch
// directory lives for the whole process; files inside it only for a single
// iteration.
type Pipeline struct {
	sender      Sender
	scratchDir  string
	concurrency int
}

// NewPipeline creates the scratch directory and binds the destination
// sender. concurrency 1 keeps the sequential one-file-at-a-time behavior.
func NewPipeline(sender Sender, concurrency int) (*Pipeline, error) {
	dir, err := os.MkdirTemp("", "megabot-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{sender: sender, scratchDir: dir, concurrency: concurrency}, nil
}

// Run transfers every record. A single record's failure is logged and
// counted, never aborts the batch, and never surfaces to the caller; the
// summary counters are the only failure signal.
func (p *Pipeline) Run(ctx context.Context, dl Downloader, records []mega.FileRecord, sink StatusSink) Summary {
	summary := Summary{Total: len(records)}
	if len(records) == 0 {
		return summary
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			ok := p.transferOne(ctx, dl, rec, i+1, summary.Total, sink)
			mu.Lock()
			if ok {
				summary.Uploaded++
			} else {
				summary.Failed++
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return summary
}

// transferOne stages one record through its own subdirectory of the
// scratch dir, removed before the next record regardless of outcome. The
// per-record subdirectory keeps concurrent transfers of identically named
// files from clobbering each other.
func (p *Pipeline) transferOne(ctx context.Context, dl Downloader, rec mega.FileRecord, index, total int, sink StatusSink) bool {
	name, ok := rec.Name()
	if !ok {
		name = rec.ID
	}

	sink.Update(fmt.Sprintf("📥 Downloading (%d/%d): %s\nSize: %s",
		index, total, name, format.FileSize(rec.Size)))

	stage, err := os.MkdirTemp(p.scratchDir, "xfer-")
	if err != nil {
		logger.Error("Failed to create staging dir", "file", name, "error", err)
		return false
	}
	defer func() {
		if err := os.RemoveAll(stage); err != nil {
			logger.Warn("Failed to remove staging dir", "dir", stage, "error", err)
		}
	}()

	path, err := dl.Download(ctx, rec, stage)
	if err != nil {
		logger.Error("Download failed", "file", name, "error", err)
		return false
	}

	sink.Update(fmt.Sprintf("📤 Uploading (%d/%d): %s", index, total, name))

	if err := p.sender.SendMedia(path, name, media.KindOf(name)); err != nil {
		logger.Error("Upload failed", "file", name, "error", err)
		return false
	}
	return true
}

// Cleanup removes the scratch directory wholesale. Bound to process
// teardown, not to individual runs.
func (p *Pipeline) Cleanup() {
	if err := os.RemoveAll(p.scratchDir); err != nil {
		logger.Warn("Failed to remove scratch dir", "dir", p.scratchDir, "error", err)
	}
}
