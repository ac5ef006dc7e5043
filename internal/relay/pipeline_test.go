package relay

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/media"
	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/mega"
)

type fakeDownloader struct {
	failIDs map[string]bool
}

func (f *fakeDownloader) Download(ctx context.Context, rec mega.FileRecord, dir string) (string, error) {
	if f.failIDs[rec.ID] {
		return "", errors.New("simulated I/O error")
	}
	name, ok := rec.Name()
	if !ok {
		name = rec.ID
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type sentFile struct {
	name string
	kind media.Kind
}

type fakeSender struct {
	mu        sync.Mutex
	failNames map[string]bool
	sent      []sentFile
}

func (f *fakeSender) SendMedia(path, filename string, kind media.Kind) error {
	if f.failNames[filename] {
		return errors.New("simulated send failure")
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	f.mu.Lock()
	f.sent = append(f.sent, sentFile{name: filename, kind: kind})
	f.mu.Unlock()
	return nil
}

type recordingSink struct {
	mu      sync.Mutex
	updates []string
}

func (r *recordingSink) Update(text string) {
	r.mu.Lock()
	r.updates = append(r.updates, text)
	r.mu.Unlock()
}

func named(id, name string, size int64) mega.FileRecord {
	return mega.FileRecord{ID: id, Size: size, Attrs: &mega.Attributes{Name: name}}
}

func newTestPipeline(t *testing.T, sender Sender) *Pipeline {
	t.Helper()
	p, err := NewPipeline(sender, 1)
	require.NoError(t, err)
	t.Cleanup(p.Cleanup)
	return p
}

func scratchEntries(t *testing.T, p *Pipeline) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(p.scratchDir)
	require.NoError(t, err)
	return entries
}

func TestRunAllSucceed(t *testing.T) {
	sender := &fakeSender{}
	p := newTestPipeline(t, sender)
	sink := &recordingSink{}

	records := []mega.FileRecord{
		named("1", "beach.jpg", 1536),
		named("2", "trip.mp4", 1 << 20),
		named("3", "scan.tif2", 10), // unknown extension goes out as a document
	}

	summary := p.Run(context.Background(), &fakeDownloader{}, records, sink)

	assert.Equal(t, Summary{Uploaded: 3, Failed: 0, Total: 3}, summary)
	require.Len(t, sender.sent, 3)
	assert.Equal(t, sentFile{"beach.jpg", media.KindPhoto}, sender.sent[0])
	assert.Equal(t, sentFile{"trip.mp4", media.KindVideo}, sender.sent[1])
	assert.Equal(t, sentFile{"scan.tif2", media.KindDocument}, sender.sent[2])

	// No scratch file survives its iteration.
	assert.Empty(t, scratchEntries(t, p))

	// Download and upload progress lines for each record.
	require.Len(t, sink.updates, 6)
	assert.Contains(t, sink.updates[0], "Downloading (1/3): beach.jpg")
	assert.Contains(t, sink.updates[0], "1.5 KB")
	assert.Contains(t, sink.updates[1], "Uploading (1/3): beach.jpg")
	assert.Contains(t, sink.updates[4], "Downloading (3/3)")
}

func TestRunFirstDownloadFails(t *testing.T) {
	sender := &fakeSender{}
	p := newTestPipeline(t, sender)

	records := []mega.FileRecord{
		named("1", "broken.jpg", 100),
		named("2", "fine.mp4", 200),
	}

	summary := p.Run(context.Background(), &fakeDownloader{failIDs: map[string]bool{"1": true}}, records, &recordingSink{})

	assert.Equal(t, Summary{Uploaded: 1, Failed: 1, Total: 2}, summary)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "fine.mp4", sender.sent[0].name)
	assert.Empty(t, scratchEntries(t, p))
}

func TestRunSendFailureStillCleansUp(t *testing.T) {
	sender := &fakeSender{failNames: map[string]bool{"bad.png": true}}
	p := newTestPipeline(t, sender)

	records := []mega.FileRecord{
		named("1", "bad.png", 10),
		named("2", "good.png", 10),
	}

	summary := p.Run(context.Background(), &fakeDownloader{}, records, &recordingSink{})

	assert.Equal(t, Summary{Uploaded: 1, Failed: 1, Total: 2}, summary)
	assert.Empty(t, scratchEntries(t, p), "scratch file must be removed even when the send fails")
}

func TestRunCountsAlwaysReconcile(t *testing.T) {
	sender := &fakeSender{failNames: map[string]bool{"b.png": true, "d.png": true}}
	p := newTestPipeline(t, sender)

	records := []mega.FileRecord{
		named("a", "a.png", 1),
		named("b", "b.png", 1),
		named("c", "c.png", 1),
		named("d", "d.png", 1),
		named("e", "e.png", 1),
	}
	dl := &fakeDownloader{failIDs: map[string]bool{"c": true}}

	summary := p.Run(context.Background(), dl, records, &recordingSink{})

	assert.Equal(t, len(records), summary.Total)
	assert.Equal(t, summary.Total, summary.Uploaded+summary.Failed)
	assert.Equal(t, 2, summary.Uploaded)
	assert.Equal(t, 3, summary.Failed)
}

func TestRunSequentialOrder(t *testing.T) {
	sender := &fakeSender{}
	p := newTestPipeline(t, sender)

	records := []mega.FileRecord{
		named("1", "first.jpg", 1),
		named("2", "second.jpg", 1),
		named("3", "third.jpg", 1),
	}

	p.Run(context.Background(), &fakeDownloader{}, records, &recordingSink{})

	require.Len(t, sender.sent, 3)
	assert.Equal(t, "first.jpg", sender.sent[0].name)
	assert.Equal(t, "second.jpg", sender.sent[1].name)
	assert.Equal(t, "third.jpg", sender.sent[2].name)
}

func TestRunBoundedConcurrency(t *testing.T) {
	sender := &fakeSender{}
	p, err := NewPipeline(sender, 4)
	require.NoError(t, err)
	t.Cleanup(p.Cleanup)

	var records []mega.FileRecord
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg"} {
		records = append(records, named(name, name, 1))
	}
	dl := &fakeDownloader{failIDs: map[string]bool{"c.jpg": true}}

	summary := p.Run(context.Background(), dl, records, &recordingSink{})

	assert.Equal(t, 6, summary.Total)
	assert.Equal(t, summary.Total, summary.Uploaded+summary.Failed)
	assert.Equal(t, 1, summary.Failed)
	assert.Empty(t, scratchEntries(t, p))
}

func TestRunDuplicateNamesConcurrent(t *testing.T) {
	sender := &fakeSender{}
	p, err := NewPipeline(sender, 4)
	require.NoError(t, err)
	t.Cleanup(p.Cleanup)

	// Same display name on every record; each transfer must stage in
	// isolation so one cleanup cannot eat another's file.
	records := []mega.FileRecord{
		named("1", "holiday.jpg", 1),
		named("2", "holiday.jpg", 1),
		named("3", "holiday.jpg", 1),
		named("4", "holiday.jpg", 1),
	}

	summary := p.Run(context.Background(), &fakeDownloader{}, records, &recordingSink{})

	assert.Equal(t, Summary{Uploaded: 4, Failed: 0, Total: 4}, summary)
	assert.Empty(t, scratchEntries(t, p))
}

func TestRunEmptySet(t *testing.T) {
	p := newTestPipeline(t, &fakeSender{})
	sink := &recordingSink{}

	summary := p.Run(context.Background(), &fakeDownloader{}, nil, sink)

	assert.Equal(t, Summary{}, summary)
	assert.Empty(t, sink.updates)
}

func TestRunRecordWithoutName(t *testing.T) {
	sender := &fakeSender{}
	p := newTestPipeline(t, sender)

	records := []mega.FileRecord{{ID: "nameless", Size: 5}}
	summary := p.Run(context.Background(), &fakeDownloader{}, records, &recordingSink{})

	assert.Equal(t, Summary{Uploaded: 1, Total: 1}, summary)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "nameless", sender.sent[0].name)
	assert.Equal(t, media.KindDocument, sender.sent[0].kind)
}
