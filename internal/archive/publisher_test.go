package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"channel-radio/internal/models"
	"channel-radio/internal/schedule"
	"channel-radio/internal/storage"
	"channel-radio/internal/store"
)

var testNow = time.Date(2026, 3, 8, 6, 0, 0, 0, time.UTC)

type publishEnv struct {
	shows     *store.ShowStore
	storage   *storage.Client
	publisher *Publisher
	root      string
}

// Builds a publisher over an in-memory DB and a local filesystem provider
// with real drop/archive "buckets" under a temp dir.
func setupPublisher(t *testing.T) *publishEnv {
	t.Helper()

	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test db: %v", err)
	}
	if err := d.AutoMigrate(&models.Show{}, &models.DJSlot{}); err != nil {
		t.Fatalf("Migration failed: %v", err)
	}

	root := t.TempDir()
	shows := store.NewShowStore(d, schedule.MockClock{MockTime: testNow})
	client := storage.NewWithBackend(storage.NewLocalProvider(root), "drop", "archive")

	return &publishEnv{
		shows:     shows,
		storage:   client,
		publisher: NewPublisher(shows, client, schedule.MockClock{MockTime: testNow}, t.TempDir()),
		root:      root,
	}
}

func (e *publishEnv) dropFile(t *testing.T, key string, content []byte) {
	t.Helper()
	path := filepath.Join(e.root, "drop", key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create drop dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write drop file: %v", err)
	}
}

func (e *publishEnv) createShow(t *testing.T, name string, status models.ShowStatus) *models.Show {
	t.Helper()
	show := models.Show{
		Name:      name,
		Kind:      models.KindRemote,
		Status:    status,
		StartTime: time.Date(2026, 3, 7, 22, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 8, 2, 0, 0, 0, time.UTC),
	}
	if err := e.shows.Create(context.Background(), &show); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return &show
}

func TestPublishShow(t *testing.T) {
	env := setupPublisher(t)
	ctx := context.Background()

	show := env.createShow(t, "Night Shift", models.StatusCompleted)
	dropKey := "show-1-raw.mp3"
	// Not a real MP3; the tag reader fails and the publisher falls back to
	// the show name, which is what we want to assert anyway.
	env.dropFile(t, dropKey, []byte("fake audio bytes"))

	got, err := env.publisher.PublishShow(ctx, show.ID, dropKey)
	if err != nil {
		t.Fatalf("PublishShow failed: %v", err)
	}

	wantKey := "2026/Night_Shift-1.mp3"
	if got.RecordingKey != wantKey {
		t.Errorf("RecordingKey = %q, want %q", got.RecordingKey, wantKey)
	}
	if got.RecordingDuration != 4*3600 {
		t.Errorf("RecordingDuration = %v, want %v", got.RecordingDuration, 4*3600)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(testNow) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, testNow)
	}

	// The recording landed in the archive with its content intact.
	obj, err := env.storage.DownloadArchiveFile(wantKey)
	if err != nil {
		t.Fatalf("Archive file missing: %v", err)
	}
	obj.Body.Close()

	// The drop area is clean.
	if _, err := os.Stat(filepath.Join(env.root, "drop", dropKey)); !os.IsNotExist(err) {
		t.Errorf("Drop file still present after publish")
	}
}

func TestPublishShow_NotCompleted(t *testing.T) {
	env := setupPublisher(t)

	show := env.createShow(t, "Still Running", models.StatusLive)
	env.dropFile(t, "show-1.mp3", []byte("fake"))

	_, err := env.publisher.PublishShow(context.Background(), show.ID, "show-1.mp3")
	if !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("Expected ErrNotCompleted, got %v", err)
	}

	// The recording stays queued for when the show finishes.
	keys, err := env.storage.ListDropFiles()
	if err != nil {
		t.Fatalf("ListDropFiles failed: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("Drop file was consumed for an unfinished show: %v", keys)
	}
}

func TestPublishShow_MissingShow(t *testing.T) {
	env := setupPublisher(t)

	_, err := env.publisher.PublishShow(context.Background(), 42, "show-42.mp3")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestArchiveKey(t *testing.T) {
	show := &models.Show{
		ID:        7,
		StartTime: time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		want string
	}{
		{"Friday Fish Fry!", "2025/Friday_Fish_Fry-7.mp3"},
		{"", "2025/untitled-7.mp3"},
	}
	for _, tc := range tests {
		if got := ArchiveKey(show, tc.name); got != tc.want {
			t.Errorf("ArchiveKey(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestParseDropKey(t *testing.T) {
	tests := []struct {
		key    string
		wantID uint
		wantOK bool
	}{
		{"show-12.mp3", 12, true},
		{"show-12-second-half.mp3", 12, true},
		{"show-12_live.mp3", 12, true},
		{"show-.mp3", 0, false},
		{"jingles.mp3", 0, false},
		{"show-12.wav", 0, false},
		{"show-12.mp3.bak", 0, false},
	}
	for _, tc := range tests {
		id, ok := parseDropKey(tc.key)
		if id != tc.wantID || ok != tc.wantOK {
			t.Errorf("parseDropKey(%q) = (%d, %v), want (%d, %v)",
				tc.key, id, ok, tc.wantID, tc.wantOK)
		}
	}
}

func TestWorkerProcessQueue(t *testing.T) {
	env := setupPublisher(t)
	ctx := context.Background()

	done := env.createShow(t, "Done Show", models.StatusCompleted)
	live := env.createShow(t, "Live Show", models.StatusLive)

	env.dropFile(t, "show-1.mp3", []byte("recording one"))
	env.dropFile(t, "show-2.mp3", []byte("recording two"))
	env.dropFile(t, "notes.txt", []byte("not audio"))

	w := NewWorker(env.publisher, env.shows, env.storage, time.Minute)
	w.processQueue(ctx)

	got, err := env.shows.Get(ctx, done.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.PublishedAt == nil {
		t.Error("Completed show was not published")
	}

	got, err = env.shows.Get(ctx, live.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.PublishedAt != nil {
		t.Error("Live show was published before completing")
	}
}
