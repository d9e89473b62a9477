package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"channel-radio/internal/models"
	"channel-radio/internal/schedule"
)

var testNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

// Helper to create a disposable in-memory DB. ":memory:" gives every call
// a brand new, empty database.
func setupShowStore(t *testing.T) *ShowStore {
	t.Helper()
	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test db: %v", err)
	}
	if err := d.AutoMigrate(&models.Show{}, &models.DJSlot{}); err != nil {
		t.Fatalf("Migration failed: %v", err)
	}
	return NewShowStore(d, schedule.MockClock{MockTime: testNow})
}

func TestCreate_Validation(t *testing.T) {
	s := setupShowStore(t)
	ctx := context.Background()

	err := s.Create(ctx, &models.Show{
		Name:      "Backwards",
		StartTime: testNow.Add(2 * time.Hour),
		EndTime:   testNow.Add(1 * time.Hour),
	})
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("Expected ErrInvalidInterval, got %v", err)
	}
}

func TestCreate_RetilesVenueLineup(t *testing.T) {
	s := setupShowStore(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 6, 14, 0, 0, 0, time.UTC)

	show := models.Show{
		Name:      "Friday Lineup",
		Kind:      models.KindVenue,
		StartTime: start,
		EndTime:   end,
		Slots: []models.DJSlot{
			{UID: "a", DJName: "DJ-A",
				StartTime: time.Date(2026, 3, 6, 11, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2026, 3, 6, 11, 30, 0, 0, time.UTC)},
		},
	}
	if err := s.Create(ctx, &show); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := s.Get(ctx, show.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	// [filler, DJ-A, filler] tiling the parent
	if len(got.Slots) != 3 {
		t.Fatalf("Expected 3 slots after retile, got %d", len(got.Slots))
	}
	if !got.Slots[0].Filler || got.Slots[1].DJName != "DJ-A" || !got.Slots[2].Filler {
		t.Errorf("Lineup not retiled: %+v", got.Slots)
	}
	if !got.Slots[0].StartTime.Equal(start) || !got.Slots[2].EndTime.Equal(end) {
		t.Errorf("Lineup does not span the show: %v - %v",
			got.Slots[0].StartTime, got.Slots[2].EndTime)
	}
}

func TestUpdate_PartialResize(t *testing.T) {
	s := setupShowStore(t)
	ctx := context.Background()

	show := models.Show{
		Name:      "Resizable",
		DJName:    "DJ-R",
		Kind:      models.KindRemote,
		StartTime: time.Date(2026, 3, 6, 19, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 6, 22, 0, 0, 0, time.UTC),
	}
	if err := s.Create(ctx, &show); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A resize sends only the moved boundary.
	newEnd := time.Date(2026, 3, 6, 21, 0, 0, 0, time.UTC)
	got, err := s.Update(ctx, show.ID, ShowPatch{EndTime: &newEnd})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if !got.EndTime.Equal(newEnd) {
		t.Errorf("End not updated: %v", got.EndTime)
	}
	// Untouched fields survive.
	if got.Name != "Resizable" || got.DJName != "DJ-R" {
		t.Errorf("Partial update clobbered other fields: %+v", got)
	}
	if !got.StartTime.Equal(show.StartTime) {
		t.Errorf("Start moved during end resize: %v", got.StartTime)
	}
}

func TestUpdate_ResizeRetilesLineup(t *testing.T) {
	s := setupShowStore(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 6, 14, 0, 0, 0, time.UTC)

	show := models.Show{
		Name: "Shrinking", Kind: models.KindVenue,
		StartTime: start, EndTime: end,
		Slots: []models.DJSlot{
			{UID: "a", DJName: "DJ-A", StartTime: start, EndTime: time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)},
			{UID: "b", DJName: "DJ-B", StartTime: time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC), EndTime: end},
		},
	}
	if err := s.Create(ctx, &show); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Shrinking the show clamps and re-tiles the lineup inside the new bounds.
	newEnd := time.Date(2026, 3, 6, 12, 30, 0, 0, time.UTC)
	got, err := s.Update(ctx, show.ID, ShowPatch{EndTime: &newEnd})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(got.Slots) == 0 {
		t.Fatal("Lineup vanished on resize")
	}
	last := got.Slots[len(got.Slots)-1]
	if !last.EndTime.Equal(newEnd) {
		t.Errorf("Lineup not clamped to new end: %v", last.EndTime)
	}
	for i := 1; i < len(got.Slots); i++ {
		if !got.Slots[i].StartTime.Equal(got.Slots[i-1].EndTime) {
			t.Errorf("Lineup has a gap after retile: %+v", got.Slots)
		}
	}
}

func TestUpdate_NotFound(t *testing.T) {
	s := setupShowStore(t)

	_, err := s.Update(context.Background(), 9999, ShowPatch{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpcoming_FiltersEndedShows(t *testing.T) {
	s := setupShowStore(t)
	ctx := context.Background()

	past := models.Show{
		Name:      "Already Over",
		StartTime: testNow.Add(-4 * time.Hour),
		EndTime:   testNow.Add(-2 * time.Hour),
	}
	running := models.Show{
		Name:      "On Air Now",
		StartTime: testNow.Add(-1 * time.Hour),
		EndTime:   testNow.Add(1 * time.Hour),
	}
	future := models.Show{
		Name:      "Tonight",
		StartTime: testNow.Add(6 * time.Hour),
		EndTime:   testNow.Add(8 * time.Hour),
	}
	for _, show := range []*models.Show{&past, &running, &future} {
		if err := s.Create(ctx, show); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got, err := s.Upcoming(ctx)
	if err != nil {
		t.Fatalf("Upcoming failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 upcoming shows, got %d", len(got))
	}
	// Ordered by start: the running show first
	if got[0].Name != "On Air Now" || got[1].Name != "Tonight" {
		t.Errorf("Wrong shows or order: %q, %q", got[0].Name, got[1].Name)
	}
}

func TestInWindow(t *testing.T) {
	s := setupShowStore(t)
	ctx := context.Background()

	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	weekEnd := weekStart.AddDate(0, 0, 7)

	inside := models.Show{
		Name:      "This Week",
		StartTime: time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 4, 22, 0, 0, 0, time.UTC),
	}
	straddling := models.Show{
		// Sunday night into next Monday still belongs to this week's render.
		Name:      "Sunday Night",
		StartTime: time.Date(2026, 3, 8, 22, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 9, 2, 0, 0, 0, time.UTC),
	}
	nextWeek := models.Show{
		Name:      "Next Week",
		StartTime: time.Date(2026, 3, 11, 20, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 11, 22, 0, 0, 0, time.UTC),
	}
	for _, show := range []*models.Show{&inside, &straddling, &nextWeek} {
		if err := s.Create(ctx, show); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got, err := s.InWindow(ctx, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("InWindow failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 shows in window, got %d", len(got))
	}
}

func TestDelete(t *testing.T) {
	s := setupShowStore(t)
	ctx := context.Background()

	show := models.Show{
		Name:      "Doomed",
		StartTime: testNow.Add(time.Hour),
		EndTime:   testNow.Add(2 * time.Hour),
	}
	if err := s.Create(ctx, &show); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := s.Delete(ctx, show.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, show.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := s.Delete(ctx, show.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestSetRecording(t *testing.T) {
	s := setupShowStore(t)
	ctx := context.Background()

	show := models.Show{
		Name:      "Recorded",
		Status:    models.StatusCompleted,
		StartTime: testNow.Add(-3 * time.Hour),
		EndTime:   testNow.Add(-time.Hour),
	}
	if err := s.Create(ctx, &show); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	publishedAt := testNow
	if err := s.SetRecording(ctx, show.ID, "2026/Recorded-1.mp3", 7200, publishedAt); err != nil {
		t.Fatalf("SetRecording failed: %v", err)
	}

	got, err := s.Get(ctx, show.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.RecordingKey != "2026/Recorded-1.mp3" || got.RecordingDuration != 7200 {
		t.Errorf("Recording metadata not stamped: %+v", got)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(publishedAt) {
		t.Errorf("PublishedAt not stamped: %v", got.PublishedAt)
	}

	if err := s.SetRecording(ctx, 9999, "x.mp3", 1, publishedAt); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing show, got %v", err)
	}
}

func TestWatch_DeliversUpcoming(t *testing.T) {
	s := setupShowStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	show := models.Show{
		Name:      "Watched",
		StartTime: testNow.Add(time.Hour),
		EndTime:   testNow.Add(2 * time.Hour),
	}
	if err := s.Create(ctx, &show); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ch := s.Watch(ctx, 10*time.Millisecond)

	select {
	case shows := <-ch:
		if len(shows) != 1 || shows[0].Name != "Watched" {
			t.Errorf("Unexpected feed contents: %+v", shows)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch never delivered")
	}

	cancel()
	// The feed must close once the context is gone.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Watch channel never closed after cancel")
		}
	}
}
