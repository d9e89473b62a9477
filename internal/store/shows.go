package store

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"channel-radio/internal/models"
	"channel-radio/internal/schedule"
)

var (
	// ErrInvalidInterval is returned when a show's end does not come
	// strictly after its start.
	ErrInvalidInterval = errors.New("show end must be after start")

	// ErrNotFound is returned for operations on a missing show.
	ErrNotFound = errors.New("show not found")
)

// ShowStore is the persistence boundary of the scheduler: create, partial
// update, delete, plus the live "upcoming shows" feed the calendar renders
// from. Concurrent sessions are last-write-wins; the store does not try to
// reconcile them.
type ShowStore struct {
	db    *gorm.DB
	clock schedule.Clock
}

func NewShowStore(db *gorm.DB, clock schedule.Clock) *ShowStore {
	return &ShowStore{db: db, clock: clock}
}

// Upcoming returns every show whose end instant is still in the future,
// lineup slots preloaded in start order.
func (s *ShowStore) Upcoming(ctx context.Context) ([]models.Show, error) {
	var shows []models.Show
	err := s.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_time asc")
		}).
		Where("end_time > ?", s.clock.Now()).
		Order("start_time asc").
		Find(&shows).Error
	return shows, err
}

// InWindow returns every show intersecting [from, to), lineups preloaded.
// This is what a rendered calendar week queries.
func (s *ShowStore) InWindow(ctx context.Context, from, to time.Time) ([]models.Show, error) {
	var shows []models.Show
	err := s.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_time asc")
		}).
		Where("end_time > ? AND start_time < ?", from, to).
		Order("start_time asc").
		Find(&shows).Error
	return shows, err
}

// Get fetches one show with its lineup.
func (s *ShowStore) Get(ctx context.Context, id uint) (*models.Show, error) {
	var show models.Show
	err := s.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_time asc")
		}).
		First(&show, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &show, nil
}

// Create validates and persists a new show. Venue lineups are retiled
// against the show bounds before they ever hit the database.
func (s *ShowStore) Create(ctx context.Context, show *models.Show) error {
	if !show.EndTime.After(show.StartTime) {
		return ErrInvalidInterval
	}
	if show.Kind == "" {
		show.Kind = models.KindVenue
	}
	if show.Status == "" {
		show.Status = models.StatusScheduled
	}
	if show.Kind == models.KindVenue && len(show.Slots) > 0 {
		show.Slots = schedule.Retile(show.Slots, show.StartTime, show.EndTime)
	}
	return s.db.WithContext(ctx).Create(show).Error
}

// ShowPatch is a partial update: nil fields are left untouched. A resize
// sends just one of StartTime/EndTime; a modal save sends the whole form
// including the edited lineup.
type ShowPatch struct {
	Name      *string
	DJName    *string
	Kind      *models.BroadcastKind
	Status    *models.ShowStatus
	StartTime *time.Time
	EndTime   *time.Time
	Slots     *[]models.DJSlot
}

// Update applies a patch to one show. Whenever the bounds or the lineup
// change, the lineup is retiled so the stored slots always tile the show.
func (s *ShowStore) Update(ctx context.Context, id uint, patch ShowPatch) (*models.Show, error) {
	show, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		show.Name = *patch.Name
	}
	if patch.DJName != nil {
		show.DJName = *patch.DJName
	}
	if patch.Kind != nil {
		show.Kind = *patch.Kind
	}
	if patch.Status != nil {
		show.Status = *patch.Status
	}
	if patch.StartTime != nil {
		show.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		show.EndTime = *patch.EndTime
	}
	if !show.EndTime.After(show.StartTime) {
		return nil, ErrInvalidInterval
	}

	retile := patch.StartTime != nil || patch.EndTime != nil
	if patch.Slots != nil {
		show.Slots = *patch.Slots
		retile = true
	}
	if retile && show.Kind == models.KindVenue && len(show.Slots) > 0 {
		show.Slots = schedule.Retile(show.Slots, show.StartTime, show.EndTime)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if retile {
			// Replace the lineup wholesale; retiling renumbers everything.
			if err := tx.Where("show_id = ?", show.ID).Delete(&models.DJSlot{}).Error; err != nil {
				return err
			}
			for i := range show.Slots {
				show.Slots[i].ID = 0
				show.Slots[i].ShowID = show.ID
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(show).Error
	})
	if err != nil {
		return nil, err
	}
	return show, nil
}

// SetRecording stamps published-recording metadata onto a show.
func (s *ShowStore) SetRecording(ctx context.Context, id uint, key string, durationSec float64, publishedAt time.Time) error {
	result := s.db.WithContext(ctx).Model(&models.Show{}).Where("id = ?", id).Updates(map[string]any{
		"recording_key":      key,
		"recording_duration": durationSec,
		"published_at":       publishedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a show (soft delete, lineup cascades).
func (s *ShowStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Show{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return s.db.WithContext(ctx).Where("show_id = ?", id).Delete(&models.DJSlot{}).Error
}

// Watch polls the upcoming list and delivers it on the returned channel
// until the context is cancelled. The calendar treats this as its change
// notification feed; a failed poll is logged and skipped, never retried
// out of band.
func (s *ShowStore) Watch(ctx context.Context, interval time.Duration) <-chan []models.Show {
	ch := make(chan []models.Show, 1)

	go func() {
		defer close(ch)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			shows, err := s.Upcoming(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("⚠️ Watch: upcoming query failed: %v", err)
			} else {
				select {
				case ch <- shows:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}
