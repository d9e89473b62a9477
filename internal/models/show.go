package models

import (
	"time"

	"gorm.io/gorm"
)

// BroadcastKind tells where a show is produced.
// "venue" shows are broadcast from the studio floor and carry a DJ lineup,
// "remote" shows are a single DJ streaming from elsewhere.
type BroadcastKind string

const (
	KindVenue  BroadcastKind = "venue"
	KindRemote BroadcastKind = "remote"
)

// ShowStatus is the lifecycle of a broadcast slot.
type ShowStatus string

const (
	StatusScheduled ShowStatus = "scheduled"
	StatusLive      ShowStatus = "live"
	StatusPaused    ShowStatus = "paused"
	StatusCompleted ShowStatus = "completed"
)

// Show represents one broadcast slot on the station calendar.
// EndTime may fall on a later calendar date than StartTime (overnight show).
type Show struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name      string        `json:"name" gorm:"not null"`
	Kind      BroadcastKind `json:"kind" gorm:"type:varchar(20);not null;default:'venue'"`
	Status    ShowStatus    `json:"status" gorm:"type:varchar(20);not null;default:'scheduled'"`
	StartTime time.Time     `json:"start_time" gorm:"index;not null"`
	EndTime   time.Time     `json:"end_time" gorm:"index;not null"`

	// Remote shows carry a single DJ name; venue shows carry a lineup instead.
	DJName string `json:"dj_name"`

	// Lineup for venue shows, ordered by start time. The retiler guarantees
	// the slots tile [StartTime, EndTime] with no gaps and no overlaps.
	Slots []DJSlot `json:"slots" gorm:"foreignKey:ShowID;constraint:OnDelete:CASCADE"`

	// Recording metadata, set once the archive publisher has run.
	RecordingKey      string     `json:"recording_key"`
	RecordingDuration float64    `json:"recording_duration"` // seconds
	PublishedAt       *time.Time `json:"published_at"`
}

// Overnight reports whether the show ends on a later calendar date than it
// starts, in the given location.
func (s *Show) Overnight(loc *time.Location) bool {
	start := s.StartTime.In(loc)
	end := s.EndTime.In(loc)
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	return sy != ey || sm != em || sd != ed
}

// DJSlot is one performer's interval inside a venue show.
// Filler slots are synthesized by the retiler to plug lineup gaps and carry
// no DJ name.
type DJSlot struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ShowID uint `json:"show_id" gorm:"index"`

	// UID survives retiling; synthesized fillers get a fresh UUID.
	UID       string    `json:"uid" gorm:"type:varchar(36);index"`
	DJName    string    `json:"dj_name"`
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`
	SortOrder int       `json:"sort_order"`
	Filler    bool      `json:"filler" gorm:"default:false"`
}

// Duration returns the slot length.
func (d *DJSlot) Duration() time.Duration {
	return d.EndTime.Sub(d.StartTime)
}
