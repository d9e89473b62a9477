package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"channel-radio/internal/models"
)

// SnapStep is the grid resolution of every slot boundary.
const SnapStep = 30 * time.Minute

// Snap rounds an instant to the nearest half-hour mark. Rounding up past
// :60 rolls into the next hour (and, if needed, the next day).
func Snap(t time.Time) time.Time {
	return t.Round(SnapStep)
}

// ClampToParent forces every child slot inside the parent show's bounds.
// Each boundary is clamped independently, a collapsed slot is re-opened to
// at most 30 minutes, and every boundary is snapped to the half-hour grid.
// Idempotent for half-hour-aligned parent bounds.
func ClampToParent(slots []models.DJSlot, parentStart, parentEnd time.Time) []models.DJSlot {
	out := make([]models.DJSlot, len(slots))
	copy(out, slots)

	for i := range out {
		s := &out[i]
		s.StartTime = clampTime(s.StartTime, parentStart, parentEnd)
		s.EndTime = clampTime(s.EndTime, parentStart, parentEnd)

		// User edits may invert a slot; give it back a positive duration.
		if !s.EndTime.After(s.StartTime) {
			s.EndTime = minTime(s.StartTime.Add(SnapStep), parentEnd)
		}

		s.StartTime = clampTime(Snap(s.StartTime), parentStart, parentEnd)
		s.EndTime = clampTime(Snap(s.EndTime), parentStart, parentEnd)

		// Snapping can collapse a sub-30min slot onto one mark.
		if !s.EndTime.After(s.StartTime) {
			s.EndTime = minTime(s.StartTime.Add(SnapStep), parentEnd)
		}
	}
	return out
}

// EnsureFullCoverage makes the child list exactly tile the parent interval:
// children are sorted by start, overlaps are cut against a forward cursor,
// and every gap (including leading and trailing ones) is plugged with an
// unnamed filler slot. The result has no gaps and no overlaps regardless of
// how disordered the input was.
func EnsureFullCoverage(slots []models.DJSlot, parentStart, parentEnd time.Time) []models.DJSlot {
	in := make([]models.DJSlot, len(slots))
	copy(in, slots)
	sort.SliceStable(in, func(i, j int) bool {
		return in[i].StartTime.Before(in[j].StartTime)
	})

	var out []models.DJSlot
	cursor := parentStart

	for _, s := range in {
		if !s.EndTime.After(cursor) || !s.StartTime.Before(parentEnd) {
			// Fully absorbed by an earlier sibling, or outside the parent.
			continue
		}
		if s.StartTime.After(cursor) {
			out = append(out, fillerSlot(s.ShowID, cursor, s.StartTime))
		}
		if s.StartTime.Before(cursor) {
			s.StartTime = cursor
		}
		if s.EndTime.After(parentEnd) {
			s.EndTime = parentEnd
		}
		out = append(out, s)
		cursor = s.EndTime
	}

	if cursor.Before(parentEnd) {
		var showID uint
		if len(in) > 0 {
			showID = in[0].ShowID
		}
		out = append(out, fillerSlot(showID, cursor, parentEnd))
	}

	for i := range out {
		out[i].SortOrder = i
	}
	return out
}

// Retile is the single normalization entry point: clamp, then re-tile.
// Invoked after every lineup mutation instead of hand-maintaining adjacency
// at each edit site.
func Retile(slots []models.DJSlot, parentStart, parentEnd time.Time) []models.DJSlot {
	return EnsureFullCoverage(ClampToParent(slots, parentStart, parentEnd), parentStart, parentEnd)
}

// AppendSlot adds a new lineup slot for a DJ, starting where the last slot
// ends (or at the parent start for an empty lineup) and running to the
// parent end.
func AppendSlot(slots []models.DJSlot, parentStart, parentEnd time.Time, djName string) []models.DJSlot {
	start := parentStart
	if n := len(slots); n > 0 {
		start = slots[n-1].EndTime
	}
	out := append(append([]models.DJSlot{}, slots...), models.DJSlot{
		UID:       uuid.NewString(),
		DJName:    djName,
		StartTime: start,
		EndTime:   parentEnd,
		SortOrder: len(slots),
	})
	return Retile(out, parentStart, parentEnd)
}

// RemoveSlot drops the slot with the given UID and lets a neighbor absorb
// its interval, the previous sibling when there is one, otherwise the next.
func RemoveSlot(slots []models.DJSlot, uid string, parentStart, parentEnd time.Time) []models.DJSlot {
	idx := slotIndex(slots, uid)
	if idx < 0 {
		return slots
	}
	out := make([]models.DJSlot, 0, len(slots)-1)
	out = append(out, slots[:idx]...)
	out = append(out, slots[idx+1:]...)

	if idx > 0 {
		out[idx-1].EndTime = slots[idx].EndTime
	} else if len(out) > 0 {
		out[0].StartTime = slots[idx].StartTime
	}
	return Retile(out, parentStart, parentEnd)
}

// SetSlotStart moves one slot's start boundary and force-syncs the previous
// sibling's end to the same instant so no gap is ever visible.
func SetSlotStart(slots []models.DJSlot, uid string, t time.Time, parentStart, parentEnd time.Time) []models.DJSlot {
	idx := slotIndex(slots, uid)
	if idx < 0 {
		return slots
	}
	out := make([]models.DJSlot, len(slots))
	copy(out, slots)

	t = Snap(t)
	out[idx].StartTime = t
	if idx > 0 {
		out[idx-1].EndTime = t
	}
	return Retile(out, parentStart, parentEnd)
}

// SetSlotEnd moves one slot's end boundary and force-syncs the next
// sibling's start to the same instant.
func SetSlotEnd(slots []models.DJSlot, uid string, t time.Time, parentStart, parentEnd time.Time) []models.DJSlot {
	idx := slotIndex(slots, uid)
	if idx < 0 {
		return slots
	}
	out := make([]models.DJSlot, len(slots))
	copy(out, slots)

	t = Snap(t)
	out[idx].EndTime = t
	if idx < len(out)-1 {
		out[idx+1].StartTime = t
	}
	return Retile(out, parentStart, parentEnd)
}

func fillerSlot(showID uint, start, end time.Time) models.DJSlot {
	return models.DJSlot{
		ShowID:    showID,
		UID:       uuid.NewString(),
		StartTime: start,
		EndTime:   end,
		Filler:    true,
	}
}

func slotIndex(slots []models.DJSlot, uid string) int {
	for i := range slots {
		if slots[i].UID == uid {
			return i
		}
	}
	return -1
}

func clampTime(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
