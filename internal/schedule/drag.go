package schedule

import (
	"math"
	"time"
)

// The calendar's pointer interactions are modeled as an explicit state
// machine: a Dragger consumes pointer events and, on commit, emits a
// create/update command for the persistence layer. Nothing in here touches
// a UI framework or the store; illegal combinations (creating while
// resizing) are unrepresentable because the mode is a single field.

// GridMetrics describes the rendered hour grid of one day column.
type GridMetrics struct {
	CellHeight float64 // pixels per one-hour row
}

// HourAt converts a pixel offset from the top of a day column into a
// fractional hour: integer grid row plus sub-cell offset.
func (g GridMetrics) HourAt(y float64) float64 {
	if g.CellHeight <= 0 {
		return 0
	}
	return y / g.CellHeight
}

// SnapHour rounds a fractional hour to the nearest half hour.
func SnapHour(h float64) float64 {
	return math.Round(h*2) / 2
}

// DragMode enumerates the interaction states.
type DragMode int

const (
	ModeIdle DragMode = iota
	ModeCreate
	ModeResize
)

// ResizeEdge identifies which boundary of a segment is being dragged.
type ResizeEdge int

const (
	EdgeTop    ResizeEdge = iota // moves the show's start
	EdgeBottom                   // moves the show's end
)

// Event is a pointer event fed to the Dragger.
type Event interface{ dragEvent() }

// CellDown starts a drag-create on an empty hour cell.
type CellDown struct {
	Day  int
	Hour int
}

// HandleDown starts a resize on a segment's edge handle.
type HandleDown struct {
	Seg  Segment
	Edge ResizeEdge
}

// PointerMove reports the pointer at a pixel offset within a day column.
type PointerMove struct {
	Day int
	Y   float64
}

// PointerUp commits or discards the drag in progress.
type PointerUp struct{}

// PointerLeave is treated exactly like PointerUp so a drag can never get
// stuck when the pointer exits the grid.
type PointerLeave struct{}

func (CellDown) dragEvent()     {}
func (HandleDown) dragEvent()   {}
func (PointerMove) dragEvent()  {}
func (PointerUp) dragEvent()    {}
func (PointerLeave) dragEvent() {}

// Command is the side effect a committed drag asks the caller to persist.
type Command interface{ dragCommand() }

// CreateCommand requests a new show spanning [Start, End).
type CreateCommand struct {
	Start time.Time
	End   time.Time
}

// UpdateCommand requests moving one boundary of an existing show.
// Exactly one of Start/End is set.
type UpdateCommand struct {
	ShowID uint
	Start  *time.Time
	End    *time.Time
}

func (CreateCommand) dragCommand() {}
func (UpdateCommand) dragCommand() {}

// DragState is the full interaction state. Zero value is idle.
type DragState struct {
	Mode DragMode
	Day  int

	// drag-create
	StartHour float64
	EndHour   float64 // stays == StartHour until the pointer actually moves

	// drag-resize
	ShowID    uint
	Edge      ResizeEdge
	Origin    float64 // boundary hour at mouse-down
	Hour      float64 // last valid snapped boundary hour
	OtherHour float64 // the boundary not being moved, for the 30min floor
}

// Dragger reduces pointer events into drag state and emitted commands.
type Dragger struct {
	Grid  GridMetrics
	Week  Week
	state DragState
}

// NewDragger builds a reducer over the given grid and visible week.
func NewDragger(grid GridMetrics, week Week) *Dragger {
	return &Dragger{Grid: grid, Week: week}
}

// State exposes the current interaction state for rendering the tentative
// interval or boundary.
func (d *Dragger) State() DragState {
	return d.state
}

// Apply advances the state machine. A non-nil Command is returned only on
// a committed mouse-up (or mouse-leave) whose result differs from where
// the drag started; everything else is discarded silently.
func (d *Dragger) Apply(ev Event) Command {
	switch e := ev.(type) {
	case CellDown:
		if d.state.Mode != ModeIdle {
			return nil
		}
		d.state = DragState{
			Mode:      ModeCreate,
			Day:       e.Day,
			StartHour: float64(e.Hour),
			EndHour:   float64(e.Hour), // visualized as one cell, committed only after a move
		}
	case HandleDown:
		if d.state.Mode != ModeIdle {
			return nil
		}
		origin := e.Seg.EndHour
		other := e.Seg.StartHour
		if e.Edge == EdgeTop {
			origin = e.Seg.StartHour
			other = e.Seg.EndHour
		}
		d.state = DragState{
			Mode:      ModeResize,
			Day:       e.Seg.Day,
			ShowID:    e.Seg.ShowID,
			Edge:      e.Edge,
			Origin:    origin,
			Hour:      origin,
			OtherHour: other,
		}
	case PointerMove:
		d.move(e)
	case PointerUp:
		return d.commit()
	case PointerLeave:
		return d.commit()
	}
	return nil
}

func (d *Dragger) move(e PointerMove) {
	switch d.state.Mode {
	case ModeCreate:
		// Cross-day drags are not supported; stay in the anchor column.
		if e.Day != d.state.Day {
			return
		}
		cell := math.Floor(d.Grid.HourAt(e.Y))
		if cell >= d.state.StartHour && cell < 24 {
			d.state.EndHour = cell + 1
		}
	case ModeResize:
		h := SnapHour(d.Grid.HourAt(e.Y))
		if h < 0 {
			h = 0
		}
		if h > 24 {
			h = 24
		}
		// The moving edge may not cross the other boundary minus 30 minutes.
		// An out-of-range move keeps the last valid value, so an invalid
		// resize is never representable mid-drag.
		if d.state.Edge == EdgeTop && h < d.state.OtherHour-0.5 {
			d.state.Hour = h
		}
		if d.state.Edge == EdgeBottom && h > d.state.OtherHour+0.5 {
			d.state.Hour = h
		}
	}
}

func (d *Dragger) commit() Command {
	st := d.state
	d.state = DragState{}

	switch st.Mode {
	case ModeCreate:
		if st.EndHour <= st.StartHour {
			// A single-cell click with no movement, not an error.
			return nil
		}
		return CreateCommand{
			Start: d.Week.DayAt(st.Day, st.StartHour),
			End:   d.Week.DayAt(st.Day, st.EndHour),
		}
	case ModeResize:
		if st.Hour == st.Origin {
			return nil
		}
		at := d.Week.DayAt(st.Day, st.Hour)
		cmd := UpdateCommand{ShowID: st.ShowID}
		if st.Edge == EdgeTop {
			cmd.Start = &at
		} else {
			cmd.End = &at
		}
		return cmd
	}
	return nil
}

// CanResize reports whether a segment should render a resize handle on the
// given edge: only the first-day segment exposes a top handle, only the
// last-day segment a bottom one, and only while the show has not yet ended
// and the viewer may update it.
func CanResize(seg Segment, edge ResizeEdge, showEnd time.Time, clock Clock, canUpdate bool) bool {
	if !canUpdate || !showEnd.After(clock.Now()) {
		return false
	}
	if edge == EdgeTop {
		return seg.First
	}
	return seg.Last
}
