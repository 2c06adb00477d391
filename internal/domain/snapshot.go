package domain

import (
	"slices"
	"strconv"
)

// SnapshotScope distinguishes account snapshots from global ones.
type SnapshotScope string

const (
	ScopeAccount SnapshotScope = "account"
	ScopeGlobal  SnapshotScope = "global"
)

// SnapshotOwner is a ledger record that keeps a daily snapshot series.
type SnapshotOwner interface {
	SnapshotScope() SnapshotScope
	OwnerID() string
	Totals() Counters
	Links() *DailyLinks
}

// DailyLinks are the back-references from an owner to its two most recent
// snapshots. Nil means unset.
type DailyLinks struct {
	CurrentDailyID  *string
	PreviousDailyID *string
}

// Advance makes id the current snapshot, moving the old current one to previous.
func (l *DailyLinks) Advance(id string) {
	if l.CurrentDailyID != nil {
		prev := *l.CurrentDailyID
		l.PreviousDailyID = &prev
	}
	l.CurrentDailyID = &id
}

// DailySnapshot is the state of one owner at the last touch of one day.
type DailySnapshot struct {
	ID        string
	Scope     SnapshotScope
	OwnerID   string
	DayNumber int64
	DayStart  int64
	DayEnd    int64

	Counters Counters
	// Deltas are Counters minus the previous snapshot's Counters,
	// or Counters itself when there is no previous snapshot.
	Deltas Counters

	// Governor and Collectors are only filled for global snapshots.
	Governor   string
	Collectors []string
}

// CompoundID joins two identifiers the way every composite key is built.
func CompoundID(a, b string) string {
	return a + "-" + b
}

// SnapshotID is the identity of ownerID's snapshot for dayNumber.
func SnapshotID(ownerID string, dayNumber int64) string {
	return CompoundID(ownerID, strconv.FormatInt(dayNumber, 10))
}

// NewDailySnapshot creates an empty snapshot for owner on day.
func NewDailySnapshot(owner SnapshotOwner, day Day) *DailySnapshot {
	return &DailySnapshot{
		ID:        SnapshotID(owner.OwnerID(), day.Number),
		Scope:     owner.SnapshotScope(),
		OwnerID:   owner.OwnerID(),
		DayNumber: day.Number,
		DayStart:  day.Start,
		DayEnd:    day.End,
	}
}

// Capture overwrites the counter copies with live values and recomputes the
// deltas against previous (nil when the owner has no earlier snapshot).
func (s *DailySnapshot) Capture(live Counters, previous *DailySnapshot) {
	s.Counters = live
	if previous == nil {
		s.Deltas = live
		return
	}
	s.Deltas = live.Sub(previous.Counters)
}

// CaptureAdmin copies the administrative state of the global ledger.
func (s *DailySnapshot) CaptureAdmin(g *GlobalLedger) {
	s.Governor = g.Governor
	s.Collectors = slices.Clone(g.Collectors)
}
