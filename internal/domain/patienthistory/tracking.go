package patienthistory

import (
	"fmt"
	"sort"
)

// Lineage is every snapshot ever taken of one Tracking item, oldest first.
// Each snapshot is either current or superseded; at most one is current.
// A lineage has no terminal state: deleted items can still be edited.
type Lineage []*TrackingHistory

// NewLineage collects the tracking snapshots out of snaps, ordered by
// modifiedDate then id. Snapshots of other variants are skipped.
func NewLineage(snaps []Snapshot) Lineage {
	var l Lineage
	for _, s := range snaps {
		if t, ok := s.(*TrackingHistory); ok {
			l = append(l, t)
		}
	}
	sort.SliceStable(l, func(i, j int) bool {
		if !l[i].ModifiedDate.Equal(l[j].ModifiedDate) {
			return l[i].ModifiedDate.Before(l[j].ModifiedDate)
		}
		return l[i].ID < l[j].ID
	})
	return l
}

// TrackingID is the live tracking item the lineage belongs to, or 0 when
// the lineage is empty.
func (l Lineage) TrackingID() int64 {
	if len(l) == 0 {
		return 0
	}
	return l[0].PatientHistoryTrackingID
}

// Current returns the current snapshot, or nil when none is flagged.
func (l Lineage) Current() *TrackingHistory {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].CurrentState {
			return l[i]
		}
	}
	return nil
}

// Validate checks that every snapshot belongs to the same tracking item and
// that no more than one is current.
func (l Lineage) Validate() error {
	current := 0
	for _, s := range l {
		if s.PatientHistoryTrackingID != l.TrackingID() {
			return fmt.Errorf("snapshot %d names tracking item %d, lineage is %d: %w",
				s.ID, s.PatientHistoryTrackingID, l.TrackingID(), ErrMixedLineage)
		}
		if s.CurrentState {
			current++
		}
	}
	if current > 1 {
		return fmt.Errorf("tracking item %d has %d current snapshots: %w", l.TrackingID(), current, ErrMultipleCurrent)
	}
	return nil
}

// Append returns a new lineage with next as its current snapshot. The
// previously current snapshot is replaced by a superseded copy; the
// snapshots in l are left untouched.
func (l Lineage) Append(next *TrackingHistory) Lineage {
	out := make(Lineage, 0, len(l)+1)
	for _, s := range l {
		if s.CurrentState {
			superseded := *s
			superseded.CurrentState = false
			s = &superseded
		}
		out = append(out, s)
	}
	n := *next
	n.CurrentState = true
	return append(out, &n)
}

// MajorChanges keeps the snapshots flagged as clinically significant.
func (l Lineage) MajorChanges() Lineage {
	var out Lineage
	for _, s := range l {
		if s.MajorChange {
			out = append(out, s)
		}
	}
	return out
}

// Visible keeps the snapshots that would show in default views.
func (l Lineage) Visible() Lineage {
	var out Lineage
	for _, s := range l {
		if s.Visible() {
			out = append(out, s)
		}
	}
	return out
}
