package patienthistory

import (
	"fmt"
	"strings"
)

// HistoryType is the discriminator carried inline by every patient-history
// record on the wire. The same four values are used by live items and by
// their history snapshots.
type HistoryType string

const (
	TypeRegular  HistoryType = "REGULAR"
	TypeFreeText HistoryType = "FREE_TEXT"
	TypeURL      HistoryType = "URL"
	TypeTracking HistoryType = "TRACKING"
)

// DiscriminatorField is the JSON property holding the HistoryType.
const DiscriminatorField = "historyType"

// HistoryTypes lists the closed tag set in declaration order.
var HistoryTypes = []HistoryType{TypeRegular, TypeFreeText, TypeURL, TypeTracking}

// Valid reports whether t is one of the four registered tags.
func (t HistoryType) Valid() bool {
	switch t {
	case TypeRegular, TypeFreeText, TypeURL, TypeTracking:
		return true
	}
	return false
}

func (t HistoryType) String() string { return string(t) }

// ParseHistoryType resolves a tag from a path segment or query value. It is
// lenient about case and accepts '-' in place of '_' ("free-text"). Wire
// decoding never goes through here; the codec requires the exact tag.
func ParseHistoryType(s string) (HistoryType, error) {
	t := HistoryType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !t.Valid() {
		return "", fmt.Errorf("unknown history type %q", s)
	}
	return t, nil
}

// Hierarchy selects which variant registry a payload is decoded against.
// It comes from the caller's context, never from the payload.
type Hierarchy int

const (
	HierarchyLive Hierarchy = iota + 1
	HierarchyHistory
)

func (h Hierarchy) String() string {
	switch h {
	case HierarchyLive:
		return "live"
	case HierarchyHistory:
		return "history"
	}
	return fmt.Sprintf("hierarchy(%d)", int(h))
}

// ParseHierarchy accepts "live" or "history".
func ParseHierarchy(s string) (Hierarchy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "live":
		return HierarchyLive, nil
	case "history", "snapshot":
		return HierarchyHistory, nil
	}
	return 0, fmt.Errorf("unknown hierarchy %q (want live or history)", s)
}
