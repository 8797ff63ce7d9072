package patienthistory

import (
	"fmt"
	"time"
)

// SnapshotOf freezes item into its history sibling. The snapshot id is left
// zero for the repository to assign; the natural key is the live item's id.
// userID is recorded as the auditing user. Tracking snapshots start out as
// the current snapshot of their lineage.
func SnapshotOf(item LiveItem, userID *int64, at time.Time) (Snapshot, error) {
	base := SnapshotBase{
		PatientID:    item.Base().PatientID,
		MaskID:       cloneInt64(item.Base().MaskID),
		ModifiedDate: at,
	}
	switch it := item.(type) {
	case *Regular:
		return &RegularHistory{
			SnapshotBase:            base,
			PatientHistoryRegularID: it.ID,
			HistoryItem:             cloneCatalogRef(it.HistoryItem),
			Date:                    clonePtr(it.Date),
			Active:                  it.Active,
			Negative:                it.Negative,
			EyeLocation:             clonePtr(it.EyeLocation),
			Note:                    clonePtr(it.Note),
			Relation:                clonePtr(it.Relation),
			Details:                 clonePtr(it.Details),
			Treatment:               clonePtr(it.Treatment),
			ResolvedDate:            clonePtr(it.ResolvedDate),
			HistoryUserID:           cloneInt64(userID),
		}, nil
	case *FreeText:
		return &FreeTextHistory{
			SnapshotBase:             base,
			PatientHistoryFreeTextID: it.ID,
			HistoryTypeID:            it.HistoryTypeID,
			Date:                     clonePtr(it.Date),
			Value:                    clonePtr(it.Value),
			Deleted:                  it.Deleted,
			HistoryUserID:            cloneInt64(userID),
		}, nil
	case *URL:
		return &URLHistory{
			SnapshotBase:        base,
			PatientHistoryURLID: it.ID,
			HistoryTypeID:       it.HistoryTypeID,
			Date:                clonePtr(it.Date),
			URL:                 clonePtr(it.URL),
			URLName:             clonePtr(it.URLName),
			Deleted:             it.Deleted,
			HistoryUserID:       cloneInt64(userID),
		}, nil
	case *Tracking:
		return &TrackingHistory{
			SnapshotBase:             base,
			PatientHistoryTrackingID: it.ID,
			ModifierUserID:           clonePtr(it.ModifierUserID),
			CreatorUserID:            cloneInt64(userID),
			StateDate:                clonePtr(it.StateDate),
			Note:                     clonePtr(it.Note),
			CurrentState:             true,
			MajorChange:              it.MajorChange,
			Active:                   it.Active,
			Deleted:                  it.Deleted,
			TrackingItem:             cloneTrackingRef(it.TrackingItem),
		}, nil
	}
	return nil, fmt.Errorf("snapshot of %T: unsupported live item", item)
}

// markDeleted sets the tombstone on variants that carry one.
func markDeleted(item LiveItem) error {
	switch it := item.(type) {
	case *FreeText:
		it.Deleted = true
	case *URL:
		it.Deleted = true
	case *Tracking:
		it.Deleted = true
	default:
		return fmt.Errorf("%s: %w", item.HistoryType(), ErrNotDeletable)
	}
	return nil
}

func isDeleted(item LiveItem) bool {
	switch it := item.(type) {
	case *FreeText:
		return it.Deleted
	case *URL:
		return it.Deleted
	case *Tracking:
		return it.Deleted
	}
	return false
}

func itemDates(item LiveItem) []*Date {
	switch it := item.(type) {
	case *Regular:
		return []*Date{it.Date, it.ResolvedDate}
	case *FreeText:
		return []*Date{it.Date}
	case *URL:
		return []*Date{it.Date}
	case *Tracking:
		return []*Date{it.StateDate}
	}
	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt64(p *int64) *int64 { return clonePtr(p) }

func cloneCatalogRef(r *CatalogItemRef) *CatalogItemRef {
	if r == nil {
		return nil
	}
	c := *r
	c.Code = clonePtr(r.Code)
	return &c
}

func cloneTrackingRef(r *TrackingItemRef) *TrackingItemRef {
	return clonePtr(r)
}
