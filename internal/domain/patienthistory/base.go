package patienthistory

import (
	"fmt"
	"time"
)

// ItemBase holds the fields every live item shares. It is embedded by value
// in each variant so that variant equality always covers it.
type ItemBase struct {
	ID        int64  `json:"id"`
	PatientID int64  `json:"patientId" validate:"required,gt=0"`
	MaskID    *int64 `json:"maskId"`
}

// IsMasked reports whether the record is redacted. Consumers must withhold
// the record's detail while it is masked.
func (b ItemBase) IsMasked() bool { return b.MaskID != nil }

func (b ItemBase) Equal(o ItemBase) bool {
	return b.ID == o.ID && b.PatientID == o.PatientID && eqPtr(b.MaskID, o.MaskID)
}

func (b ItemBase) hash(h *hasher) {
	h.int64(b.ID)
	h.int64(b.PatientID)
	h.optInt64(b.MaskID)
}

func (b ItemBase) String() string {
	return fmt.Sprintf("id=%d patientId=%d maskId=%s", b.ID, b.PatientID, fmtInt64(b.MaskID))
}

// SnapshotBase holds the fields every history snapshot shares. ID is the
// snapshot's own id, not the id of the live item it was taken from.
type SnapshotBase struct {
	ID           int64     `json:"id"`
	PatientID    int64     `json:"patientId"`
	MaskID       *int64    `json:"maskId"`
	ModifiedDate time.Time `json:"modifiedDate"`
}

func (b SnapshotBase) IsMasked() bool { return b.MaskID != nil }

func (b SnapshotBase) Equal(o SnapshotBase) bool {
	return b.ID == o.ID && b.PatientID == o.PatientID && eqPtr(b.MaskID, o.MaskID) &&
		b.ModifiedDate.Equal(o.ModifiedDate)
}

func (b SnapshotBase) hash(h *hasher) {
	h.int64(b.ID)
	h.int64(b.PatientID)
	h.optInt64(b.MaskID)
	h.time(b.ModifiedDate)
}

func (b SnapshotBase) String() string {
	return fmt.Sprintf("id=%d patientId=%d maskId=%s modifiedDate=%s",
		b.ID, b.PatientID, fmtInt64(b.MaskID), b.ModifiedDate.Format(time.RFC3339Nano))
}

// CatalogItemRef points a Regular item at the history catalog entry it records.
type CatalogItemRef struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name" validate:"max=255"`
	HistoryTypeID int64   `json:"historyTypeId"`
	Code          *string `json:"code"`
}

func (r *CatalogItemRef) Equal(o *CatalogItemRef) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.ID == o.ID && r.Name == o.Name && r.HistoryTypeID == o.HistoryTypeID && eqPtr(r.Code, o.Code)
}

func (r *CatalogItemRef) hash(h *hasher) {
	if r == nil {
		h.bool(false)
		return
	}
	h.bool(true)
	h.int64(r.ID)
	h.str(r.Name)
	h.int64(r.HistoryTypeID)
	h.optStr(r.Code)
}

func (r *CatalogItemRef) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("{id=%d name=%q}", r.ID, r.Name)
}

// TrackingItemRef points a Tracking item at the tracked catalog entry.
type TrackingItemRef struct {
	ID            int64  `json:"id"`
	Name          string `json:"name" validate:"max=255"`
	HistoryTypeID int64  `json:"historyTypeId"`
}

func (r *TrackingItemRef) Equal(o *TrackingItemRef) bool {
	if r == nil || o == nil {
		return r == o
	}
	return *r == *o
}

func (r *TrackingItemRef) hash(h *hasher) {
	if r == nil {
		h.bool(false)
		return
	}
	h.bool(true)
	h.int64(r.ID)
	h.str(r.Name)
	h.int64(r.HistoryTypeID)
}

func (r *TrackingItemRef) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("{id=%d name=%q}", r.ID, r.Name)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func fmtInt64(v *int64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *v)
}

func fmtStr(v *string) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%q", *v)
}

func fmtDate(d *Date) string {
	if d == nil {
		return "null"
	}
	return d.String()
}

func fmtTime(t *time.Time) string {
	if t == nil {
		return "null"
	}
	return t.Format(time.RFC3339Nano)
}
