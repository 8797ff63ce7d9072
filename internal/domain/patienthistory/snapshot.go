package patienthistory

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Snapshot is an immutable, timestamped copy of a live item taken when the
// item changed. The set of implementations is closed: *RegularHistory,
// *FreeTextHistory, *URLHistory and *TrackingHistory. Snapshots are never
// modified once a Repository has returned them.
type Snapshot interface {
	HistoryType() HistoryType
	Base() SnapshotBase
	// ItemID is the id of the live item the snapshot was taken from.
	ItemID() int64
	IsMasked() bool
	Equal(other Snapshot) bool
	Hash() uint64
	String() string

	base() *SnapshotBase
	setItemID(id int64)
	snapshot()
}

var (
	_ Snapshot = (*RegularHistory)(nil)
	_ Snapshot = (*FreeTextHistory)(nil)
	_ Snapshot = (*URLHistory)(nil)
	_ Snapshot = (*TrackingHistory)(nil)
)

// RegularHistory is a snapshot of a Regular item.
type RegularHistory struct {
	SnapshotBase
	PatientHistoryRegularID int64           `json:"patientHistoryRegularId"`
	HistoryItem             *CatalogItemRef `json:"historyItem"`
	Date                    *Date           `json:"date"`
	Active                  bool            `json:"active"`
	Negative                bool            `json:"negative"`
	EyeLocation             *string         `json:"eyeLocation"`
	Note                    *string         `json:"note"`
	Relation                *string         `json:"relation"`
	Details                 *string         `json:"details"`
	Treatment               *string         `json:"treatment"`
	ResolvedDate            *Date           `json:"resolvedDate"`
	HistoryUserID           *int64          `json:"historyUserId"`
}

func (r *RegularHistory) HistoryType() HistoryType { return TypeRegular }
func (r *RegularHistory) Base() SnapshotBase       { return r.SnapshotBase }
func (r *RegularHistory) ItemID() int64            { return r.PatientHistoryRegularID }
func (r *RegularHistory) base() *SnapshotBase      { return &r.SnapshotBase }
func (r *RegularHistory) setItemID(id int64)       { r.PatientHistoryRegularID = id }
func (r *RegularHistory) snapshot()                {}

func (r *RegularHistory) Equal(other Snapshot) bool {
	o, ok := other.(*RegularHistory)
	if !ok || r == nil || o == nil {
		return ok && r == o
	}
	if r == o {
		return true
	}
	return r.SnapshotBase.Equal(o.SnapshotBase) &&
		r.PatientHistoryRegularID == o.PatientHistoryRegularID &&
		r.HistoryItem.Equal(o.HistoryItem) &&
		eqPtr(r.Date, o.Date) &&
		r.Active == o.Active &&
		r.Negative == o.Negative &&
		eqPtr(r.EyeLocation, o.EyeLocation) &&
		eqPtr(r.Note, o.Note) &&
		eqPtr(r.Relation, o.Relation) &&
		eqPtr(r.Details, o.Details) &&
		eqPtr(r.Treatment, o.Treatment) &&
		eqPtr(r.ResolvedDate, o.ResolvedDate) &&
		eqPtr(r.HistoryUserID, o.HistoryUserID)
}

func (r *RegularHistory) Hash() uint64 {
	h := newHasher("history", TypeRegular)
	r.SnapshotBase.hash(h)
	h.int64(r.PatientHistoryRegularID)
	r.HistoryItem.hash(h)
	h.date(r.Date)
	h.bool(r.Active)
	h.bool(r.Negative)
	h.optStr(r.EyeLocation)
	h.optStr(r.Note)
	h.optStr(r.Relation)
	h.optStr(r.Details)
	h.optStr(r.Treatment)
	h.date(r.ResolvedDate)
	h.optInt64(r.HistoryUserID)
	return h.sum()
}

func (r *RegularHistory) String() string {
	return fmt.Sprintf("RegularHistory{%s patientHistoryRegularId=%d historyItem=%s date=%s active=%t negative=%t eyeLocation=%s note=%s relation=%s details=%s treatment=%s resolvedDate=%s historyUserId=%s}",
		r.SnapshotBase, r.PatientHistoryRegularID, r.HistoryItem, fmtDate(r.Date), r.Active, r.Negative,
		fmtStr(r.EyeLocation), fmtStr(r.Note), fmtStr(r.Relation), fmtStr(r.Details), fmtStr(r.Treatment),
		fmtDate(r.ResolvedDate), fmtInt64(r.HistoryUserID))
}

func (r RegularHistory) MarshalJSON() ([]byte, error) {
	type Fields RegularHistory
	return json.Marshal(struct {
		HistoryType HistoryType `json:"historyType"`
		Fields
	}{TypeRegular, Fields(r)})
}

// FreeTextHistory is a snapshot of a FreeText item.
type FreeTextHistory struct {
	SnapshotBase
	PatientHistoryFreeTextID int64   `json:"patientHistoryFreeTextId"`
	HistoryTypeID            int64   `json:"historyTypeId"`
	Date                     *Date   `json:"date"`
	Value                    *string `json:"value"`
	Deleted                  bool    `json:"deleted"`
	HistoryUserID            *int64  `json:"historyUserId"`
}

func (f *FreeTextHistory) HistoryType() HistoryType { return TypeFreeText }
func (f *FreeTextHistory) Base() SnapshotBase       { return f.SnapshotBase }
func (f *FreeTextHistory) ItemID() int64            { return f.PatientHistoryFreeTextID }
func (f *FreeTextHistory) base() *SnapshotBase      { return &f.SnapshotBase }
func (f *FreeTextHistory) setItemID(id int64)       { f.PatientHistoryFreeTextID = id }
func (f *FreeTextHistory) snapshot()                {}

func (f *FreeTextHistory) Equal(other Snapshot) bool {
	o, ok := other.(*FreeTextHistory)
	if !ok || f == nil || o == nil {
		return ok && f == o
	}
	if f == o {
		return true
	}
	return f.SnapshotBase.Equal(o.SnapshotBase) &&
		f.PatientHistoryFreeTextID == o.PatientHistoryFreeTextID &&
		f.HistoryTypeID == o.HistoryTypeID &&
		eqPtr(f.Date, o.Date) &&
		eqPtr(f.Value, o.Value) &&
		f.Deleted == o.Deleted &&
		eqPtr(f.HistoryUserID, o.HistoryUserID)
}

func (f *FreeTextHistory) Hash() uint64 {
	h := newHasher("history", TypeFreeText)
	f.SnapshotBase.hash(h)
	h.int64(f.PatientHistoryFreeTextID)
	h.int64(f.HistoryTypeID)
	h.date(f.Date)
	h.optStr(f.Value)
	h.bool(f.Deleted)
	h.optInt64(f.HistoryUserID)
	return h.sum()
}

func (f *FreeTextHistory) String() string {
	return fmt.Sprintf("FreeTextHistory{%s patientHistoryFreeTextId=%d historyTypeId=%d date=%s value=%s deleted=%t historyUserId=%s}",
		f.SnapshotBase, f.PatientHistoryFreeTextID, f.HistoryTypeID, fmtDate(f.Date), fmtStr(f.Value),
		f.Deleted, fmtInt64(f.HistoryUserID))
}

func (f FreeTextHistory) MarshalJSON() ([]byte, error) {
	type Fields FreeTextHistory
	return json.Marshal(struct {
		HistoryType HistoryType `json:"historyType"`
		Fields
	}{TypeFreeText, Fields(f)})
}

// URLHistory is a snapshot of a URL item.
type URLHistory struct {
	SnapshotBase
	PatientHistoryURLID int64   `json:"patientHistoryUrlId"`
	HistoryTypeID       int64   `json:"historyTypeId"`
	Date                *Date   `json:"date"`
	URL                 *string `json:"url"`
	URLName             *string `json:"urlName"`
	Deleted             bool    `json:"deleted"`
	HistoryUserID       *int64  `json:"historyUserId"`
}

func (u *URLHistory) HistoryType() HistoryType { return TypeURL }
func (u *URLHistory) Base() SnapshotBase       { return u.SnapshotBase }
func (u *URLHistory) ItemID() int64            { return u.PatientHistoryURLID }
func (u *URLHistory) base() *SnapshotBase      { return &u.SnapshotBase }
func (u *URLHistory) setItemID(id int64)       { u.PatientHistoryURLID = id }
func (u *URLHistory) snapshot()                {}

func (u *URLHistory) Equal(other Snapshot) bool {
	o, ok := other.(*URLHistory)
	if !ok || u == nil || o == nil {
		return ok && u == o
	}
	if u == o {
		return true
	}
	return u.SnapshotBase.Equal(o.SnapshotBase) &&
		u.PatientHistoryURLID == o.PatientHistoryURLID &&
		u.HistoryTypeID == o.HistoryTypeID &&
		eqPtr(u.Date, o.Date) &&
		eqPtr(u.URL, o.URL) &&
		eqPtr(u.URLName, o.URLName) &&
		u.Deleted == o.Deleted &&
		eqPtr(u.HistoryUserID, o.HistoryUserID)
}

func (u *URLHistory) Hash() uint64 {
	h := newHasher("history", TypeURL)
	u.SnapshotBase.hash(h)
	h.int64(u.PatientHistoryURLID)
	h.int64(u.HistoryTypeID)
	h.date(u.Date)
	h.optStr(u.URL)
	h.optStr(u.URLName)
	h.bool(u.Deleted)
	h.optInt64(u.HistoryUserID)
	return h.sum()
}

func (u *URLHistory) String() string {
	return fmt.Sprintf("URLHistory{%s patientHistoryUrlId=%d historyTypeId=%d date=%s url=%s urlName=%s deleted=%t historyUserId=%s}",
		u.SnapshotBase, u.PatientHistoryURLID, u.HistoryTypeID, fmtDate(u.Date), fmtStr(u.URL),
		fmtStr(u.URLName), u.Deleted, fmtInt64(u.HistoryUserID))
}

func (u URLHistory) MarshalJSON() ([]byte, error) {
	type Fields URLHistory
	return json.Marshal(struct {
		HistoryType HistoryType `json:"historyType"`
		Fields
	}{TypeURL, Fields(u)})
}

// TrackingHistory is a snapshot of a Tracking item. Within one lineage at
// most one snapshot has CurrentState set; see Lineage.
type TrackingHistory struct {
	SnapshotBase
	PatientHistoryTrackingID int64            `json:"patientHistoryTrackingId"`
	ModifierUserID           *int64           `json:"modifierUserId"`
	CreatorUserID            *int64           `json:"creatorUserId"`
	StateDate                *Date            `json:"stateDate"`
	Note                     *string          `json:"note"`
	CurrentState             bool             `json:"currentState"`
	MajorChange              bool             `json:"majorChange"`
	Active                   bool             `json:"active"`
	Deleted                  bool             `json:"deleted"`
	TrackingItem             *TrackingItemRef `json:"trackingItem"`
}

func (t *TrackingHistory) HistoryType() HistoryType { return TypeTracking }
func (t *TrackingHistory) Base() SnapshotBase       { return t.SnapshotBase }
func (t *TrackingHistory) ItemID() int64            { return t.PatientHistoryTrackingID }
func (t *TrackingHistory) base() *SnapshotBase      { return &t.SnapshotBase }
func (t *TrackingHistory) setItemID(id int64)       { t.PatientHistoryTrackingID = id }
func (t *TrackingHistory) snapshot()                {}

func (t *TrackingHistory) Visible() bool { return t.Active && !t.Deleted }

func (t *TrackingHistory) Equal(other Snapshot) bool {
	o, ok := other.(*TrackingHistory)
	if !ok || t == nil || o == nil {
		return ok && t == o
	}
	if t == o {
		return true
	}
	return t.SnapshotBase.Equal(o.SnapshotBase) &&
		t.PatientHistoryTrackingID == o.PatientHistoryTrackingID &&
		eqPtr(t.ModifierUserID, o.ModifierUserID) &&
		eqPtr(t.CreatorUserID, o.CreatorUserID) &&
		eqPtr(t.StateDate, o.StateDate) &&
		eqPtr(t.Note, o.Note) &&
		t.CurrentState == o.CurrentState &&
		t.MajorChange == o.MajorChange &&
		t.Active == o.Active &&
		t.Deleted == o.Deleted &&
		t.TrackingItem.Equal(o.TrackingItem)
}

func (t *TrackingHistory) Hash() uint64 {
	h := newHasher("history", TypeTracking)
	t.SnapshotBase.hash(h)
	h.int64(t.PatientHistoryTrackingID)
	h.optInt64(t.ModifierUserID)
	h.optInt64(t.CreatorUserID)
	h.date(t.StateDate)
	h.optStr(t.Note)
	h.bool(t.CurrentState)
	h.bool(t.MajorChange)
	h.bool(t.Active)
	h.bool(t.Deleted)
	t.TrackingItem.hash(h)
	return h.sum()
}

func (t *TrackingHistory) String() string {
	return fmt.Sprintf("TrackingHistory{%s patientHistoryTrackingId=%d modifierUserId=%s creatorUserId=%s stateDate=%s note=%s currentState=%t majorChange=%t active=%t deleted=%t trackingItem=%s}",
		t.SnapshotBase, t.PatientHistoryTrackingID, fmtInt64(t.ModifierUserID), fmtInt64(t.CreatorUserID),
		fmtDate(t.StateDate), fmtStr(t.Note), t.CurrentState, t.MajorChange, t.Active, t.Deleted, t.TrackingItem)
}

func (t TrackingHistory) MarshalJSON() ([]byte, error) {
	type Fields TrackingHistory
	return json.Marshal(struct {
		HistoryType HistoryType `json:"historyType"`
		Fields
	}{TypeTracking, Fields(t)})
}
