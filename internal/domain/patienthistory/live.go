package patienthistory

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// LiveItem is a patient-history entry as currently visible to the clinical
// system. The set of implementations is closed: *Regular, *FreeText, *URL
// and *Tracking.
type LiveItem interface {
	HistoryType() HistoryType
	Base() ItemBase
	IsMasked() bool
	Equal(other LiveItem) bool
	Hash() uint64
	String() string

	base() *ItemBase
	liveItem()
}

var (
	_ LiveItem = (*Regular)(nil)
	_ LiveItem = (*FreeText)(nil)
	_ LiveItem = (*URL)(nil)
	_ LiveItem = (*Tracking)(nil)
)

// Regular records a catalog history item (condition, procedure, social or
// family history entry) for a patient.
type Regular struct {
	ItemBase
	HistoryItem   *CatalogItemRef `json:"historyItem"`
	Date          *Date           `json:"date"`
	Active        bool            `json:"active"`
	Negative      bool            `json:"negative"`
	EyeLocation   *string         `json:"eyeLocation" validate:"omitempty,max=16"`
	Note          *string         `json:"note" validate:"omitempty,max=4000"`
	Relation      *string         `json:"relation" validate:"omitempty,max=255"`
	Details       *string         `json:"details" validate:"omitempty,max=4000"`
	Treatment     *string         `json:"treatment" validate:"omitempty,max=4000"`
	ResolvedDate  *Date           `json:"resolvedDate"`
	CreatorUserID *int64          `json:"creatorUserId"`
}

func (r *Regular) HistoryType() HistoryType { return TypeRegular }
func (r *Regular) Base() ItemBase           { return r.ItemBase }
func (r *Regular) base() *ItemBase          { return &r.ItemBase }
func (r *Regular) liveItem()                {}

func (r *Regular) Equal(other LiveItem) bool {
	o, ok := other.(*Regular)
	if !ok || r == nil || o == nil {
		return ok && r == o
	}
	if r == o {
		return true
	}
	return r.ItemBase.Equal(o.ItemBase) &&
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
		eqPtr(r.CreatorUserID, o.CreatorUserID)
}

func (r *Regular) Hash() uint64 {
	h := newHasher("live", TypeRegular)
	r.ItemBase.hash(h)
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
	h.optInt64(r.CreatorUserID)
	return h.sum()
}

func (r *Regular) String() string {
	return fmt.Sprintf("Regular{%s historyItem=%s date=%s active=%t negative=%t eyeLocation=%s note=%s relation=%s details=%s treatment=%s resolvedDate=%s creatorUserId=%s}",
		r.ItemBase, r.HistoryItem, fmtDate(r.Date), r.Active, r.Negative, fmtStr(r.EyeLocation),
		fmtStr(r.Note), fmtStr(r.Relation), fmtStr(r.Details), fmtStr(r.Treatment),
		fmtDate(r.ResolvedDate), fmtInt64(r.CreatorUserID))
}

func (r Regular) MarshalJSON() ([]byte, error) {
	type Fields Regular
	return json.Marshal(struct {
		HistoryType HistoryType `json:"historyType"`
		Fields
	}{TypeRegular, Fields(r)})
}

// FreeText is an unstructured history note filed under a history type.
type FreeText struct {
	ItemBase
	HistoryTypeID int64   `json:"historyTypeId" validate:"gt=0"`
	Date          *Date   `json:"date"`
	Value         *string `json:"value" validate:"omitempty,max=4000"`
	Deleted       bool    `json:"deleted"`
}

func (f *FreeText) HistoryType() HistoryType { return TypeFreeText }
func (f *FreeText) Base() ItemBase           { return f.ItemBase }
func (f *FreeText) base() *ItemBase          { return &f.ItemBase }
func (f *FreeText) liveItem()                {}

func (f *FreeText) Equal(other LiveItem) bool {
	o, ok := other.(*FreeText)
	if !ok || f == nil || o == nil {
		return ok && f == o
	}
	if f == o {
		return true
	}
	return f.ItemBase.Equal(o.ItemBase) &&
		f.HistoryTypeID == o.HistoryTypeID &&
		eqPtr(f.Date, o.Date) &&
		eqPtr(f.Value, o.Value) &&
		f.Deleted == o.Deleted
}

func (f *FreeText) Hash() uint64 {
	h := newHasher("live", TypeFreeText)
	f.ItemBase.hash(h)
	h.int64(f.HistoryTypeID)
	h.date(f.Date)
	h.optStr(f.Value)
	h.bool(f.Deleted)
	return h.sum()
}

func (f *FreeText) String() string {
	return fmt.Sprintf("FreeText{%s historyTypeId=%d date=%s value=%s deleted=%t}",
		f.ItemBase, f.HistoryTypeID, fmtDate(f.Date), fmtStr(f.Value), f.Deleted)
}

func (f FreeText) MarshalJSON() ([]byte, error) {
	type Fields FreeText
	return json.Marshal(struct {
		HistoryType HistoryType `json:"historyType"`
		Fields
	}{TypeFreeText, Fields(f)})
}

// URL links an external document to the patient's history.
type URL struct {
	ItemBase
	HistoryTypeID int64   `json:"historyTypeId" validate:"gt=0"`
	Date          *Date   `json:"date"`
	URL           *string `json:"url" validate:"omitempty,max=2048"`
	URLName       *string `json:"urlName" validate:"omitempty,max=255"`
	Deleted       bool    `json:"deleted"`
}

func (u *URL) HistoryType() HistoryType { return TypeURL }
func (u *URL) Base() ItemBase           { return u.ItemBase }
func (u *URL) base() *ItemBase          { return &u.ItemBase }
func (u *URL) liveItem()                {}

func (u *URL) Equal(other LiveItem) bool {
	o, ok := other.(*URL)
	if !ok || u == nil || o == nil {
		return ok && u == o
	}
	if u == o {
		return true
	}
	return u.ItemBase.Equal(o.ItemBase) &&
		u.HistoryTypeID == o.HistoryTypeID &&
		eqPtr(u.Date, o.Date) &&
		eqPtr(u.URL, o.URL) &&
		eqPtr(u.URLName, o.URLName) &&
		u.Deleted == o.Deleted
}

func (u *URL) Hash() uint64 {
	h := newHasher("live", TypeURL)
	u.ItemBase.hash(h)
	h.int64(u.HistoryTypeID)
	h.date(u.Date)
	h.optStr(u.URL)
	h.optStr(u.URLName)
	h.bool(u.Deleted)
	return h.sum()
}

func (u *URL) String() string {
	return fmt.Sprintf("URL{%s historyTypeId=%d date=%s url=%s urlName=%s deleted=%t}",
		u.ItemBase, u.HistoryTypeID, fmtDate(u.Date), fmtStr(u.URL), fmtStr(u.URLName), u.Deleted)
}

func (u URL) MarshalJSON() ([]byte, error) {
	type Fields URL
	return json.Marshal(struct {
		HistoryType HistoryType `json:"historyType"`
		Fields
	}{TypeURL, Fields(u)})
}

// Tracking follows a tracked item (e.g. a lesion or a medication plan) over
// time. CurrentState, MajorChange, Active and Deleted are independent flags.
type Tracking struct {
	ItemBase
	ModifierUserID *int64           `json:"modifierUserId"`
	CreatorUserID  *int64           `json:"creatorUserId"`
	StateDate      *Date            `json:"stateDate"`
	ModifiedDate   *time.Time       `json:"modifiedDate"`
	Note           *string          `json:"note" validate:"omitempty,max=4000"`
	CurrentState   bool             `json:"currentState"`
	MajorChange    bool             `json:"majorChange"`
	Active         bool             `json:"active"`
	Deleted        bool             `json:"deleted"`
	TrackingItem   *TrackingItemRef `json:"trackingItem"`
}

func (t *Tracking) HistoryType() HistoryType { return TypeTracking }
func (t *Tracking) Base() ItemBase           { return t.ItemBase }
func (t *Tracking) base() *ItemBase          { return &t.ItemBase }
func (t *Tracking) liveItem()                {}

// Visible reports whether the item shows in default views. Deleted always
// hides it, whatever Active says.
func (t *Tracking) Visible() bool { return t.Active && !t.Deleted }

func (t *Tracking) Equal(other LiveItem) bool {
	o, ok := other.(*Tracking)
	if !ok || t == nil || o == nil {
		return ok && t == o
	}
	if t == o {
		return true
	}
	return t.ItemBase.Equal(o.ItemBase) &&
		eqPtr(t.ModifierUserID, o.ModifierUserID) &&
		eqPtr(t.CreatorUserID, o.CreatorUserID) &&
		eqPtr(t.StateDate, o.StateDate) &&
		eqTimePtr(t.ModifiedDate, o.ModifiedDate) &&
		eqPtr(t.Note, o.Note) &&
		t.CurrentState == o.CurrentState &&
		t.MajorChange == o.MajorChange &&
		t.Active == o.Active &&
		t.Deleted == o.Deleted &&
		t.TrackingItem.Equal(o.TrackingItem)
}

func (t *Tracking) Hash() uint64 {
	h := newHasher("live", TypeTracking)
	t.ItemBase.hash(h)
	h.optInt64(t.ModifierUserID)
	h.optInt64(t.CreatorUserID)
	h.date(t.StateDate)
	h.optTime(t.ModifiedDate)
	h.optStr(t.Note)
	h.bool(t.CurrentState)
	h.bool(t.MajorChange)
	h.bool(t.Active)
	h.bool(t.Deleted)
	t.TrackingItem.hash(h)
	return h.sum()
}

func (t *Tracking) String() string {
	return fmt.Sprintf("Tracking{%s modifierUserId=%s creatorUserId=%s stateDate=%s modifiedDate=%s note=%s currentState=%t majorChange=%t active=%t deleted=%t trackingItem=%s}",
		t.ItemBase, fmtInt64(t.ModifierUserID), fmtInt64(t.CreatorUserID), fmtDate(t.StateDate),
		fmtTime(t.ModifiedDate), fmtStr(t.Note), t.CurrentState, t.MajorChange, t.Active, t.Deleted,
		t.TrackingItem)
}

func (t Tracking) MarshalJSON() ([]byte, error) {
	type Fields Tracking
	return json.Marshal(struct {
		HistoryType HistoryType `json:"historyType"`
		Fields
	}{TypeTracking, Fields(t)})
}
