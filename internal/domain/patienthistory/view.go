package patienthistory

import "github.com/goccy/go-json"

// MaskedItem is all a display view shows of a masked live item.
type MaskedItem struct {
	HistoryType HistoryType `json:"historyType"`
	ID          int64       `json:"id"`
	PatientID   int64       `json:"patientId"`
	MaskID      *int64      `json:"maskId"`
}

// View returns item as it may be displayed: a MaskedItem while the item is
// masked, otherwise the item itself.
func View(item LiveItem) any {
	if !item.IsMasked() {
		return item
	}
	b := item.Base()
	return MaskedItem{
		HistoryType: item.HistoryType(),
		ID:          b.ID,
		PatientID:   b.PatientID,
		MaskID:      cloneInt64(b.MaskID),
	}
}

// EncodeView renders items for display as a JSON array, reducing masked
// items to their identity.
func EncodeView(items []LiveItem) ([]byte, error) {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = View(it)
	}
	return json.Marshal(out)
}
