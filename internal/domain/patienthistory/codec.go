package patienthistory

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// The two registries share the tag vocabulary and nothing else: a tag
// resolved against one of them can only yield that hierarchy's variant.
var (
	liveRegistry = map[HistoryType]func() LiveItem{
		TypeRegular:  func() LiveItem { return &Regular{} },
		TypeFreeText: func() LiveItem { return &FreeText{} },
		TypeURL:      func() LiveItem { return &URL{} },
		TypeTracking: func() LiveItem { return &Tracking{} },
	}
	snapshotRegistry = map[HistoryType]func() Snapshot{
		TypeRegular:  func() Snapshot { return &RegularHistory{} },
		TypeFreeText: func() Snapshot { return &FreeTextHistory{} },
		TypeURL:      func() Snapshot { return &URLHistory{} },
		TypeTracking: func() Snapshot { return &TrackingHistory{} },
	}
)

// NewLiveItem returns an empty live variant for t.
func NewLiveItem(t HistoryType) (LiveItem, bool) {
	newItem, ok := liveRegistry[t]
	if !ok {
		return nil, false
	}
	return newItem(), true
}

// NewSnapshot returns an empty snapshot variant for t.
func NewSnapshot(t HistoryType) (Snapshot, bool) {
	newSnap, ok := snapshotRegistry[t]
	if !ok {
		return nil, false
	}
	return newSnap(), true
}

// EncodeLive renders item as one flat JSON object with historyType inline.
func EncodeLive(item LiveItem) ([]byte, error) {
	if item == nil {
		return nil, errors.New("encode live item: nil item")
	}
	return json.Marshal(item)
}

// EncodeSnapshot renders s as one flat JSON object with historyType inline.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s == nil {
		return nil, errors.New("encode snapshot: nil snapshot")
	}
	return json.Marshal(s)
}

// DecodeLive decodes a payload against the live registry. Unknown
// properties are ignored.
func DecodeLive(data []byte) (LiveItem, error) {
	tag, err := readTag(data, HierarchyLive)
	if err != nil {
		return nil, err
	}
	newItem, ok := liveRegistry[tag]
	if !ok {
		return nil, unknownTagErr(HierarchyLive, tag)
	}
	item := newItem()
	if err := json.Unmarshal(data, item); err != nil {
		return nil, fieldTypeErr(HierarchyLive, tag, err)
	}
	return item, nil
}

// DecodeSnapshot decodes a payload against the history registry. Unknown
// properties are ignored.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	tag, err := readTag(data, HierarchyHistory)
	if err != nil {
		return nil, err
	}
	newSnap, ok := snapshotRegistry[tag]
	if !ok {
		return nil, unknownTagErr(HierarchyHistory, tag)
	}
	s := newSnap()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fieldTypeErr(HierarchyHistory, tag, err)
	}
	return s, nil
}

// Decode decodes data in the hierarchy chosen by the caller. The result is a
// LiveItem for HierarchyLive and a Snapshot for HierarchyHistory.
func Decode(data []byte, h Hierarchy) (any, error) {
	switch h {
	case HierarchyLive:
		return DecodeLive(data)
	case HierarchyHistory:
		return DecodeSnapshot(data)
	}
	return nil, decodeErr(h, "", fmt.Errorf("unsupported hierarchy %d", int(h)))
}

// readTag extracts the discriminator. A syntax error in the envelope, a
// missing, null or non-string historyType are all DECODE_ERRORs.
func readTag(data []byte, h Hierarchy) (HistoryType, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", decodeErr(h, "", fmt.Errorf("payload is not a JSON object: %w", err))
	}
	raw, ok := envelope[DiscriminatorField]
	if !ok {
		return "", decodeErr(h, "", fmt.Errorf("missing %s", DiscriminatorField))
	}
	if string(raw) == "null" {
		return "", decodeErr(h, "", fmt.Errorf("%s is null", DiscriminatorField))
	}
	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		return "", decodeErr(h, "", fmt.Errorf("%s must be a string: %w", DiscriminatorField, err))
	}
	return HistoryType(tag), nil
}

// EncodeLiveList renders items as a JSON array of discriminated objects.
func EncodeLiveList(items []LiveItem) ([]byte, error) {
	if items == nil {
		items = []LiveItem{}
	}
	return json.Marshal(items)
}

// EncodeSnapshotList renders snapshots as a JSON array of discriminated objects.
func EncodeSnapshotList(snaps []Snapshot) ([]byte, error) {
	if snaps == nil {
		snaps = []Snapshot{}
	}
	return json.Marshal(snaps)
}

// DecodeLiveList decodes a JSON array of live payloads. The error for a bad
// element names its index and still matches ErrDecode or ErrFieldType.
func DecodeLiveList(data []byte) ([]LiveItem, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, decodeErr(HierarchyLive, "", fmt.Errorf("payload is not a JSON array: %w", err))
	}
	items := make([]LiveItem, 0, len(raws))
	for i, raw := range raws {
		item, err := DecodeLive(raw)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// DecodeSnapshotList decodes a JSON array of snapshot payloads.
func DecodeSnapshotList(data []byte) ([]Snapshot, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, decodeErr(HierarchyHistory, "", fmt.Errorf("payload is not a JSON array: %w", err))
	}
	snaps := make([]Snapshot, 0, len(raws))
	for i, raw := range raws {
		s, err := DecodeSnapshot(raw)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		snaps = append(snaps, s)
	}
	return snaps, nil
}
