package patienthistory

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveRoundTrip(t *testing.T) {
	for _, item := range append(fullLiveItems(), emptyLiveItems()...) {
		t.Run(item.String(), func(t *testing.T) {
			data, err := EncodeLive(item)
			require.NoError(t, err)

			got, err := DecodeLive(data)
			require.NoError(t, err)
			assert.IsType(t, item, got)
			assert.True(t, item.Equal(got), "round trip changed %s into %s", item, got)
			assert.Equal(t, item.Hash(), got.Hash())
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	for _, s := range append(fullSnapshots(), emptySnapshots()...) {
		t.Run(s.String(), func(t *testing.T) {
			data, err := EncodeSnapshot(s)
			require.NoError(t, err)

			got, err := DecodeSnapshot(data)
			require.NoError(t, err)
			assert.IsType(t, s, got)
			assert.True(t, s.Equal(got), "round trip changed %s into %s", s, got)
		})
	}
}

func TestEncodeCarriesDiscriminator(t *testing.T) {
	for _, item := range fullLiveItems() {
		data, err := EncodeLive(item)
		require.NoError(t, err)

		var obj map[string]any
		require.NoError(t, json.Unmarshal(data, &obj))
		assert.Equal(t, string(item.HistoryType()), obj[DiscriminatorField])
	}
	for _, s := range fullSnapshots() {
		data, err := EncodeSnapshot(s)
		require.NoError(t, err)

		var obj map[string]any
		require.NoError(t, json.Unmarshal(data, &obj))
		assert.Equal(t, string(s.HistoryType()), obj[DiscriminatorField])
	}
}

func TestEncodeEmitsNullOptionals(t *testing.T) {
	data, err := EncodeLive(&URL{ItemBase: ItemBase{ID: 1, PatientID: 2}})
	require.NoError(t, err)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	for _, key := range []string{"maskId", "date", "url", "urlName"} {
		v, ok := obj[key]
		assert.True(t, ok, "expected %s to be present", key)
		assert.Nil(t, v, "expected %s to be null", key)
	}
}

func TestDecodeHierarchyIsolation(t *testing.T) {
	data, err := EncodeLive(fullRegular())
	require.NoError(t, err)

	s, err := DecodeSnapshot(data)
	require.NoError(t, err)
	rh, ok := s.(*RegularHistory)
	require.True(t, ok, "expected *RegularHistory, got %T", s)
	assert.Equal(t, int64(11), rh.ID)

	v, err := Decode(data, HierarchyLive)
	require.NoError(t, err)
	assert.IsType(t, &Regular{}, v)

	v, err = Decode(data, HierarchyHistory)
	require.NoError(t, err)
	assert.IsType(t, &RegularHistory{}, v)
}

func TestDecodeRejectsBadDiscriminator(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"unknown tag", `{"historyType":"BOGUS","id":1}`},
		{"lowercase tag", `{"historyType":"url","id":1}`},
		{"missing tag", `{"id":1,"patientId":2}`},
		{"null tag", `{"historyType":null,"id":1}`},
		{"numeric tag", `{"historyType":3,"id":1}`},
		{"empty tag", `{"historyType":"","id":1}`},
		{"not an object", `[{"historyType":"URL"}]`},
		{"malformed", `{"historyType":"URL",`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := DecodeLive([]byte(tt.payload))
			assert.Nil(t, item)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecode), "expected DECODE_ERROR, got %v", err)
			assert.False(t, errors.Is(err, ErrFieldType))

			snap, err := DecodeSnapshot([]byte(tt.payload))
			assert.Nil(t, snap)
			assert.True(t, errors.Is(err, ErrDecode), "expected DECODE_ERROR, got %v", err)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, KindDecode, de.Kind)
			assert.Equal(t, HierarchyHistory, de.Hierarchy)
		})
	}
}

func TestDecodeIgnoresUnknownProperties(t *testing.T) {
	payload := `{"historyType":"URL","id":1,"patientId":2,"historyTypeId":15,
		"futureField":{"nested":[1,2,3]},"anotherOne":"x"}`

	item, err := DecodeLive([]byte(payload))
	require.NoError(t, err)
	u, ok := item.(*URL)
	require.True(t, ok)
	assert.Equal(t, int64(15), u.HistoryTypeID)
}

func TestDecodeFieldTypeError(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"string id", `{"historyType":"URL","id":"abc"}`},
		{"numeric url", `{"historyType":"URL","id":1,"url":42}`},
		{"string flag", `{"historyType":"TRACKING","id":1,"active":"yes"}`},
		{"bad date", `{"historyType":"FREE_TEXT","id":1,"date":"05/03/2024"}`},
		{"numeric date", `{"historyType":"REGULAR","id":1,"date":20240305}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := DecodeLive([]byte(tt.payload))
			assert.Nil(t, item, "field type errors must not return a partial object")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFieldType), "expected FIELD_TYPE_ERROR, got %v", err)
			assert.False(t, errors.Is(err, ErrDecode))
		})
	}
}

func TestDecodeConcreteURLExample(t *testing.T) {
	payload := `{"historyType":"URL","id":1,"patientId":23680,"historyTypeId":15,
		"url":"www.example.com","urlName":"Sample"}`

	item, err := DecodeLive([]byte(payload))
	require.NoError(t, err)
	u, ok := item.(*URL)
	require.True(t, ok, "expected *URL, got %T", item)

	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, int64(23680), u.PatientID)
	assert.Nil(t, u.MaskID)
	assert.False(t, u.IsMasked())
	assert.Equal(t, int64(15), u.HistoryTypeID)
	assert.Nil(t, u.Date)
	require.NotNil(t, u.URL)
	assert.Equal(t, "www.example.com", *u.URL)
	require.NotNil(t, u.URLName)
	assert.Equal(t, "Sample", *u.URLName)
	assert.False(t, u.Deleted)

	data, err := EncodeLive(u)
	require.NoError(t, err)
	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	assert.Equal(t, "URL", obj["historyType"])
	assert.Equal(t, "www.example.com", obj["url"])
}

func TestEncodeNil(t *testing.T) {
	_, err := EncodeLive(nil)
	assert.Error(t, err)
	_, err = EncodeSnapshot(nil)
	assert.Error(t, err)
}

func TestLiveListRoundTrip(t *testing.T) {
	items := fullLiveItems()
	data, err := EncodeLiveList(items)
	require.NoError(t, err)

	got, err := DecodeLiveList(data)
	require.NoError(t, err)
	require.Len(t, got, len(items))
	for i := range items {
		assert.True(t, items[i].Equal(got[i]), "element %d differs", i)
	}

	empty, err := EncodeLiveList(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(empty))
}

func TestSnapshotListRoundTrip(t *testing.T) {
	snaps := fullSnapshots()
	data, err := EncodeSnapshotList(snaps)
	require.NoError(t, err)

	got, err := DecodeSnapshotList(data)
	require.NoError(t, err)
	require.Len(t, got, len(snaps))
	for i := range snaps {
		assert.True(t, snaps[i].Equal(got[i]), "element %d differs", i)
	}
}

func TestDecodeListElementError(t *testing.T) {
	_, err := DecodeLiveList([]byte(`[{"historyType":"URL","id":1},{"historyType":"NOPE"}]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
	assert.Contains(t, err.Error(), "element 1")

	_, err = DecodeSnapshotList([]byte(`{"historyType":"URL"}`))
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestRegistriesCoverEveryTag(t *testing.T) {
	for _, tag := range HistoryTypes {
		item, ok := NewLiveItem(tag)
		require.True(t, ok, "no live variant for %s", tag)
		assert.Equal(t, tag, item.HistoryType())

		s, ok := NewSnapshot(tag)
		require.True(t, ok, "no snapshot variant for %s", tag)
		assert.Equal(t, tag, s.HistoryType())
	}
	_, ok := NewLiveItem("BOGUS")
	assert.False(t, ok)
}

func TestParseHistoryType(t *testing.T) {
	tests := []struct {
		in      string
		want    HistoryType
		wantErr bool
	}{
		{"URL", TypeURL, false},
		{"free-text", TypeFreeText, false},
		{"Free_Text", TypeFreeText, false},
		{" tracking ", TypeTracking, false},
		{"regular", TypeRegular, false},
		{"history", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseHistoryType(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestDecodeErrorMessage(t *testing.T) {
	_, err := DecodeLive([]byte(`{"historyType":"BOGUS"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DECODE_ERROR")
	assert.Contains(t, err.Error(), "BOGUS")
	assert.NotContains(t, err.Error(), "<nil>")

	_, err = DecodeLive([]byte(`{"historyType":"URL","id":"x"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIELD_TYPE_ERROR")
	assert.Contains(t, err.Error(), "URL")
}
