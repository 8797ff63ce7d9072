package patienthistory

import (
	"encoding/binary"
	"time"

	"github.com/cespare/xxhash/v2"
)

// hasher feeds record fields into an xxhash digest. Optional values write a
// presence byte first so that nil and zero hash differently.
type hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func newHasher(kind string, tag HistoryType) *hasher {
	h := &hasher{d: xxhash.New()}
	h.str(kind)
	h.str(string(tag))
	return h
}

func (h *hasher) int64(v int64) {
	binary.LittleEndian.PutUint64(h.buf[:], uint64(v))
	_, _ = h.d.Write(h.buf[:])
}

func (h *hasher) optInt64(v *int64) {
	if v == nil {
		h.bool(false)
		return
	}
	h.bool(true)
	h.int64(*v)
}

func (h *hasher) bool(v bool) {
	b := byte(0)
	if v {
		b = 1
	}
	_, _ = h.d.Write([]byte{b})
}

func (h *hasher) str(s string) {
	h.int64(int64(len(s)))
	_, _ = h.d.WriteString(s)
}

func (h *hasher) optStr(s *string) {
	if s == nil {
		h.bool(false)
		return
	}
	h.bool(true)
	h.str(*s)
}

func (h *hasher) date(d *Date) {
	if d == nil {
		h.bool(false)
		return
	}
	h.bool(true)
	h.int64(int64(d.Year))
	h.int64(int64(d.Month))
	h.int64(int64(d.Day))
}

// time hashes the instant, not the location, to agree with time.Equal.
func (h *hasher) time(t time.Time) {
	t = t.UTC()
	h.int64(t.Unix())
	h.int64(int64(t.Nanosecond()))
}

func (h *hasher) optTime(t *time.Time) {
	if t == nil {
		h.bool(false)
		return
	}
	h.bool(true)
	h.time(*t)
}

func (h *hasher) sum() uint64 { return h.d.Sum64() }
