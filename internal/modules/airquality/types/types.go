package types

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/Sriverasc/AireAPI/internal/temporal"
)

// Timestamp is a record key. It decodes any ISO 8601 date-time accepted by
// temporal.ParseKey, naive values as UTC, and always encodes as RFC 3339 UTC.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &temporal.ParseError{Field: "date_time", Value: string(b), Layout: "ISO 8601 date-time string"}
	}
	parsed, err := temporal.ParseKey("date_time", s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Reading is the capability set the generic repository and controller need
// from an entity: a key plus an explicit column mapping. It is implemented by
// *OutsideReading and *InsideReading.
type Reading[T any] interface {
	*T
	// Table is the storage table name.
	Table() string
	Key() time.Time
	SetKey(time.Time)
	// Columns lists the measurement columns, without the key, in the order
	// used by Values and Targets.
	Columns() []string
	Values() []any
	Targets() []any
}
