package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// EntryID is the canonical string form of a journal entry id. Older clients
// sent ids as JSON numbers, so decoding accepts both and always yields the
// decimal string; comparisons are then plain equality.
type EntryID string

// NewEntryID derives an id from a creation time in milliseconds.
func NewEntryID(t time.Time) EntryID {
	return EntryID(strconv.FormatInt(t.UnixMilli(), 10))
}

func (id EntryID) String() string { return string(id) }

// ParseEntryID canonicalizes ids arriving as strings or numbers.
func ParseEntryID(v interface{}) EntryID {
	switch x := v.(type) {
	case nil:
		return ""
	case EntryID:
		return EntryID(strings.TrimSpace(string(x)))
	case string:
		return EntryID(strings.TrimSpace(x))
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return EntryID(strconv.FormatInt(n, 10))
		}
		if f, err := x.Float64(); err == nil {
			return floatID(f)
		}
		return EntryID(strings.TrimSpace(x.String()))
	case int:
		return EntryID(strconv.Itoa(x))
	case int32:
		return EntryID(strconv.FormatInt(int64(x), 10))
	case int64:
		return EntryID(strconv.FormatInt(x, 10))
	case uint64:
		return EntryID(strconv.FormatUint(x, 10))
	case float32:
		return floatID(float64(x))
	case float64:
		return floatID(x)
	case fmt.Stringer:
		return EntryID(strings.TrimSpace(x.String()))
	default:
		return EntryID(strings.TrimSpace(fmt.Sprint(v)))
	}
}

func floatID(f float64) EntryID {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return EntryID(strconv.FormatInt(int64(f), 10))
	}
	return EntryID(strconv.FormatFloat(f, 'f', -1, 64))
}

// UnmarshalJSON accepts "123", 123 and null.
func (id *EntryID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*id = ""
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*id = ParseEntryID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("entry id: %w", err)
	}
	*id = ParseEntryID(n)
	return nil
}

// UnmarshalBSONValue lets documents written with numeric ids decode too.
func (id *EntryID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*id = ParseEntryID(raw.StringValue())
	case bsontype.Int32:
		*id = ParseEntryID(raw.Int32())
	case bsontype.Int64:
		*id = ParseEntryID(raw.Int64())
	case bsontype.Double:
		*id = ParseEntryID(raw.Double())
	case bsontype.Null, bsontype.Undefined:
		*id = ""
	default:
		return fmt.Errorf("entry id: unsupported bson type %s", t)
	}
	return nil
}
