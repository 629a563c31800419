// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageSize is the default number of rows returned by a list endpoint.
const PageSize = 50

// ParseLimit reads the "limit" query parameter. Missing, invalid, or
// out-of-range values fall back to max.
func ParseLimit(r *http.Request, max int64) int64 {
	if max <= 0 {
		max = PageSize
	}
	n, err := strconv.ParseInt(query.Get(r, "limit"), 10, 64)
	if err != nil || n < 1 || n > max {
		return max
	}
	return n
}

// Cursor is a keyset position in a newest-first list: the created_at and
// _id of the last row the client saw.
type Cursor struct {
	At time.Time
	ID primitive.ObjectID
}

// CursorFor returns the cursor positioned at a row.
func CursorFor(at time.Time, id primitive.ObjectID) Cursor {
	return Cursor{At: at.UTC(), ID: id}
}

// Encode returns the opaque string form handed to clients.
func (c Cursor) Encode() string {
	return wafflemongo.EncodeCursor(c.At.UTC().Format(time.RFC3339Nano), c.ID)
}

// Decode parses a cursor produced by Encode.
func Decode(s string) (Cursor, bool) {
	raw, ok := wafflemongo.DecodeCursor(s)
	if !ok {
		return Cursor{}, false
	}
	at, err := time.Parse(time.RFC3339Nano, raw.CI)
	if err != nil {
		return Cursor{}, false
	}
	return Cursor{At: at, ID: raw.ID}, true
}

// ParseAfter reads the "after" query parameter. A missing value returns
// (nil, true); a malformed one returns (nil, false).
func ParseAfter(r *http.Request) (*Cursor, bool) {
	s := query.Get(r, "after")
	if s == "" {
		return nil, true
	}
	c, ok := Decode(s)
	if !ok {
		return nil, false
	}
	return &c, true
}

// OlderThan returns the filter clause selecting rows that sort after c in
// a (timeField desc, _id desc) ordering.
func (c Cursor) OlderThan(timeField string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{timeField: bson.M{"$lt": c.At}},
		bson.M{timeField: c.At, "_id": bson.M{"$lt": c.ID}},
	}}
}

// TrimPage trims rows fetched with limit+1 look-ahead back to limit and
// reports whether another page exists.
func TrimPage[T any](rows *[]T, limit int64) bool {
	if int64(len(*rows)) > limit {
		*rows = (*rows)[:limit]
		return true
	}
	return false
}
