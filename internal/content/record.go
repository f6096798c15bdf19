package content

import (
	"encoding/json"
	"time"
)

// Record is one row of a content table. Values holds the data columns keyed
// by column name: string (or nil when NULL) for text, int64 for integers and
// []string for lists.
type Record struct {
	ID        int64
	Version   int64
	Values    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// String returns a text column, or "" when absent or NULL.
func (r *Record) String(column string) string {
	if s, ok := r.Values[column].(string); ok {
		return s
	}
	return ""
}

func (r *Record) Int(column string) int64 {
	if n, ok := r.Values[column].(int64); ok {
		return n
	}
	return 0
}

func (r *Record) Strings(column string) []string {
	if l, ok := r.Values[column].([]string); ok {
		return l
	}
	return nil
}

// URLs returns every image URL referenced by the record's image slots.
func (r *Record) URLs(schema *Schema) []string {
	var urls []string
	for _, slot := range schema.Images {
		urls = append(urls, r.slotURLs(slot)...)
	}
	return urls
}

func (r *Record) slotURLs(slot ImageSlot) []string {
	if slot.Multiple {
		return r.Strings(slot.Column)
	}
	if u := r.String(slot.Column); u != "" {
		return []string{u}
	}
	return nil
}

// MarshalJSON renders the record as one flat object, the shape the admin and
// public clients consume.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Values)+4)
	for k, v := range r.Values {
		out[k] = v
	}
	out["id"] = r.ID
	out["version"] = r.Version
	out["created_at"] = r.CreatedAt.UTC().Format(time.RFC3339)
	out["updated_at"] = r.UpdatedAt.UTC().Format(time.RFC3339)
	return json.Marshal(out)
}
