// Package content implements the generic content-section resource: a table
// described by a Schema, whose rows carry text fields and image URLs issued
// by a blob store.
package content

import "strings"

// Kind is the storage type of a field.
type Kind int

const (
	Text Kind = iota
	// Int fields are parsed leniently: blank or malformed input stores 0.
	Int
	// List fields hold an ordered set of strings persisted as a JSON array.
	List
)

type Field struct {
	Name     string // column name and form field name
	Kind     Kind
	Required bool
	// Nullable stores blank input as NULL instead of an empty string.
	Nullable bool
}

// ImageSlot is a column holding the public URL(s) of uploaded image(s).
type ImageSlot struct {
	Column string
	// Form is the multipart file field that carries a new upload.
	Form string
	// Fallback is the form field that carries an already issued URL. On
	// update it keeps the slot unchanged when no new file is sent.
	Fallback string
	// Prefix is prepended to object keys in the schema's bucket.
	Prefix   string
	Required bool
	// Multiple slots hold a list of URLs; uploads append to it.
	Multiple bool
	// AltColumn names a text field that is filled with a generated
	// description when left blank.
	AltColumn string
}

type Order struct {
	Column string
	Desc   bool
}

type Schema struct {
	// Name is the route segment, e.g. "about-section".
	Name   string
	Table  string
	Bucket string
	Fields []Field
	Images []ImageSlot
	Order  Order
	// Singleton sections are read and written as a single logical record.
	Singleton bool
}

// Columns returns the data columns in insert order: fields, then images.
func (s *Schema) Columns() []string {
	cols := make([]string, 0, len(s.Fields)+len(s.Images))
	for _, f := range s.Fields {
		cols = append(cols, f.Name)
	}
	for _, img := range s.Images {
		cols = append(cols, img.Column)
	}
	return cols
}

// kindOf reports the storage kind of a data column.
func (s *Schema) kindOf(column string) Kind {
	for _, f := range s.Fields {
		if f.Name == column {
			return f.Kind
		}
	}
	for _, img := range s.Images {
		if img.Column == column && img.Multiple {
			return List
		}
	}
	return Text
}

func (s *Schema) nullable(column string) bool {
	for _, f := range s.Fields {
		if f.Name == column {
			return f.Nullable
		}
	}
	return false
}

func (s *Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s *Schema) orderClause() string {
	dir := "ASC"
	if s.Order.Desc {
		dir = "DESC"
	}
	col := s.Order.Column
	if col == "" || col == "id" {
		return "id " + dir
	}
	return col + " " + dir + ", id " + dir
}

func (s *Schema) selectList() string {
	return "id, version, " + strings.Join(s.Columns(), ", ") + ", created_at, updated_at"
}
