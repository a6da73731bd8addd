package models

import (
	"strconv"
	"strings"
)

// JSONValue is a generic type to represent any JSON value.
// This can be a string, number, boolean, null, object, or array.
// Numbers are carried as json.Number so they survive round-trips unchanged.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Step is one element of a parsed configuration path: either a key into an
// object or an index into an array. IsIndex distinguishes the two; Key and
// Index are only meaningful for their respective variants.
type Step struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key returns a key step selecting a mapping entry.
func Key(name string) Step {
	return Step{Key: name}
}

// Index returns an index step selecting a sequence entry.
func Index(i int) Step {
	return Step{Index: i, IsIndex: true}
}

// Path is an ordered sequence of steps from the document root to a target
// location. An empty path denotes the root itself.
type Path []Step

// String renders the path in its canonical dotted/bracketed form. Parsing the
// result yields the same step sequence.
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if s.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Key)
	}
	return b.String()
}
