package scan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// BoundingBox is an element's rendered rectangle in viewport coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Attr is one HTML attribute.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attributes preserves DOM attribute order, which a plain map would lose.
// It marshals to and from a JSON object whose key order is the DOM order.
type Attributes []Attr

// Get returns the value of the named attribute.
func (a Attributes) Get(name string) (string, bool) {
	for _, at := range a {
		if at.Name == name {
			return at.Value, true
		}
	}
	return "", false
}

// Has reports whether the named attribute is present.
func (a Attributes) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// MarshalJSON writes an object with keys in attribute order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, at := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(at.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(at.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object token by token so key order survives.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("attributes: expected object, got %v", tok)
	}

	out := Attributes{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("attributes: expected string key, got %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("attributes: value for %q: %w", key, err)
		}
		out = append(out, Attr{Name: key, Value: value})
	}
	*a = out
	return nil
}

// Record is one clickable candidate found during an analysis pass.
// Immutable once built; indices are stable for the life of the Analysis.
type Record struct {
	Index        int          `json:"index"`
	TagName      string       `json:"tag_name"`
	Text         string       `json:"text"`
	Attributes   Attributes   `json:"attributes"`
	XPath        string       `json:"xpath"`
	IsVisible    bool         `json:"is_visible"`
	IsInViewport bool         `json:"is_in_viewport"`
	BoundingBox  *BoundingBox `json:"bounding_box,omitempty"`
	Reason       Reason       `json:"classification_reason"`
}

// Disabled reports whether the element carried a disabled attribute. Such
// elements are indexed anyway; click attempts against them fail explicitly.
func (r *Record) Disabled() bool {
	return r.Attributes.Has("disabled")
}

// Center returns the midpoint of the bounding box in viewport coordinates.
func (r *Record) Center() (x, y float64, ok bool) {
	if r.BoundingBox == nil {
		return 0, 0, false
	}
	b := r.BoundingBox
	return b.X + b.Width/2, b.Y + b.Height/2, true
}

// identifying attributes worth showing in the one-line listing
var listedAttrs = []string{"id", "class", "name", "role", "type", "href"}

// String renders the record as a single listing line: [3] <a href="/x">Go</a>
func (r *Record) String() string {
	var attrs []string
	for _, name := range listedAttrs {
		if v, ok := r.Attributes.Get(name); ok {
			attrs = append(attrs, fmt.Sprintf("%s=%q", name, v))
		}
	}
	open := r.TagName
	if len(attrs) > 0 {
		open += " " + strings.Join(attrs, " ")
	}
	return fmt.Sprintf("[%d] <%s>%s</%s>", r.Index, open, r.Text, r.TagName)
}

// Analysis is one point-in-time snapshot of a page's clickable elements.
// It owns its records; a fresh analysis produces a wholly new set with
// re-assigned indices.
type Analysis struct {
	URL       string   `json:"url"`
	Title     string   `json:"title"`
	Timestamp string   `json:"timestamp"`
	Elements  []Record `json:"elements"`
}

// Resolve maps an index back to its record. Index validity is scoped to this
// Analysis; keep the (analysis, index) pair together.
func (a *Analysis) Resolve(index int) (*Record, error) {
	if index < 0 || index >= len(a.Elements) {
		return nil, fmt.Errorf("index %d of %d elements: %w", index, len(a.Elements), ErrIndexOutOfRange)
	}
	return &a.Elements[index], nil
}

// SaveFile writes the analysis as indented JSON.
func (a *Analysis) SaveFile(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
