package scan_test

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"clickmap/internal/scan"
)

func sampleAnalysis() *scan.Analysis {
	return &scan.Analysis{
		URL:       "https://example.com",
		Title:     "Example",
		Timestamp: "2026-08-23 10:30:00",
		Elements: []scan.Record{
			{
				Index:   0,
				TagName: "a",
				Text:    "Go",
				Attributes: scan.Attributes{
					{Name: "href", Value: "/next"},
					{Name: "class", Value: "btn primary"},
					{Name: "aria-label", Value: "Go next"},
				},
				XPath:        "/html[1]/body[1]/a[1]",
				IsVisible:    true,
				IsInViewport: true,
				BoundingBox: &scan.BoundingBox{
					X: 10.5, Y: 20.25, Width: 80, Height: 24,
					Top: 20.25, Right: 90.5, Bottom: 44.25, Left: 10.5,
				},
				Reason: scan.TagMatch,
			},
			{
				Index:      1,
				TagName:    "div",
				Attributes: scan.Attributes{{Name: "onclick", Value: "go()"}},
				XPath:      "/html[1]/body[1]/div[1]",
				Reason:     scan.AttributeMatch,
			},
		},
	}
}

func TestResolve(t *testing.T) {
	a := sampleAnalysis()

	for i := range a.Elements {
		rec, err := a.Resolve(i)
		if err != nil {
			t.Fatalf("Resolve(%d) error: %v", i, err)
		}
		if rec.Index != i {
			t.Errorf("Resolve(%d).Index = %d", i, rec.Index)
		}
	}

	for _, bad := range []int{-1, len(a.Elements), 99} {
		if _, err := a.Resolve(bad); !errors.Is(err, scan.ErrIndexOutOfRange) {
			t.Errorf("Resolve(%d) error = %v, want ErrIndexOutOfRange", bad, err)
		}
	}
}

func TestAnalysisJSONRoundTrip(t *testing.T) {
	a := sampleAnalysis()

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back scan.Analysis
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if back.URL != a.URL || back.Title != a.Title || back.Timestamp != a.Timestamp {
		t.Errorf("header fields changed: %+v", back)
	}
	if len(back.Elements) != len(a.Elements) {
		t.Fatalf("element count %d, want %d", len(back.Elements), len(a.Elements))
	}

	got, want := back.Elements[0], a.Elements[0]
	if got.Index != want.Index || got.TagName != want.TagName || got.Text != want.Text ||
		got.XPath != want.XPath || got.IsVisible != want.IsVisible ||
		got.IsInViewport != want.IsInViewport || got.Reason != want.Reason {
		t.Errorf("scalar fields changed:\ngot  %+v\nwant %+v", got, want)
	}
	if !reflect.DeepEqual(got.Attributes, want.Attributes) {
		t.Errorf("attribute order not preserved:\ngot  %v\nwant %v", got.Attributes, want.Attributes)
	}
	if got.BoundingBox == nil {
		t.Fatal("bounding box lost")
	}
	if math.Abs(got.BoundingBox.Right-want.BoundingBox.Right) > 1e-9 {
		t.Errorf("box.right = %v, want %v", got.BoundingBox.Right, want.BoundingBox.Right)
	}
}

func TestRecordJSONFieldNames(t *testing.T) {
	a := sampleAnalysis()
	data, err := json.Marshal(&a.Elements[0])
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)

	for _, field := range []string{
		`"index"`, `"tag_name"`, `"text"`, `"attributes"`, `"xpath"`,
		`"is_visible"`, `"is_in_viewport"`, `"bounding_box"`, `"classification_reason"`,
	} {
		if !strings.Contains(s, field) {
			t.Errorf("exported JSON missing %s: %s", field, s)
		}
	}

	// Attribute object keys must appear in DOM order.
	if strings.Index(s, `"href"`) > strings.Index(s, `"class"`) ||
		strings.Index(s, `"class"`) > strings.Index(s, `"aria-label"`) {
		t.Errorf("attribute keys out of order: %s", s)
	}
}

func TestBoundingBoxOmittedWhenAbsent(t *testing.T) {
	a := sampleAnalysis()
	data, err := json.Marshal(&a.Elements[1])
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "bounding_box") {
		t.Errorf("bounding_box must be omitted for boxless records: %s", data)
	}
}

func TestRecordString(t *testing.T) {
	a := sampleAnalysis()
	got := a.Elements[0].String()
	want := `[0] <a class="btn primary" href="/next">Go</a>`

	// Listing shows identifying attributes only, in a fixed order.
	if got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
