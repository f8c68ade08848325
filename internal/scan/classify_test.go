package scan_test

import (
	"testing"

	"clickmap/internal/scan"
)

func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		name      string
		node      scan.Node
		want      scan.Reason
		clickable bool
	}{
		{
			name:      "anchor with href",
			node:      scan.Node{Tag: "a", Attrs: scan.Attributes{{Name: "href", Value: "#"}}},
			want:      scan.TagMatch,
			clickable: true,
		},
		{
			name:      "anchor without href",
			node:      scan.Node{Tag: "a"},
			clickable: false,
		},
		{
			name:      "button",
			node:      scan.Node{Tag: "button"},
			want:      scan.TagMatch,
			clickable: true,
		},
		{
			name:      "disabled button still classified",
			node:      scan.Node{Tag: "button", Attrs: scan.Attributes{{Name: "disabled", Value: ""}}},
			want:      scan.TagMatch,
			clickable: true,
		},
		{
			name:      "submit input",
			node:      scan.Node{Tag: "input", Attrs: scan.Attributes{{Name: "type", Value: "submit"}}},
			want:      scan.TagMatch,
			clickable: true,
		},
		{
			name:      "checkbox input",
			node:      scan.Node{Tag: "input", Attrs: scan.Attributes{{Name: "type", Value: "checkbox"}}},
			want:      scan.TagMatch,
			clickable: true,
		},
		{
			name:      "text input is not a click target",
			node:      scan.Node{Tag: "input", Attrs: scan.Attributes{{Name: "type", Value: "text"}}},
			clickable: false,
		},
		{
			name:      "input without type is not a click target",
			node:      scan.Node{Tag: "input"},
			clickable: false,
		},
		{
			name:      "textarea",
			node:      scan.Node{Tag: "textarea"},
			want:      scan.TagMatch,
			clickable: true,
		},
		{
			name:      "select",
			node:      scan.Node{Tag: "select"},
			want:      scan.TagMatch,
			clickable: true,
		},
		{
			name:      "summary",
			node:      scan.Node{Tag: "summary"},
			want:      scan.TagMatch,
			clickable: true,
		},
		{
			name:      "details",
			node:      scan.Node{Tag: "details"},
			want:      scan.TagMatch,
			clickable: true,
		},
		{
			name:      "div with button role",
			node:      scan.Node{Tag: "div", Attrs: scan.Attributes{{Name: "role", Value: "button"}}},
			want:      scan.RoleMatch,
			clickable: true,
		},
		{
			name:      "div with switch role",
			node:      scan.Node{Tag: "div", Attrs: scan.Attributes{{Name: "role", Value: "switch"}}},
			want:      scan.RoleMatch,
			clickable: true,
		},
		{
			name:      "div with presentation role",
			node:      scan.Node{Tag: "div", Attrs: scan.Attributes{{Name: "role", Value: "presentation"}}},
			clickable: false,
		},
		{
			name: "tag beats role",
			node: scan.Node{Tag: "button", Attrs: scan.Attributes{{Name: "role", Value: "link"}}},
			want: scan.TagMatch, clickable: true,
		},
		{
			name:      "div with onclick handler",
			node:      scan.Node{Tag: "div", HasHandler: true},
			want:      scan.AttributeMatch,
			clickable: true,
		},
		{
			name: "role beats handler",
			node: scan.Node{Tag: "div", Attrs: scan.Attributes{{Name: "role", Value: "tab"}}, HasHandler: true},
			want: scan.RoleMatch, clickable: true,
		},
		{
			name: "tabindex with accessible name",
			node: scan.Node{
				Tag:            "div",
				Attrs:          scan.Attributes{{Name: "tabindex", Value: "0"}},
				AccessibleName: "Open menu",
			},
			want:      scan.AttributeMatch,
			clickable: true,
		},
		{
			name: "negative tabindex",
			node: scan.Node{
				Tag:            "div",
				Attrs:          scan.Attributes{{Name: "tabindex", Value: "-1"}},
				AccessibleName: "Open menu",
			},
			clickable: false,
		},
		{
			name:      "tabindex without accessible name",
			node:      scan.Node{Tag: "div", Attrs: scan.Attributes{{Name: "tabindex", Value: "2"}}},
			clickable: false,
		},
		{
			name:      "cursor pointer",
			node:      scan.Node{Tag: "div", Cursor: "pointer"},
			want:      scan.CursorStyleMatch,
			clickable: true,
		},
		{
			name: "handler beats cursor",
			node: scan.Node{Tag: "div", HasHandler: true, Cursor: "pointer"},
			want: scan.AttributeMatch, clickable: true,
		},
		{
			name:      "plain div",
			node:      scan.Node{Tag: "div", Cursor: "default"},
			clickable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := scan.Classify(tt.node)
			if ok != tt.clickable {
				t.Fatalf("Classify() clickable = %v, want %v", ok, tt.clickable)
			}
			if ok && got != tt.want {
				t.Errorf("Classify() reason = %q, want %q", got, tt.want)
			}
		})
	}
}
