package scan

import "strconv"

// Reason records which rule flagged an element as clickable.
type Reason string

const (
	// TagMatch: the element is one of the inherently interactive tags.
	TagMatch Reason = "tag_match"
	// RoleMatch: the element carries an interactive ARIA role.
	RoleMatch Reason = "role_match"
	// AttributeMatch: script handlers or a focusable tabindex with a name.
	AttributeMatch Reason = "attribute_match"
	// CursorStyleMatch: computed cursor is pointer. Weakest signal; the
	// extractor suppresses it inside nested interactive regions.
	CursorStyleMatch Reason = "cursor_style_match"
)

// Node is the descriptor Classify decides over. It carries everything the
// rules need and nothing tied to a live page, so classification stays pure.
type Node struct {
	Tag            string
	Attrs          Attributes
	Cursor         string // computed cursor style
	HasHandler     bool   // onclick/onmousedown/onmouseup, attribute or property
	AccessibleName string
}

var clickableInputTypes = map[string]bool{
	"button":   true,
	"submit":   true,
	"reset":    true,
	"checkbox": true,
	"radio":    true,
	"image":    true,
}

var clickableRoles = map[string]bool{
	"button":   true,
	"link":     true,
	"menuitem": true,
	"tab":      true,
	"checkbox": true,
	"radio":    true,
	"switch":   true,
}

// Classify decides whether a node is clickable and why. Rules are evaluated
// in precedence order and the first match wins: explicit semantic tags are
// the most reliable signal, role and handler attributes catch custom widgets,
// and cursor style is the noisiest and comes last.
func Classify(n Node) (Reason, bool) {
	if tagClickable(n) {
		return TagMatch, true
	}

	if role, ok := n.Attrs.Get("role"); ok && clickableRoles[role] {
		return RoleMatch, true
	}

	if n.HasHandler {
		return AttributeMatch, true
	}
	if ti, ok := n.Attrs.Get("tabindex"); ok && n.AccessibleName != "" {
		if v, err := strconv.Atoi(ti); err == nil && v >= 0 {
			return AttributeMatch, true
		}
	}

	if n.Cursor == "pointer" {
		return CursorStyleMatch, true
	}

	return "", false
}

func tagClickable(n Node) bool {
	switch n.Tag {
	case "a":
		return n.Attrs.Has("href")
	case "button", "select", "textarea", "summary", "details":
		return true
	case "input":
		typ, _ := n.Attrs.Get("type")
		return clickableInputTypes[typ]
	}
	return false
}
