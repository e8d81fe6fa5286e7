package browser

import (
	"fmt"
	"strings"
)

// PathSegment is one hop of an element's ancestor chain: the element's tag
// and its 1-based position among same-tag element siblings.
type PathSegment struct {
	Tag   string
	Index int
}

// SynthesizeXPath builds a locator that re-resolves to exactly the captured
// node. A node with its own id gets an id predicate. Otherwise the segment
// chain is rooted at the nearest id-bearing ancestor, or at body when no
// ancestor carries an id. An empty chain without an id means synthesis
// failed for the node; the caller records an empty locator.
func SynthesizeXPath(id, anchorID string, path []PathSegment) string {
	if id != "" {
		return fmt.Sprintf(`//*[@id="%s"]`, id)
	}

	if len(path) == 0 {
		return ""
	}

	var b strings.Builder

	if anchorID != "" {
		fmt.Fprintf(&b, `//*[@id="%s"]`, anchorID)
	} else {
		b.WriteString("//body")
	}

	for _, segment := range path {
		fmt.Fprintf(&b, "/%s[%d]", segment.Tag, segment.Index)
	}

	return b.String()
}
