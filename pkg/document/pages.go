package document

import "regexp"

// Page objects carry /Type /Page; the page tree root carries /Type /Pages.
// The negative check on the trailing byte keeps tree nodes out of the count.
var pageObjRe = regexp.MustCompile(`/Type\s*/Page([^s]|$)`)

// PageCount scans the raw PDF bytes for page objects. Best effort for the
// preview surface only: cross-reference streams and object compression can
// hide page objects, in which case the count falls back to 1 for any
// payload that looks like a PDF at all.
func PageCount(data []byte) int {
	if SniffMIME(data) != MIMEPDF {
		return 0
	}
	n := len(pageObjRe.FindAllIndex(data, -1))
	if n == 0 {
		return 1
	}
	return n
}
