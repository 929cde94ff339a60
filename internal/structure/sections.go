package structure

import "github.com/specdex/specdex/internal/document"

// Section is a contiguous run of elements opened by a heading (or the
// document's leading content before the first heading).
type Section []document.StructureElement

// GroupBySections partitions the element stream into sections: each heading
// closes the running section and opens a new one. The result covers the
// input exactly, in order, with no gaps or overlaps. Empty input yields an
// empty section list.
func GroupBySections(elements []document.StructureElement) []Section {
	var sections []Section
	var current Section

	for _, elem := range elements {
		if elem.IsHeading() && len(current) > 0 {
			sections = append(sections, current)
			current = nil
		}
		current = append(current, elem)
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}
	return sections
}
