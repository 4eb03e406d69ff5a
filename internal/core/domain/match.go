package domain

// Match is one node of a search result tree. A section-level node
// carries its hits as children; hits are leaves identified by their own
// position identifier. The tree is at most two levels deep.
type Match struct {
	// ID identifies the node: the owning nav item's href for section
	// nodes, the hit's CFI for leaves.
	ID string

	// Excerpt is the display text: the nav item label for section
	// nodes, the surrounding text for hits.
	Excerpt string

	// Description is the breadcrumb of ancestor labels, section
	// nodes only.
	Description string

	// CFI is the hit's position identifier, leaves only.
	CFI string

	// Subitems holds the hits beneath a section node.
	Subitems []Match

	// Expanded is the node's expansion flag.
	Expanded bool
}
