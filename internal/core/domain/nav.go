package domain

import "strings"

// NavItem is one node of a book's outline tree.
type NavItem struct {
	// ID is the unique identifier within the tree.
	ID string

	// Href locates the target resource, possibly with a fragment.
	Href string

	// Label is the display text.
	Label string

	// Parent is the parent node's ID, empty for roots.
	Parent string

	// Subitems is the ordered list of child nodes.
	Subitems []*NavItem
}

// FlatNavItem is a nav item annotated for display in a flattened list.
type FlatNavItem struct {
	*NavItem

	// Depth is the node's depth in the tree, starting at 0.
	Depth int

	// Expanded is the node's expansion flag.
	Expanded bool
}

// FlattenTree returns node annotated with depth and its expanded flag
// looked up by id, followed by its flattened children. Collapsed nodes
// contribute no children to the output.
func FlattenTree(node *NavItem, depth int, expanded map[string]bool) []FlatNavItem {
	out := []FlatNavItem{{NavItem: node, Depth: depth, Expanded: expanded[node.ID]}}
	if expanded[node.ID] {
		for _, child := range node.Subitems {
			out = append(out, FlattenTree(child, depth+1, expanded)...)
		}
	}
	return out
}

// WalkTree visits node and its descendants pre-order, passing each
// visited node's depth to visit.
func WalkTree(node *NavItem, depth int, visit func(*NavItem, int)) {
	visit(node, depth)
	for _, child := range node.Subitems {
		WalkTree(child, depth+1, visit)
	}
}

// CompareHref reports whether a section href and a nav item href refer
// to the same resource. The comparison is a suffix match in either
// direction, with the nav href's fragment stripped, to tolerate
// relative-path differences between the spine and the outline.
func CompareHref(sectionHref, navHref string) bool {
	if sectionHref == "" || navHref == "" {
		return false
	}
	target, _, _ := strings.Cut(navHref, "#")
	if target == "" {
		return false
	}
	return strings.HasSuffix(sectionHref, target) || strings.HasSuffix(target, sectionHref)
}

// FindNavItem returns the first nav item in the outline whose href
// matches sectionHref. First match wins.
func FindNavItem(toc []*NavItem, sectionHref string) *NavItem {
	var found *NavItem
	for _, root := range toc {
		WalkTree(root, 0, func(n *NavItem, _ int) {
			if found == nil && CompareHref(sectionHref, n.Href) {
				found = n
			}
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// NavPath returns the chain of nav items from the root down to item.
func NavPath(toc []*NavItem, item *NavItem) []*NavItem {
	byID := make(map[string]*NavItem)
	for _, root := range toc {
		WalkTree(root, 0, func(n *NavItem, _ int) {
			byID[n.ID] = n
		})
	}

	var path []*NavItem
	for item != nil {
		path = append([]*NavItem{item}, path...)
		if item.Parent == "" {
			break
		}
		item = byID[item.Parent]
	}
	return path
}
