// Package tree turns the flat category rows returned by the repository into
// the nested shape clients render.
package tree

import "github.com/fekuna/omnipos-catalog-service/internal/model"

// Build links each category under its parent and returns the roots.
//
// Categories with no parent, or whose parent id is not in the input, are roots.
// Roots and children keep input order. The input slice is not modified; each
// output node is a shallow copy with its own Children slice.
//
// Build never fails. Categories caught in a parent cycle are reachable from no
// root; after the regular roots, the first unplaced category (in input order)
// is promoted to a root and whatever hangs under it is placed, until every
// category appears exactly once.
func Build(categories []model.Category) []model.Category {
	n := len(categories)

	index := make(map[string]int, n)
	for i, c := range categories {
		if _, dup := index[c.ID]; !dup {
			index[c.ID] = i
		}
	}

	children := make([][]int, n)
	roots := make([]int, 0, n)
	for i, c := range categories {
		if c.ParentID != nil {
			if p, ok := index[*c.ParentID]; ok && p != i {
				children[p] = append(children[p], i)
				continue
			}
		}
		roots = append(roots, i)
	}

	placed := make([]bool, n)
	var materialize func(i int) model.Category
	materialize = func(i int) model.Category {
		placed[i] = true
		node := categories[i]
		node.Children = make([]model.Category, 0, len(children[i]))
		for _, c := range children[i] {
			if !placed[c] {
				node.Children = append(node.Children, materialize(c))
			}
		}
		return node
	}

	forest := make([]model.Category, 0, len(roots))
	for _, r := range roots {
		forest = append(forest, materialize(r))
	}
	for i := range categories {
		if !placed[i] {
			forest = append(forest, materialize(i))
		}
	}
	return forest
}

// Count returns the number of nodes in the forest at every depth.
func Count(forest []model.Category) int {
	total := 0
	for i := range forest {
		total += 1 + Count(forest[i].Children)
	}
	return total
}

// Find returns the node with the given id, searching depth first.
func Find(forest []model.Category, id string) (*model.Category, bool) {
	for i := range forest {
		if forest[i].ID == id {
			return &forest[i], true
		}
		if found, ok := Find(forest[i].Children, id); ok {
			return found, true
		}
	}
	return nil, false
}

// DescendantIDs returns rootID followed by the ids of every category below it,
// breadth first.
func DescendantIDs(categories []model.Category, rootID string) []string {
	byParent := make(map[string][]string, len(categories))
	for _, c := range categories {
		if c.ParentID != nil {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c.ID)
		}
	}

	seen := map[string]bool{rootID: true}
	ids := []string{rootID}
	for i := 0; i < len(ids); i++ {
		for _, child := range byParent[ids[i]] {
			if !seen[child] {
				seen[child] = true
				ids = append(ids, child)
			}
		}
	}
	return ids
}

// WouldCycle reports whether moving id under newParentID would make id its own
// ancestor.
func WouldCycle(categories []model.Category, id, newParentID string) bool {
	if id == newParentID {
		return true
	}

	parentOf := make(map[string]string, len(categories))
	for _, c := range categories {
		if c.ParentID != nil {
			if _, dup := parentOf[c.ID]; !dup {
				parentOf[c.ID] = *c.ParentID
			}
		}
	}

	seen := map[string]bool{}
	for cur := newParentID; cur != ""; {
		if cur == id {
			return true
		}
		if seen[cur] {
			// existing cycle that doesn't involve id
			return false
		}
		seen[cur] = true
		cur = parentOf[cur]
	}
	return false
}
