package docsystem

import "context"

// parentLookup returns the parent id of a folder, nil when it has none
type parentLookup func(ctx context.Context, id string) (*string, error)

// wouldCreateCycle reports whether attaching childID under parentID would
// make childID its own ancestor. It walks parentID's ancestor chain by id
// until a folder without a parent, so the cost is bounded by the depth of
// the tree. A chain that revisits a folder is reported as a cycle as well.
func wouldCreateCycle(ctx context.Context, childID, parentID string, lookup parentLookup) (bool, error) {
	if childID == parentID {
		return true, nil
	}

	visited := map[string]struct{}{}
	current := parentID
	for {
		if current == childID {
			return true, nil
		}
		if _, seen := visited[current]; seen {
			return true, nil
		}
		visited[current] = struct{}{}

		next, err := lookup(ctx, current)
		if err != nil {
			return false, err
		}
		if next == nil || *next == "" {
			return false, nil
		}
		current = *next
	}
}
