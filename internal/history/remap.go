package history

import "github.com/bethropolis/pagehist/internal/types"

// RemapStacksAfterPageRemoval returns a new state with removed's entry
// dropped and every page above it shifted down by one. Items inside the
// shifted snapshots that still point at their old page are re-pointed at
// the new one, so a later apply lands them on the right page. The input
// is not modified. A negative removed page leaves the keys as they are.
func RemapStacksAfterPageRemoval(stacks types.Stacks, removed int) types.Stacks {
	next := make(types.Stacks, len(stacks))
	for page, snaps := range stacks {
		switch {
		case removed < 0 || page < removed:
			next[page] = snaps
		case page == removed:
			// dropped with the page
		default:
			next[page-1] = retarget(snaps, page, page-1)
		}
	}
	return next
}

// RemapStacksAfterPageInsertion returns a new state for a page inserted at
// index inserted: every page at or above it moves up by one.
func RemapStacksAfterPageInsertion(stacks types.Stacks, inserted int) types.Stacks {
	next := make(types.Stacks, len(stacks))
	for page, snaps := range stacks {
		if inserted < 0 || page < inserted {
			next[page] = snaps
			continue
		}
		next[page+1] = retarget(snaps, page, page+1)
	}
	return next
}

// retarget copies snaps, rewriting page references from -> to. Items that
// do not refer to from are shared, which is safe because stored snapshots
// are never mutated.
func retarget(snaps []types.Snapshot, from, to int) []types.Snapshot {
	if snaps == nil {
		return nil
	}
	out := make([]types.Snapshot, len(snaps))
	for i := range snaps {
		for _, k := range types.Kinds {
			items := snaps[i].Items(k)
			if items == nil {
				continue
			}
			moved := make([]types.Item, len(items))
			for j, it := range items {
				if p, ok := PageOf(it); ok && p == from {
					moved[j] = SetPageRef(it, to)
				} else {
					moved[j] = it
				}
			}
			out[i].SetItems(k, moved)
		}
	}
	return out
}
