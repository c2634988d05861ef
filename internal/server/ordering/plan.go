// Package ordering keeps the order values of gallery entries dense.
//
// Two policies are used, each for a fixed kind of change:
//
//   - Full renormalization after a delete: the remaining entries are sorted
//     by their current order and renumbered 1..N.
//   - Swap on conflict for a targeted move: if another entry already holds
//     the target order, it takes over the moved entry's old order.
//
// New entries are appended at max+1. Higher order means more prominent.
//
// The functions in this file are pure and compute the changes to persist;
// Engine reads snapshots, applies them with a revision check and retries
// when the snapshot went stale.
package ordering

import (
	"fmt"
	"sort"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/server/models"
)

// emptyBase is the max order assumed for an empty store, so the first
// entry gets order 1.
const emptyBase = 0

// NextOrder returns 1 + the highest order in entries.
func NextOrder(entries []*models.Entry) int {
	max := emptyBase
	for _, e := range entries {
		if e.Order > max {
			max = e.Order
		}
	}
	return max + 1
}

// Bounds returns the lowest and highest order in entries. ok is false for
// an empty slice.
func Bounds(entries []*models.Entry) (lo, hi int, ok bool) {
	for i, e := range entries {
		if i == 0 || e.Order < lo {
			lo = e.Order
		}
		if i == 0 || e.Order > hi {
			hi = e.Order
		}
	}
	return lo, hi, len(entries) > 0
}

// SortDescending orders entries most prominent first. Ties (possible only
// after a failed write outside a transaction) fall back to id.
func SortDescending(entries []*models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Order != entries[j].Order {
			return entries[i].Order > entries[j].Order
		}
		return entries[i].ID < entries[j].ID
	})
}

// Renormalize drops excludeID from the working set, renumbers the rest
// 1..N in ascending order of their current value and returns only the
// entries whose order changes.
func Renormalize(entries []*models.Entry, excludeID string) map[string]int {
	working := make([]*models.Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != excludeID {
			working = append(working, e)
		}
	}
	SortDescending(working)

	changes := make(map[string]int)
	n := len(working)
	for i, e := range working {
		if want := n - i; e.Order != want {
			changes[e.ID] = want
		}
	}
	return changes
}

// PlanMove computes the writes that put id at target. The target must lie
// between 1 and the current highest order. Moving to the current order
// yields no changes.
func PlanMove(entries []*models.Entry, id string, target int) (map[string]int, error) {
	var moved, holder *models.Entry
	for _, e := range entries {
		switch {
		case e.ID == id:
			moved = e
		case e.Order == target && holder == nil:
			holder = e
		}
	}
	if moved == nil {
		return nil, common.ErrorNotFound
	}

	_, hi, _ := Bounds(entries)
	if target < 1 || target > hi {
		return nil, fmt.Errorf("%w: order %d out of range 1..%d", common.ErrorValidation, target, hi)
	}

	changes := make(map[string]int)
	if moved.Order == target {
		return changes, nil
	}
	changes[moved.ID] = target
	if holder != nil {
		changes[holder.ID] = moved.Order
	}
	return changes, nil
}
