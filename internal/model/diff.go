package model

import "sort"

// Diff is the minimal reconciling operation set between two snapshots:
// applying ToUpsert then ToDelete to a store in the old state yields the new
// state's entry collection. Charge codes are not diffed; the catalog is
// immutable from this system's perspective.
type Diff struct {
	ToUpsert []TimeEntry `json:"to_upsert"`
	ToDelete []int64     `json:"to_delete"`
}

// Empty reports whether the diff carries no operations.
func (d Diff) Empty() bool {
	return len(d.ToUpsert) == 0 && len(d.ToDelete) == 0
}

// ComputeDiff is directional: it describes how to move a store in state old
// toward state new. An entry that moved days is a single upsert carrying the
// new day, never a delete-and-insert pair. Output is sorted by id so replay
// order is deterministic.
func ComputeDiff(old, new *FullState) Diff {
	oldByID := make(map[int64]*TimeEntry)
	for day := range old.TimeEntries {
		entries := old.TimeEntries[day]
		for i := range entries {
			oldByID[entries[i].ID] = &entries[i]
		}
	}

	var diff Diff
	newIDs := make(map[int64]struct{})
	for _, entries := range new.TimeEntries {
		for i := range entries {
			entry := entries[i]
			newIDs[entry.ID] = struct{}{}
			prev, ok := oldByID[entry.ID]
			if !ok || !entry.Equal(prev) {
				diff.ToUpsert = append(diff.ToUpsert, entry.Clone())
			}
		}
	}

	for id := range oldByID {
		if _, ok := newIDs[id]; !ok {
			diff.ToDelete = append(diff.ToDelete, id)
		}
	}

	sort.Slice(diff.ToUpsert, func(i, j int) bool { return diff.ToUpsert[i].ID < diff.ToUpsert[j].ID })
	sort.Slice(diff.ToDelete, func(i, j int) bool { return diff.ToDelete[i] < diff.ToDelete[j] })
	return diff
}
