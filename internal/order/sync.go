package order

import (
	"github.com/BakaI9/excalidraw/internal/mutation"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// SyncMovedIndices assigns fresh indices to the moved elements, keeping every
// other element's index. Each run of adjacent moved elements gets keys between
// its unmoved neighbours. When the neighbours themselves are out of order the
// whole slice is repaired with SyncInvalidIndices instead.
//
// Index writes go through the engine without store notification.
func SyncMovedIndices(engine *mutation.Engine, elements []*types.Element, moved map[string]bool) error {
	type run struct{ from, to int }
	var runs []run
	for i := 0; i < len(elements); {
		if !moved[elements[i].ID] {
			i++
			continue
		}
		j := i
		for j < len(elements) && moved[elements[j].ID] {
			j++
		}
		runs = append(runs, run{i, j})
		i = j
	}

	for _, r := range runs {
		lower, upper := "", ""
		if r.from > 0 {
			lower = elements[r.from-1].Index
		}
		if r.to < len(elements) {
			upper = elements[r.to].Index
		}
		if !boundsOK(lower, upper, r.from > 0, r.to < len(elements)) {
			return SyncInvalidIndices(engine, elements)
		}
		keys, err := KeysBetween(lower, upper, r.to-r.from)
		if err != nil {
			return SyncInvalidIndices(engine, elements)
		}
		if err := writeKeys(engine, elements[r.from:r.to], keys); err != nil {
			return err
		}
	}
	return nil
}

func boundsOK(lower, upper string, hasLower, hasUpper bool) bool {
	if hasLower && !IsValidKey(lower) {
		return false
	}
	if hasUpper && !IsValidKey(upper) {
		return false
	}
	return !(hasLower && hasUpper) || lower < upper
}

// SyncInvalidIndices repairs the slice so indices strictly increase. It keeps
// the longest greedy run of valid ascending keys from the front and generates
// keys for everything else.
func SyncInvalidIndices(engine *mutation.Engine, elements []*types.Element) error {
	keep := make([]bool, len(elements))
	last := ""
	for i, el := range elements {
		if IsValidKey(el.Index) && (last == "" || el.Index > last) {
			keep[i] = true
			last = el.Index
		}
	}

	for i := 0; i < len(elements); {
		if keep[i] {
			i++
			continue
		}
		j := i
		for j < len(elements) && !keep[j] {
			j++
		}
		lower, upper := "", ""
		if i > 0 {
			lower = elements[i-1].Index
		}
		if j < len(elements) {
			upper = elements[j].Index
		}
		keys, err := KeysBetween(lower, upper, j-i)
		if err != nil {
			return err
		}
		if err := writeKeys(engine, elements[i:j], keys); err != nil {
			return err
		}
		i = j
	}
	return nil
}

// IsOrdered reports whether every index is valid and strictly increasing.
func IsOrdered(elements []*types.Element) bool {
	last := ""
	for _, el := range elements {
		if !IsValidKey(el.Index) || (last != "" && el.Index <= last) {
			return false
		}
		last = el.Index
	}
	return true
}

func writeKeys(engine *mutation.Engine, elements []*types.Element, keys []string) error {
	for i, el := range elements {
		if _, err := engine.Mutate(nil, el, types.Updates{types.FieldIndex: keys[i]}, mutation.WithInform(false)); err != nil {
			return err
		}
	}
	return nil
}
