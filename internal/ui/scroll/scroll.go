// Package scroll holds the window arithmetic shared by the tree pane
// and the record grid. Offsets stored in component state may drift out
// of range as content or terminal size changes; they are clamped here,
// at render time, instead of being chased on every mutation.
package scroll

// Clamp restricts an offset to [0, max(0, total-viewport)].
func Clamp(offset, total, viewport int) int {
	limit := total - viewport
	if limit < 0 {
		limit = 0
	}
	if offset > limit {
		offset = limit
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// Window returns the half-open visible range [start, end) for a list of
// total items in a viewport, after clamping the requested offset.
func Window(offset, total, viewport int) (start, end int) {
	if viewport < 0 {
		viewport = 0
	}
	start = Clamp(offset, total, viewport)
	end = start + viewport
	if end > total {
		end = total
	}
	return start, end
}

// Follow adjusts an offset so that the item at index stays inside the
// viewport, scrolling the minimum distance in either direction.
func Follow(offset, index, total, viewport int) int {
	offset = Clamp(offset, total, viewport)
	if index < 0 || viewport <= 0 {
		return offset
	}
	if index < offset {
		return index
	}
	if index >= offset+viewport {
		return index - viewport + 1
	}
	return offset
}
