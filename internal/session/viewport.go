package session

// viewport is the contiguous index range of a list's entries currently
// rendered. It is cached on the list and recomputed when the list or its
// cursor changes.
type viewport struct {
	start  int
	height int
}

func newViewport(height int) viewport {
	if height < 1 {
		height = 1
	}
	return viewport{start: 0, height: height}
}

// winLen is the window length: min(configured height, total entries).
func (v viewport) winLen(total int) int {
	if total < v.height {
		return total
	}
	return v.height
}

// contain shifts the window by the minimum amount needed to re-contain
// idx. It never recenters.
func (v *viewport) contain(idx, total int) {
	wl := v.winLen(total)
	if wl == 0 {
		v.start = 0
		return
	}
	end := v.start + wl - 1
	switch {
	case idx < v.start:
		v.start = idx
	case idx > end:
		v.start = idx - wl + 1
	}
	if v.start < 0 {
		v.start = 0
	}
	if v.start > total-wl {
		v.start = total - wl
	}
}

// bounds returns the inclusive [start, end] range of the window.
func (v viewport) bounds(total int) (int, int) {
	wl := v.winLen(total)
	if wl == 0 {
		return 0, -1
	}
	return v.start, v.start + wl - 1
}
