package paging

// LastPage is the sentinel page index meaning "resolve to the final
// page against the current list length".
const LastPage = -1

const (
	MinPageSize = 2
	MaxPageSize = 20
)

// ClampSize forces a requested page size into the supported range, so
// buttons minted before a deploy keep working.
func ClampSize(size int) int {
	if size < MinPageSize {
		return MinPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// ClampIndex collapses every negative index onto the last-page
// sentinel; non-negative indexes pass through.
func ClampIndex(index int) int {
	if index < 0 {
		return LastPage
	}
	return index
}

// Slice computes the visible window for one page. For a non-negative
// index the window is items[index*size : (index+1)*size] bounds-checked,
// and the page is the last one when the window came up short. The
// sentinel resolves to index len/size with the len%size remainder as
// the window; a zero remainder yields an empty window on purpose.
func Slice[T any](items []T, index, size int) (window []T, resolved int, last bool) {
	size = ClampSize(size)

	if index >= 0 {
		start := index * size
		if start > len(items) {
			start = len(items)
		}
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		return items[start:end], index, end-start < size
	}

	resolved = len(items) / size
	remainder := len(items) % size
	return items[len(items)-remainder:], resolved, true
}
