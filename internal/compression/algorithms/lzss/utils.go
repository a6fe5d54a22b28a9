package lzss

import "sort"

// DefaultWindowSize is the window length used when none is configured.
const DefaultWindowSize = 1024

// window is the sliding window over content: the symbols content[start:end].
// While a match is being extended it grows past size; trim brings it back.
type window struct {
	content    []byte
	start, end int
	size       int
	// positions holds, per symbol, the ascending absolute positions at which
	// the symbol entered the window. Entries before start are dropped lazily.
	positions [256][]int
}

func newWindow(content []byte, size int) *window {
	return &window{content: content, size: size}
}

func (w *window) len() int {
	return w.end - w.start
}

// push moves the next input symbol into the window.
func (w *window) push() {
	symbol := w.content[w.end]
	w.positions[symbol] = append(w.positions[symbol], w.end)
	w.end++
}

// trim drops the oldest symbols until at most size remain.
func (w *window) trim() {
	if w.len() > w.size {
		w.start = w.end - w.size
	}
}

// candidates appends to dst every window position holding symbol.
func (w *window) candidates(dst []int, symbol byte) []int {
	list := w.positions[symbol]
	first := sort.SearchInts(list, w.start)
	list = list[first:]
	w.positions[symbol] = list
	return append(dst, list...)
}
