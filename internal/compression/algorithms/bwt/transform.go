package bwt

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
)

// sortedRotations returns the start offsets of every rotation of message in
// sorted order. Equal rotations keep their original order.
//
// Rotations are ranked by prefix doubling: after the round for k, rank[i]
// orders the rotations by their first 2k symbols, read cyclically.
func sortedRotations(message []byte) []int {
	n := len(message)
	rotations := make([]int, n)
	rank := make([]int, n)
	for i := range rotations {
		rotations[i] = i
		rank[i] = int(message[i])
	}
	if n < 2 {
		return rotations
	}

	next := make([]int, n)
	for k := 1; ; k *= 2 {
		compare := func(i, j int) int {
			if c := cmp.Compare(rank[i], rank[j]); c != 0 {
				return c
			}
			if c := cmp.Compare(rank[(i+k)%n], rank[(j+k)%n]); c != 0 {
				return c
			}
			return cmp.Compare(i, j)
		}
		slices.SortFunc(rotations, compare)

		next[rotations[0]] = 0
		for row := 1; row < n; row++ {
			previous, current := rotations[row-1], rotations[row]
			next[current] = next[previous]
			if rank[previous] != rank[current] || rank[(previous+k)%n] != rank[(current+k)%n] {
				next[current]++
			}
		}
		rank, next = next, rank

		if 2*k >= n || rank[rotations[n-1]] == n-1 {
			return rotations
		}
	}
}

// Transform returns the last symbol of every sorted rotation of message and the
// rank of the unrotated message among the sorted rotations.
func Transform(message []byte) ([]byte, int) {
	n := len(message)
	rotations := sortedRotations(message)
	last := make([]byte, n)
	rank := 0
	for row, start := range rotations {
		last[row] = message[(start+n-1)%n]
		if start == 0 {
			rank = row
		}
	}
	return last, rank
}

// Inverse rebuilds the message from the last column and the rank returned by
// Transform.
func Inverse(last []byte, rank int) ([]byte, error) {
	n := len(last)
	if n == 0 {
		return []byte{}, nil
	}
	if rank < 0 || rank >= n {
		return nil, codecerr.ErrMalformedHeader.WithMessage(fmt.Sprintf("rank %d of %d rotations", rank, n))
	}

	// firstRow[s] is the first sorted row starting with symbol s.
	var firstRow [257]int
	for _, symbol := range last {
		firstRow[int(symbol)+1]++
	}
	for s := 1; s < len(firstRow); s++ {
		firstRow[s] += firstRow[s-1]
	}

	// previous[row] is the row of the rotation that starts one symbol earlier.
	var seen [256]int
	previous := make([]int, n)
	for row, symbol := range last {
		previous[row] = firstRow[symbol] + seen[symbol]
		seen[symbol]++
	}

	message := make([]byte, n)
	row := rank
	for i := n - 1; i >= 0; i-- {
		message[i] = last[row]
		row = previous[row]
	}
	return message, nil
}
