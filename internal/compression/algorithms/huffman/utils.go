package huffman

import (
	"container/heap"
	"fmt"

	"github.com/adilg123/bitarchiver/internal/compression/bitstream"
	"github.com/adilg123/bitarchiver/internal/compression/codecerr"
)

const noSymbol = -1

// huffmanNode lives in a per-call arena; its index is its identity and doubles
// as the creation order used to break frequency ties.
type huffmanNode struct {
	freq        int
	symbol      int
	left, right int
}

type huffmanArena struct {
	nodes []huffmanNode
}

func (a *huffmanArena) newLeaf(symbol byte, freq int) int {
	a.nodes = append(a.nodes, huffmanNode{freq: freq, symbol: int(symbol), left: -1, right: -1})
	return len(a.nodes) - 1
}

func (a *huffmanArena) newNode(left, right int) int {
	a.nodes = append(a.nodes, huffmanNode{
		freq:   a.nodes[left].freq + a.nodes[right].freq,
		symbol: noSymbol,
		left:   left,
		right:  right,
	})
	return len(a.nodes) - 1
}

func (a *huffmanArena) isLeaf(id int) bool {
	return a.nodes[id].symbol != noSymbol
}

type huffmanHeap struct {
	arena *huffmanArena
	ids   []int
}

func (hub *huffmanHeap) Push(item any) {
	hub.ids = append(hub.ids, item.(int))
}

func (hub *huffmanHeap) Pop() any {
	popped := hub.ids[len(hub.ids)-1]
	hub.ids = hub.ids[:len(hub.ids)-1]
	return popped
}

func (hub *huffmanHeap) Len() int {
	return len(hub.ids)
}

func (hub *huffmanHeap) Less(i, j int) bool {
	x, y := hub.arena.nodes[hub.ids[i]], hub.arena.nodes[hub.ids[j]]
	if x.freq != y.freq {
		return x.freq < y.freq
	}
	return hub.ids[i] < hub.ids[j]
}

func (hub *huffmanHeap) Swap(i, j int) {
	hub.ids[i], hub.ids[j] = hub.ids[j], hub.ids[i]
}

// buildTree merges the two least frequent nodes until one remains. Leaves are
// created in order of first appearance in content. It returns -1 for empty
// content.
func buildTree(arena *huffmanArena, content []byte) int {
	var symbolFreq [256]int
	var order []byte
	for _, b := range content {
		if symbolFreq[b] == 0 {
			order = append(order, b)
		}
		symbolFreq[b]++
	}
	if len(order) == 0 {
		return -1
	}

	treehub := &huffmanHeap{arena: arena}
	for _, symbol := range order {
		treehub.ids = append(treehub.ids, arena.newLeaf(symbol, symbolFreq[symbol]))
	}
	heap.Init(treehub)
	for treehub.Len() > 1 {
		x := heap.Pop(treehub).(int)
		y := heap.Pop(treehub).(int)
		heap.Push(treehub, arena.newNode(x, y))
	}
	return heap.Pop(treehub).(int)
}

// leavesByDepth lists the leaf symbols found at every depth, left to right.
func leavesByDepth(arena *huffmanArena, root int) [][]byte {
	type frame struct{ id, depth int }
	var byDepth [][]byte
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if arena.isLeaf(top.id) {
			for len(byDepth) <= top.depth {
				byDepth = append(byDepth, nil)
			}
			byDepth[top.depth] = append(byDepth[top.depth], byte(arena.nodes[top.id].symbol))
			continue
		}
		node := arena.nodes[top.id]
		stack = append(stack, frame{node.right, top.depth + 1}, frame{node.left, top.depth + 1})
	}
	return byDepth
}

// leafSlot is a leaf position of a canonical tree: its depth and the path to it.
type leafSlot struct {
	depth int
	code  bitstream.Bits
}

// canonicalSlots lays out the canonical tree for the given per-depth leaf
// counts. Walking depth-first, left child first, a node becomes a leaf whenever
// its depth still has leaves left, otherwise it gets two children. The result
// depends on the counts alone, so a decoder can rebuild it from the header.
func canonicalSlots(counts []int) ([]leafSlot, error) {
	remaining := append([]int(nil), counts...)
	maxDepth := len(counts) - 1
	var slots []leafSlot
	stack := []leafSlot{{depth: 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if remaining[top.depth] > 0 {
			remaining[top.depth]--
			slots = append(slots, top)
			continue
		}
		if top.depth >= maxDepth {
			return nil, codecerr.ErrMalformedHeader.WithMessage(
				fmt.Sprintf("not enough leaves for a node at depth %d", top.depth))
		}
		stack = append(stack,
			leafSlot{depth: top.depth + 1, code: extend(top.code, 1)},
			leafSlot{depth: top.depth + 1, code: extend(top.code, 0)},
		)
	}
	for depth, left := range remaining {
		if left > 0 {
			return nil, codecerr.ErrMalformedHeader.WithMessage(
				fmt.Sprintf("%d leaves at depth %d have no place in the tree", left, depth))
		}
	}
	return slots, nil
}

func extend(code bitstream.Bits, bit uint8) bitstream.Bits {
	out := make(bitstream.Bits, len(code)+1)
	copy(out, code)
	out[len(code)] = bit
	return out
}

// leafBudgets returns, for every depth, the number of leaves that could still
// sit at that depth given the leaves placed above it.
func leafBudgets(counts []int) []int {
	budgets := make([]int, len(counts))
	maxLeafs := 1
	for depth, count := range counts {
		budgets[depth] = maxLeafs
		maxLeafs = (maxLeafs - count) * 2
	}
	return budgets
}

// CodeTable maps every symbol of one input to its canonical code.
type CodeTable struct {
	// Symbols lists the symbols in left-to-right order of the canonical tree.
	Symbols []byte
	Codes   map[byte]bitstream.Bits
	// LeafCounts holds the number of leaves at each depth of the tree.
	LeafCounts []int
}

// BuildCodeTable derives the canonical code for content. Empty content yields
// an empty table.
func BuildCodeTable(content []byte) (*CodeTable, error) {
	table := &CodeTable{Codes: make(map[byte]bitstream.Bits)}
	arena := &huffmanArena{}
	root := buildTree(arena, content)
	if root < 0 {
		return table, nil
	}

	byDepth := leavesByDepth(arena, root)
	table.LeafCounts = make([]int, len(byDepth))
	for depth, symbols := range byDepth {
		table.LeafCounts[depth] = len(symbols)
	}

	slots, err := canonicalSlots(table.LeafCounts)
	if err != nil {
		return nil, err
	}
	for _, slot := range slots {
		atDepth := byDepth[slot.depth]
		symbol := atDepth[len(atDepth)-1]
		byDepth[slot.depth] = atDepth[:len(atDepth)-1]
		table.Symbols = append(table.Symbols, symbol)
		table.Codes[symbol] = slot.code
	}
	return table, nil
}
