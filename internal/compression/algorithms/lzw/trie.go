package lzw

// trie is the LZW dictionary. Node identities are arena indexes, assigned in
// creation order; the root is node 0.
type trie struct {
	children []map[byte]int
}

func newTrie() *trie {
	return &trie{children: []map[byte]int{{}}}
}

func (t *trie) size() int {
	return len(t.children)
}

func (t *trie) child(node int, symbol byte) (int, bool) {
	id, ok := t.children[node][symbol]
	return id, ok
}

// insert adds the edge node -symbol-> and returns the identity of the new node.
func (t *trie) insert(node int, symbol byte) int {
	id := len(t.children)
	t.children = append(t.children, map[byte]int{})
	t.children[node][symbol] = id
	return id
}

// seed inserts one single-symbol entry per distinct alphabet symbol, in order.
func (t *trie) seed(alphabet []byte) {
	for _, symbol := range alphabet {
		if _, ok := t.child(0, symbol); !ok {
			t.insert(0, symbol)
		}
	}
}
