// Package similarity provides fuzzy lookup over vocabulary records using
// BK-trees.
package similarity

import "github.com/lithammer/fuzzysearch/fuzzy"

// BKTree is a BK-tree over string keys using rune-aware Levenshtein
// distance. Each key carries the ids of the items that share it.
type BKTree struct {
	root *bkNode
	size int
}

type bkNode struct {
	key      string
	ids      []string
	children map[int]*bkNode
}

// NewBKTree creates a new empty BK-tree.
func NewBKTree() *BKTree {
	return &BKTree{}
}

// Insert adds id under key. Empty keys are ignored.
func (t *BKTree) Insert(key, id string) {
	if key == "" {
		return
	}

	if t.root == nil {
		t.root = newNode(key, id)
		t.size++
		return
	}

	current := t.root
	for {
		dist := fuzzy.LevenshteinDistance(key, current.key)
		if dist == 0 {
			current.ids = append(current.ids, id)
			return
		}

		child, exists := current.children[dist]
		if !exists {
			current.children[dist] = newNode(key, id)
			t.size++
			return
		}
		current = child
	}
}

func newNode(key, id string) *bkNode {
	return &bkNode{key: key, ids: []string{id}, children: make(map[int]*bkNode)}
}

// Match is a key within the search distance.
type Match struct {
	Key      string
	IDs      []string
	Distance int
}

// Search finds all keys within maxDistance of the query.
func (t *BKTree) Search(query string, maxDistance int) []Match {
	if t.root == nil || query == "" || maxDistance < 0 {
		return nil
	}

	var matches []Match
	t.searchNode(t.root, query, maxDistance, &matches)
	return matches
}

func (t *BKTree) searchNode(node *bkNode, query string, maxDistance int, matches *[]Match) {
	dist := fuzzy.LevenshteinDistance(query, node.key)

	if dist <= maxDistance {
		*matches = append(*matches, Match{Key: node.key, IDs: node.ids, Distance: dist})
	}

	// Triangle inequality bounds the children worth visiting.
	for childDist, child := range node.children {
		if childDist >= dist-maxDistance && childDist <= dist+maxDistance {
			t.searchNode(child, query, maxDistance, matches)
		}
	}
}

// Size returns the number of distinct keys in the tree.
func (t *BKTree) Size() int {
	return t.size
}

// Contains checks if a key exists in the tree.
func (t *BKTree) Contains(key string) bool {
	return len(t.Search(key, 0)) > 0
}
