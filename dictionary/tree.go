package dictionary

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Tree is a fully materialized dictionary tree. Leaves past the word list are
// zero, and subtrees made only of zero leaves are never stored.
type Tree struct {
	depth  int
	hasher Hasher
	levels [][]Digest // levels[0] = leaves, levels[depth] = [root]
	zeros  []Digest   // zeros[l] = root of an all-zero subtree of height l
	index  map[string]int
	words  []string
}

// Build commits words, in order, to a tree of the given depth.
func Build(words []string, depth int, hasher Hasher) (*Tree, error) {
	if depth < 1 || depth > 32 {
		return nil, fmt.Errorf("dictionary: depth %d out of range", depth)
	}
	if capacity := uint64(1) << depth; uint64(len(words)) > capacity {
		return nil, fmt.Errorf("dictionary: %d words do not fit %d leaves", len(words), capacity)
	}

	t := &Tree{
		depth:  depth,
		hasher: hasher,
		levels: make([][]Digest, depth+1),
		zeros:  make([]Digest, depth+1),
		index:  make(map[string]int, len(words)),
		words:  words,
	}
	for l := 1; l <= depth; l++ {
		z, err := hasher.Hash(t.zeros[l-1], t.zeros[l-1])
		if err != nil {
			return nil, err
		}
		t.zeros[l] = z
	}

	leaves := make([]Digest, len(words))
	for i, w := range words {
		leaf, err := Leaf([]byte(w))
		if err != nil {
			return nil, fmt.Errorf("dictionary: word %d %q: %w", i, w, err)
		}
		if _, dup := t.index[w]; dup {
			return nil, fmt.Errorf("dictionary: duplicate word %q", w)
		}
		t.index[w] = i
		leaves[i] = leaf
	}
	t.levels[0] = leaves

	for l := 1; l <= depth; l++ {
		below := t.levels[l-1]
		n := (len(below) + 1) / 2
		if l == depth {
			n = 1
		}
		level := make([]Digest, n)
		for i := range level {
			left, right := t.node(l-1, 2*i), t.node(l-1, 2*i+1)
			h, err := hasher.Hash(left, right)
			if err != nil {
				return nil, err
			}
			level[i] = h
		}
		t.levels[l] = level
	}
	return t, nil
}

func (t *Tree) node(level, i int) Digest {
	if i < len(t.levels[level]) {
		return t.levels[level][i]
	}
	return t.zeros[level]
}

func (t *Tree) Root() Digest   { return t.levels[t.depth][0] }
func (t *Tree) Depth() int     { return t.depth }
func (t *Tree) Len() int       { return len(t.words) }
func (t *Tree) Hasher() Hasher { return t.hasher }

// Path returns the siblings and side bits proving word's inclusion.
func (t *Tree) Path(word string) ([]Digest, []uint32, error) {
	i, ok := t.index[word]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrNotInDictionary, word)
	}
	siblings := make([]Digest, t.depth)
	sides := make([]uint32, t.depth)
	for l := 0; l < t.depth; l++ {
		sides[l] = uint32(i & 1)
		siblings[l] = t.node(l, i^1)
		i >>= 1
	}
	return siblings, sides, nil
}

// Export is the front-end view of a tree: every stored level plus each
// word's leaf index.
type Export struct {
	Root        string         `json:"root"`
	Depth       int            `json:"depth"`
	Hasher      string         `json:"hasher"`
	TotalLeaves int            `json:"totalLeaves"`
	WordCount   int            `json:"wordCount"`
	ZeroHashes  []string       `json:"zeroHashes"`
	Levels      [][]string     `json:"levels"`
	WordIndex   map[string]int `json:"wordIndex"`
}

func (t *Tree) Export() Export {
	ex := Export{
		Root:        t.Root().String(),
		Depth:       t.depth,
		Hasher:      t.hasher.Name(),
		TotalLeaves: 1 << t.depth,
		WordCount:   len(t.words),
		ZeroHashes:  make([]string, len(t.zeros)),
		Levels:      make([][]string, len(t.levels)),
		WordIndex:   t.index,
	}
	for i, z := range t.zeros {
		ex.ZeroHashes[i] = z.String()
	}
	for l, level := range t.levels {
		hexes := make([]string, len(level))
		for i, d := range level {
			hexes[i] = d.String()
		}
		ex.Levels[l] = hexes
	}
	return ex
}

// WriteJSON writes the Export of t to w.
func (t *Tree) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.Export())
}

// ReadWords reads one word per line, skipping blanks and lines starting
// with '#'. Words are lowercased.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: read words: %w", err)
	}
	return words, nil
}
