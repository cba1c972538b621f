package dictionary

// DefaultDepth holds 16384 leaves, enough for the ~12600 word list.
const DefaultDepth = 14

// Verifier checks inclusion paths against the root fixed at deploy time.
type Verifier struct {
	root   Digest
	depth  int
	hasher Hasher
}

func NewVerifier(root Digest, depth int, hasher Hasher) *Verifier {
	return &Verifier{root: root, depth: depth, hasher: hasher}
}

func (v *Verifier) Root() Digest   { return v.root }
func (v *Verifier) Depth() int     { return v.depth }
func (v *Verifier) Hasher() Hasher { return v.hasher }

// Verify folds the leaf of word up through siblings. sides[i] == 0 means the
// running node is the left child at level i, 1 means it is the right child.
// Malformed words are rejected before any hashing.
func (v *Verifier) Verify(word []byte, siblings []Digest, sides []uint32) error {
	leaf, err := Leaf(word)
	if err != nil {
		return err
	}
	if len(siblings) != v.depth || len(sides) != v.depth {
		return ErrInvalidPath
	}
	root, err := Fold(v.hasher, leaf, siblings, sides)
	if err != nil {
		return err
	}
	if root != v.root {
		return ErrNotInDictionary
	}
	return nil
}

// Fold computes the root reached from leaf along a path.
func Fold(h Hasher, leaf Digest, siblings []Digest, sides []uint32) (Digest, error) {
	if len(siblings) != len(sides) {
		return Digest{}, ErrInvalidPath
	}
	cur := leaf
	for i, sib := range siblings {
		var err error
		switch sides[i] {
		case 0:
			cur, err = h.Hash(cur, sib)
		case 1:
			cur, err = h.Hash(sib, cur)
		default:
			return Digest{}, ErrInvalidPath
		}
		if err != nil {
			return Digest{}, err
		}
	}
	return cur, nil
}
