package query

import (
	"sort"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Vocabulary is an ordered set of known category labels with
// case-insensitive prefix completion.
type Vocabulary struct {
	labels []string
	index  *patricia.Trie
}

// NewVocabulary keeps the distinct non-empty labels in insertion order.
func NewVocabulary(labels ...string) *Vocabulary {
	v := &Vocabulary{index: patricia.NewTrie()}
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		v.add(label)
	}
	return v
}

// MergeVocabulary puts the configured labels first followed by any derived
// label not already known.
func MergeVocabulary(known, derived []string) *Vocabulary {
	all := make([]string, 0, len(known)+len(derived))
	all = append(all, known...)
	all = append(all, derived...)
	return NewVocabulary(all...)
}

func (v *Vocabulary) add(label string) {
	position := len(v.labels)
	v.labels = append(v.labels, label)

	key := patricia.Prefix(Normalize(label))
	// Labels differing only in case share a key.
	if existing := v.index.Get(key); existing != nil {
		v.index.Set(key, append(existing.([]int), position))
		return
	}
	v.index.Insert(key, []int{position})
}

// Len returns the number of labels.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.labels)
}

// Labels returns a copy of the labels in vocabulary order.
func (v *Vocabulary) Labels() []string {
	if v == nil {
		return []string{}
	}
	out := make([]string, len(v.labels))
	copy(out, v.labels)
	return out
}

// Complete returns the labels starting with prefix, ignoring case, in
// vocabulary order. An empty prefix returns every label.
func (v *Vocabulary) Complete(prefix string) []string {
	if v == nil {
		return []string{}
	}
	if prefix == "" {
		return v.Labels()
	}

	var positions []int
	_ = v.index.VisitSubtree(patricia.Prefix(Normalize(prefix)), func(_ patricia.Prefix, item patricia.Item) error {
		positions = append(positions, item.([]int)...)
		return nil
	})
	sort.Ints(positions)

	out := make([]string, 0, len(positions))
	for _, pos := range positions {
		out = append(out, v.labels[pos])
	}
	return out
}
