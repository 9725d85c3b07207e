package textutil

// VariantSet is an insertion-ordered set of strings. The zero value is ready
// to use. Iteration order is the order in which values were first added,
// which keeps centroid tie-breaking deterministic.
type VariantSet struct {
	values []string
	index  map[string]struct{}
}

// NewVariantSet returns a set seeded with values in order, skipping duplicates.
func NewVariantSet(values ...string) *VariantSet {
	s := &VariantSet{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts value and reports whether it was not already present.
func (s *VariantSet) Add(value string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[value]; ok {
		return false
	}
	s.index[value] = struct{}{}
	s.values = append(s.values, value)
	return true
}

// Contains reports whether value is a member of the set.
func (s *VariantSet) Contains(value string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[value]
	return ok
}

// Len returns the number of distinct values.
func (s *VariantSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Values returns a copy of the members in insertion order.
func (s *VariantSet) Values() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.values...)
}

// Union adds every member of other, preserving other's order for new values.
func (s *VariantSet) Union(other *VariantSet) {
	if other == nil {
		return
	}
	for _, v := range other.values {
		s.Add(v)
	}
}

// Clone returns an independent copy.
func (s *VariantSet) Clone() *VariantSet {
	if s == nil {
		return &VariantSet{}
	}
	return NewVariantSet(s.values...)
}

// Any reports whether match returns true for at least one member.
func (s *VariantSet) Any(match func(string) bool) bool {
	if s == nil {
		return false
	}
	for _, v := range s.values {
		if match(v) {
			return true
		}
	}
	return false
}

// Centroid returns the member with the smallest total edit distance to every
// other member. Ties go to the member inserted first. Centroid panics on an
// empty set: a variant set always holds at least the reading that created it.
func Centroid(set *VariantSet) string {
	if set.Len() == 0 {
		panic("textutil: centroid of empty variant set")
	}
	values := set.values
	best := 0
	bestSum := -1
	for i, candidate := range values {
		sum := 0
		for j, other := range values {
			if i == j {
				continue
			}
			sum += Levenshtein(candidate, other)
			if bestSum >= 0 && sum >= bestSum {
				break
			}
		}
		if bestSum < 0 || sum < bestSum {
			best = i
			bestSum = sum
		}
	}
	return values[best]
}
