package segment

import (
	"iter"

	"easyanki/internal/textutil"
)

// Merger folds consecutive OCR readings of the same caption. A reading
// joins the open segment when its similarity to any variant collected so far
// exceeds the cutoff.
type Merger struct {
	cutoff float64
	acc    Variants
	open   bool
}

// NewMerger returns a merger using the given text similarity cutoff.
func NewMerger(cutoff float64) *Merger {
	return &Merger{cutoff: cutoff}
}

// Step feeds the next reading. When the reading starts a new caption, the
// previously open segment is returned with ok set.
func (m *Merger) Step(t Text) (Variants, bool) {
	if !m.open {
		m.start(t)
		return Variants{}, false
	}
	if m.acc.Texts.Any(func(v string) bool { return textutil.Similarity(v, t.Text) > m.cutoff }) {
		m.acc.End = t.End
		m.acc.Texts.Add(t.Text)
		return Variants{}, false
	}
	done := m.acc
	m.start(t)
	return done, true
}

// Flush returns the open segment, if any, and resets the merger. It must be
// called once the input is exhausted or the last caption is lost.
func (m *Merger) Flush() (Variants, bool) {
	if !m.open {
		return Variants{}, false
	}
	done := m.acc
	m.acc = Variants{}
	m.open = false
	return done, true
}

func (m *Merger) start(t Text) {
	m.acc = Variants{Start: t.Start, End: t.End, Texts: textutil.NewVariantSet(t.Text)}
	m.open = true
}

// Merge drives a Merger over texts and flushes it after the input ends.
func Merge(texts iter.Seq2[Text, error], cutoff float64) iter.Seq2[Variants, error] {
	return func(yield func(Variants, error) bool) {
		m := NewMerger(cutoff)
		for t, err := range texts {
			if err != nil {
				yield(Variants{}, err)
				return
			}
			if done, ok := m.Step(t); ok {
				if !yield(done, nil) {
					return
				}
			}
		}
		if done, ok := m.Flush(); ok {
			yield(done, nil)
		}
	}
}
