package runtime

import (
	"sort"

	"github.com/aretw0/remap/pkg/domain"
)

// Partition cuts r into input-domain pieces, each annotated with the offset of the
// rule covering it (0 when no rule does). The pieces exactly tile r: no gaps, no
// overlaps, total length preserved.
//
// Work is done on an explicit local worklist, never by recursion. Each iteration either
// emits a piece or pushes back a strictly shorter tail, so the number of iterations is
// bounded by the number of rules, not by r.Length.
func Partition(r domain.Range, stage domain.Stage) []domain.Range {
	if r.IsEmpty() {
		return nil
	}
	r.Offset = 0

	var out []domain.Range
	emit := func(p domain.Range) {
		if !p.IsEmpty() {
			out = append(out, p)
		}
	}

	worklist := []domain.Range{r}
	for len(worklist) > 0 {
		piece := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		first, count := intersecting(stage.Rules, piece)
		switch {
		case count == 0:
			emit(piece)

		case count == 1:
			emitAround(piece, stage.Rules[first], emit)

		default:
			// Cut at the end of the lowest intersecting rule. Rules never overlap, so
			// the head can only meet that rule and the tail meets the others.
			rule := stage.Rules[first]
			head, tail, err := piece.SplitAt(rule.End())
			if err != nil {
				// Unreachable for well-formed stages: a later rule intersects the piece,
				// so the first rule ends strictly inside it.
				emitAround(piece, rule, emit)
				continue
			}
			emitAround(head, rule, emit)
			worklist = append(worklist, tail)
		}
	}
	return out
}

// Transform maps r through the stage and returns the pieces in the next domain.
func Transform(r domain.Range, stage domain.Stage) []domain.Range {
	pieces := Partition(r, stage)
	for i := range pieces {
		pieces[i] = pieces[i].Translate()
	}
	return pieces
}

// emitAround emits the parts of piece left of, inside, and right of rule.
// Parts outside the rule pass through with offset 0.
func emitAround(piece, rule domain.Range, emit func(domain.Range)) {
	overlap := piece.Overlap(rule)
	emit(domain.Range{Start: piece.Start, Length: overlap.Start - piece.Start})
	emit(overlap.WithOffset(rule.Offset))
	emit(domain.Range{Start: overlap.End(), Length: piece.End() - overlap.End()})
}

// intersecting returns the index of the first rule intersecting piece and how many do.
// rules must be sorted by Start and non-overlapping.
func intersecting(rules []domain.Range, piece domain.Range) (first, count int) {
	first = sort.Search(len(rules), func(i int) bool {
		return rules[i].End() > piece.Start
	})
	for i := first; i < len(rules) && rules[i].Start < piece.End(); i++ {
		if rules[i].Intersects(piece) {
			count++
		}
	}
	return first, count
}
