package verifier

import (
	"github.com/roach88/minicheck/internal/ir"
)

// checkDiscriminator verifies a discriminator tree for an enum of the given
// size and variants.
func (c *checker) checkDiscriminator(d ir.Discriminator, size ir.Size, variants map[ir.Int]ir.Variant) error {
	switch d := d.(type) {
	case ir.Known:
		_, ok := variants[d.Discriminant]
		return ensure(ok, KindType, "Discriminator: invalid discriminant")
	case ir.Invalid:
		return nil
	case ir.Branch:
		if err := checkIntType(d.ValueType); err != nil {
			return err
		}
		if !fits(d.Offset, d.ValueType.Size, size) {
			return illFormed(KindType, "Discriminator: branch offset exceeds size")
		}
		if err := c.checkDiscriminator(d.Fallback, size, variants); err != nil {
			return at(err, "fallback")
		}

		// Sorted by start, non-empty ranges are pairwise disjoint iff each
		// one ends before its successor starts.
		ranges := ir.SortedRanges(d.Children)
		for i, r := range ranges {
			if !d.ValueType.CanRepresent(r.Start) {
				return illFormed(KindType, "Discriminator: invalid range start")
			}
			if !d.ValueType.CanRepresent(r.End.Sub(ir.One)) {
				return illFormed(KindType, "Discriminator: invalid range end")
			}
			if r.Start.Cmp(r.End) >= 0 {
				return illFormed(KindType, "Discriminator: invalid range")
			}
			if i > 0 && ranges[i-1].End.Cmp(r.Start) > 0 {
				return illFormed(KindType, "Discriminator: branch ranges overlap")
			}
			if err := c.checkDiscriminator(d.Children[r], size, variants); err != nil {
				return at(err, "child [%s, %s)", r.Start, r.End)
			}
		}
		return nil
	default:
		return illFormed(KindType, "Discriminator: unsupported discriminator %T", d)
	}
}
