package metadata

// Significance decides whether an alignment is worth reporting.
type Significance func(*Metadata) bool

// MinScore accepts alignments scoring at least min.
func MinScore(min float64) Significance {
	return func(md *Metadata) bool {
		return md.Score >= min
	}
}

// MinIdentity accepts alignments whose identity is at least min, in [0, 1].
func MinIdentity(min float64) Significance {
	return func(md *Metadata) bool {
		return md.Identity() >= min
	}
}

// MinLength accepts alignments with at least min columns.
func MinLength(min int) Significance {
	return func(md *Metadata) bool {
		return md.Length() >= min
	}
}

// All accepts alignments every predicate accepts.
func All(predicates ...Significance) Significance {
	return func(md *Metadata) bool {
		for _, p := range predicates {
			if !p(md) {
				return false
			}
		}
		return true
	}
}

// Filter keeps the significant alignments, in order.
func Filter(mds []*Metadata, significant Significance) []*Metadata {
	out := make([]*Metadata, 0, len(mds))
	for _, md := range mds {
		if significant(md) {
			out = append(out, md)
		}
	}
	return out
}
