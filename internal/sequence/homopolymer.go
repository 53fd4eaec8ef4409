package sequence

// Run is a maximal stretch of one repeated letter.
type Run struct {
	Base   byte
	Start  int // 0-based
	Length int
}

// End returns the 0-based exclusive end of the run.
func (r Run) End() int {
	return r.Start + r.Length
}

// HomopolymerRuns splits s into its maximal single-letter runs, in order.
// Letters are compared exactly, so 'a' and 'A' start different runs.
func HomopolymerRuns(s Sequence) []Run {
	n := s.Len()
	if n == 0 {
		return nil
	}

	runs := make([]Run, 0, n/2+1)
	start := 0
	for i := 1; i <= n; i++ {
		if i == n || s.At(i) != s.At(start) {
			runs = append(runs, Run{Base: s.At(start), Start: start, Length: i - start})
			start = i
		}
	}
	return runs
}

// LongestRun returns the longest homopolymer run of s, the first one on ties.
func LongestRun(s Sequence) (Run, bool) {
	var best Run
	found := false
	for _, r := range HomopolymerRuns(s) {
		if !found || r.Length > best.Length {
			best = r
			found = true
		}
	}
	return best, found
}
