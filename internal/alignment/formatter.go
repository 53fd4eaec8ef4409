package alignment

import "github.com/aria-lang/pairalign/internal/sequence"

// SimilarityFormatter derives the middle "ladder" symbol of an alignment column.
type SimilarityFormatter interface {
	Symbol(database, query byte) byte
}

// DotFormatter marks identical letters with '|' and mismatches with '.'.
type DotFormatter struct{}

// Symbol implements SimilarityFormatter.
func (DotFormatter) Symbol(database, query byte) byte {
	return ladderSymbol(database, query, '.')
}

// SpaceFormatter marks identical letters with '|' and leaves mismatches blank.
type SpaceFormatter struct{}

// Symbol implements SimilarityFormatter.
func (SpaceFormatter) Symbol(database, query byte) byte {
	return ladderSymbol(database, query, ' ')
}

// ladderSymbol renders gaps and unknown bases as a blank on either side.
// Letters are compared case-insensitively.
func ladderSymbol(database, query, mismatch byte) byte {
	if database == sequence.Gap || query == sequence.Gap ||
		sequence.IsAmbiguous(database) || sequence.IsAmbiguous(query) {
		return ' '
	}
	if toUpper(database) == toUpper(query) {
		return '|'
	}
	return mismatch
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
