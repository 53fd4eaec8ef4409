package metadata

import (
	"fmt"
	"strings"

	"github.com/aria-lang/pairalign/internal/sequence"
)

// Row names one side of an alignment.
type Row int

const (
	// DatabaseRow is the top row.
	DatabaseRow Row = iota
	// QueryRow is the bottom row.
	QueryRow
)

func (r Row) String() string {
	if r == QueryRow {
		return "query"
	}
	return "database"
}

// Gap is one maximal run of gap symbols in one row.
type Gap struct {
	Row Row
	// Column is the 0-based first column of the run.
	Column int
	Length int
	// After is the 1-based parent position of the last letter of the gapped
	// row before the run, 0 if the run opens the alignment.
	After int
}

func (g Gap) String() string {
	return fmt.Sprintf("%s gap of %d after %d", g.Row, g.Length, g.After)
}

// Gaps enumerates the gap runs of both rows in column order.
func (md *Metadata) Gaps() []Gap {
	var gaps []Gap
	db, q := md.Alignment.Database(), md.Alignment.Query()
	dbPos, qPos := md.StartDatabase-1, md.StartQuery-1

	for i := 0; i < md.Length(); i++ {
		d, x := db.At(i), q.At(i)

		if d == sequence.Gap {
			if i == 0 || db.At(i-1) != sequence.Gap {
				gaps = append(gaps, Gap{Row: DatabaseRow, Column: i, After: dbPos})
			}
			gaps[len(gaps)-1].Length++
		} else {
			dbPos++
		}

		if x == sequence.Gap {
			if i == 0 || q.At(i-1) != sequence.Gap {
				gaps = append(gaps, Gap{Row: QueryRow, Column: i, After: qPos})
			}
			gaps[len(gaps)-1].Length++
		} else {
			qPos++
		}
	}
	return gaps
}

// Position returns the 1-based parent positions of column i, 0 on the gapped side.
func (md *Metadata) Position(i int) (database, query int) {
	db, q := md.Alignment.Database(), md.Alignment.Query()
	dbPos, qPos := md.StartDatabase-1, md.StartQuery-1
	for j := 0; j <= i; j++ {
		if db.At(j) != sequence.Gap {
			dbPos++
		}
		if q.At(j) != sequence.Gap {
			qPos++
		}
	}

	if db.At(i) != sequence.Gap {
		database = dbPos
	}
	if q.At(i) != sequence.Gap {
		query = qPos
	}
	return database, query
}

// CIGAR returns the run-length operation string of the alignment: '=' for
// identical letters, 'X' for mismatches, 'I' for a gap in the database row
// and 'D' for a gap in the query row.
func (md *Metadata) CIGAR() string {
	if md.Length() == 0 {
		return ""
	}

	var cigar strings.Builder
	db, q := md.Alignment.Database(), md.Alignment.Query()
	currentOp := byte(0)
	count := 0

	for i := 0; i < md.Length(); i++ {
		var op byte
		switch d, x := db.At(i), q.At(i); {
		case d == sequence.Gap:
			op = 'I'
		case x == sequence.Gap:
			op = 'D'
		case upper(d) == upper(x) && !sequence.IsAmbiguous(d):
			op = '='
		default:
			op = 'X'
		}

		if op == currentOp {
			count++
			continue
		}
		if count > 0 {
			fmt.Fprintf(&cigar, "%d%c", count, currentOp)
		}
		currentOp = op
		count = 1
	}
	fmt.Fprintf(&cigar, "%d%c", count, currentOp)

	return cigar.String()
}
