package dp

import "fmt"

// Move records which recurrence term produced a cell.
type Move uint8

const (
	// None marks a boundary cell or a local restart.
	None Move = iota
	// Diagonal aligns one database letter with one query letter.
	Diagonal
	// Insertion opens or extends a gap in the database row.
	Insertion
	// Deletion opens or extends a gap in the query row.
	Deletion
)

func (m Move) String() string {
	switch m {
	case None:
		return "none"
	case Diagonal:
		return "diagonal"
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	default:
		return fmt.Sprintf("move(%d)", uint8(m))
	}
}

// Boundary selects how row 0 and column 0 are initialised.
type Boundary int

const (
	// LocalZero starts every boundary cell at score 0.
	LocalZero Boundary = iota
	// GlobalCumulative charges the affine cost of the leading gap.
	GlobalCumulative
)

// Winner selects the cell traceback starts from.
type Winner int

const (
	// BestCell is the first highest-scoring cell in fill order.
	BestCell Winner = iota
	// AnchorCorner is the last cell of the fill, the alignment's fixed end.
	AnchorCorner
)

// Direction selects the order the inputs are scanned in.
type Direction int

const (
	// Reverse fills start-to-end and traces back towards the 5' side.
	Reverse Direction = iota
	// Forward fills end-to-start and traces back towards the 3' side.
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "reverse"
}

// GapModel selects where gap-open penalties come from.
type GapModel int

const (
	// ConstantGaps uses the matrix penalties at every cell.
	ConstantGaps GapModel = iota
	// HomopolymerGaps uses per-position penalties ramped over homopolymer runs.
	HomopolymerGaps
)

// Policy configures one run of the engine. Build it with LocalPolicy,
// GlobalPolicy or ExtensionPolicy; the zero value is an unclamped local fill.
type Policy struct {
	Boundary    Boundary
	ClampAtZero bool
	Winner      Winner
	Direction   Direction
	Gaps        GapModel

	// BoundaryPenalty is added to the open of a gap run each time it crosses
	// into another homopolymer run. Only used with HomopolymerGaps.
	BoundaryPenalty float64

	// Band bounds how far a filled cell may stray from the anchor diagonal.
	// Zero disables it. Only used with AnchorCorner.
	Band int
}

// LocalPolicy is Smith-Waterman-Gotoh.
func LocalPolicy() Policy {
	return Policy{Boundary: LocalZero, ClampAtZero: true, Winner: BestCell}
}

// GlobalPolicy is Needleman-Wunsch-Gotoh.
func GlobalPolicy() Policy {
	return Policy{Boundary: GlobalCumulative, Winner: AnchorCorner}
}

// ExtensionPolicy anchors the alignment at one end of both inputs and lets it
// stop wherever the running score peaks.
func ExtensionPolicy(dir Direction, band int) Policy {
	return Policy{
		Boundary:    LocalZero,
		ClampAtZero: true,
		Winner:      AnchorCorner,
		Direction:   dir,
		Band:        band,
	}
}

// WithHomopolymerGaps returns p with homopolymer-aware gap penalties.
func (p Policy) WithHomopolymerGaps(boundaryPenalty float64) Policy {
	p.Gaps = HomopolymerGaps
	p.BoundaryPenalty = boundaryPenalty
	return p
}

// Validate rejects combinations the engine cannot run.
func (p Policy) Validate() error {
	if p.Boundary == GlobalCumulative && p.ClampAtZero {
		return fmt.Errorf("a global boundary cannot be clamped at zero")
	}
	if p.Boundary == GlobalCumulative && p.Winner != AnchorCorner {
		return fmt.Errorf("a global alignment must end in the corner cell")
	}
	if p.Band < 0 {
		return fmt.Errorf("band must be non-negative, got %d", p.Band)
	}
	if p.Gaps == HomopolymerGaps && p.BoundaryPenalty < 0 {
		return fmt.Errorf("boundary penalty must be non-negative, got %g", p.BoundaryPenalty)
	}
	return nil
}

func (p Policy) String() string {
	kind := "local"
	switch {
	case p.Boundary == GlobalCumulative:
		kind = "global"
	case p.Winner == AnchorCorner:
		kind = "extension"
	}
	if p.Gaps == HomopolymerGaps {
		kind += "-454"
	}
	return fmt.Sprintf("%s/%s", kind, p.Direction)
}
