package alignment

import "github.com/aria-lang/pairalign/internal/sequence"

// Builder assembles a PairwiseAlignment one column at a time from either end.
//
// Columns pushed to the front are stacked: the last one pushed ends up
// first. Columns pushed to the back keep their order. Nothing is
// concatenated until Materialize.
type Builder struct {
	core      *PairwiseAlignment
	kind      sequence.Sequence
	formatter SimilarityFormatter

	frontDatabase []byte
	frontQuery    []byte
	backDatabase  []byte
	backQuery     []byte
}

// NewBuilder creates an empty builder. New rows are created with
// kind.NewOfSameKind.
func NewBuilder(kind sequence.Sequence) *Builder {
	return &Builder{kind: kind, formatter: DotFormatter{}}
}

// NewBuilderFrom creates a builder whose core is an existing alignment.
func NewBuilderFrom(core *PairwiseAlignment) *Builder {
	return &Builder{core: core, kind: core.Database(), formatter: core.Formatter()}
}

// SetFormatter selects the ladder formatter of materialized alignments.
func (b *Builder) SetFormatter(f SimilarityFormatter) {
	b.formatter = f
}

// PushFront queues one column on the 5' side.
func (b *Builder) PushFront(database, query byte) {
	b.frontDatabase = append(b.frontDatabase, database)
	b.frontQuery = append(b.frontQuery, query)
}

// PushBack queues one column on the 3' side.
func (b *Builder) PushBack(database, query byte) {
	b.backDatabase = append(b.backDatabase, database)
	b.backQuery = append(b.backQuery, query)
}

// PushFrontString prepends the rows as written. The two strings may differ
// in length; the mismatch is reported by Materialize.
func (b *Builder) PushFrontString(database, query string) {
	for i := len(database) - 1; i >= 0; i-- {
		b.frontDatabase = append(b.frontDatabase, database[i])
	}
	for i := len(query) - 1; i >= 0; i-- {
		b.frontQuery = append(b.frontQuery, query[i])
	}
}

// PushBackString appends the rows as written.
func (b *Builder) PushBackString(database, query string) {
	b.backDatabase = append(b.backDatabase, database...)
	b.backQuery = append(b.backQuery, query...)
}

// PushFrontAlignment prepends sub so that it reads in its own order.
func (b *Builder) PushFrontAlignment(sub *PairwiseAlignment) {
	db, q := sub.Database(), sub.Query()
	for i := sub.Len() - 1; i >= 0; i-- {
		b.PushFront(db.At(i), q.At(i))
	}
}

// PushBackAlignment appends sub.
func (b *Builder) PushBackAlignment(sub *PairwiseAlignment) {
	db, q := sub.Database(), sub.Query()
	for i := 0; i < sub.Len(); i++ {
		b.PushBack(db.At(i), q.At(i))
	}
}

// Pending returns the number of queued front and back columns.
func (b *Builder) Pending() (front, back int) {
	return len(b.frontDatabase), len(b.backDatabase)
}

// Materialize joins the front buffer, the core and the back buffer into a
// new alignment, clears the buffers and makes the result the new core.
func (b *Builder) Materialize() (*PairwiseAlignment, error) {
	if len(b.frontDatabase) != len(b.frontQuery) {
		return nil, &BuilderLengthMismatchError{Side: "front", Database: len(b.frontDatabase), Query: len(b.frontQuery)}
	}
	if len(b.backDatabase) != len(b.backQuery) {
		return nil, &BuilderLengthMismatchError{Side: "back", Database: len(b.backDatabase), Query: len(b.backQuery)}
	}

	if b.core != nil && len(b.frontDatabase) == 0 && len(b.backDatabase) == 0 {
		return b.core, nil
	}

	db := b.kind.NewOfSameKind()
	q := b.kind.NewOfSameKind()

	for i := len(b.frontDatabase) - 1; i >= 0; i-- {
		db.Append(b.frontDatabase[i])
		q.Append(b.frontQuery[i])
	}
	if b.core != nil {
		db.AppendSequence(b.core.Database())
		q.AppendSequence(b.core.Query())
	}
	for i := range b.backDatabase {
		db.Append(b.backDatabase[i])
		q.Append(b.backQuery[i])
	}

	out, err := NewPairwiseAlignmentWithFormatter(db, q, b.formatter)
	if err != nil {
		return nil, err
	}

	b.core = out
	b.frontDatabase = b.frontDatabase[:0]
	b.frontQuery = b.frontQuery[:0]
	b.backDatabase = b.backDatabase[:0]
	b.backQuery = b.backQuery[:0]
	return out, nil
}

// DropFront materializes and removes the first n columns.
func (b *Builder) DropFront(n int) (*PairwiseAlignment, error) {
	a, err := b.Materialize()
	if err != nil {
		return nil, err
	}
	out, err := a.SubAlignment(n, a.Len()-n)
	if err != nil {
		return nil, err
	}
	b.core = out
	return out, nil
}

// DropBack materializes and removes the last n columns.
func (b *Builder) DropBack(n int) (*PairwiseAlignment, error) {
	a, err := b.Materialize()
	if err != nil {
		return nil, err
	}
	out, err := a.SubAlignment(0, a.Len()-n)
	if err != nil {
		return nil, err
	}
	b.core = out
	return out, nil
}
