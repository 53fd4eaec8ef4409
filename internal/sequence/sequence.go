// Package sequence provides the character buffers the aligners read from and
// assemble into.
//
// The aligners only depend on the Sequence interface. Seq is the concrete
// implementation used throughout the repository; it validates letters against
// the IUPAC alphabets from github.com/shenwei356/bio at construction time and
// never afterwards, so gapped alignment rows can be built with Append.
package sequence

import (
	"bytes"
	"fmt"
	"strings"

	bioseq "github.com/shenwei356/bio/seq"
)

// SequenceType represents the type of biological sequence.
type SequenceType int

const (
	// DNA represents a DNA sequence (IUPAC nucleotide codes)
	DNA SequenceType = iota
	// RNA represents an RNA sequence (IUPAC nucleotide codes with U)
	RNA
	// Protein represents an amino acid sequence
	Protein
	// Unknown represents an unvalidated sequence
	Unknown
)

func (t SequenceType) String() string {
	switch t {
	case DNA:
		return "DNA"
	case RNA:
		return "RNA"
	case Protein:
		return "Protein"
	default:
		return "Unknown"
	}
}

// Alphabet returns the alphabet letters of this type are validated against.
func (t SequenceType) Alphabet() *bioseq.Alphabet {
	switch t {
	case DNA:
		return bioseq.DNAredundant
	case RNA:
		return bioseq.RNAredundant
	case Protein:
		return bioseq.Protein
	default:
		return bioseq.Unlimit
	}
}

// Gap is the symbol used for an indel column in an alignment row.
const Gap = '-'

// Sequence is a 0-based, indexable, appendable character buffer.
//
// Aligners never mutate their inputs; they create new buffers with
// NewOfSameKind and fill them with the Append family.
type Sequence interface {
	Len() int
	At(i int) byte
	Append(c byte)
	AppendString(s string)
	AppendSequence(other Sequence)
	SubSequence(start, length int) (Sequence, error)
	NewOfSameKind() Sequence
	ToUpper() Sequence
	Equal(other Sequence) bool
	String() string
}

// Seq is a validated biological sequence.
type Seq struct {
	data        []byte
	ID          string
	Description string
	SeqType     SequenceType
}

// New creates a new DNA sequence with validation.
func New(bases string) (*Seq, error) {
	return WithMetadata(bases, "", "", DNA)
}

// WithID creates a new DNA sequence with an identifier.
func WithID(bases, id string) (*Seq, error) {
	if len(id) == 0 {
		return nil, fmt.Errorf("ID cannot be empty")
	}
	return WithMetadata(bases, id, "", DNA)
}

// NewProtein creates a new amino acid sequence.
func NewProtein(bases string) (*Seq, error) {
	return WithMetadata(bases, "", "", Protein)
}

// WithMetadata creates a new sequence with full metadata.
// Letters are upper-cased before validation.
func WithMetadata(bases, id, description string, seqType SequenceType) (*Seq, error) {
	normalized := strings.ToUpper(bases)

	if len(normalized) == 0 {
		return nil, &EmptySequenceError{}
	}

	if err := Validate(normalized, seqType); err != nil {
		return nil, err
	}

	return &Seq{
		data:        []byte(normalized),
		ID:          id,
		Description: description,
		SeqType:     seqType,
	}, nil
}

// Empty returns a zero-length sequence of the given type. It is the seed
// aligners append gapped rows into.
func Empty(seqType SequenceType) *Seq {
	return &Seq{data: make([]byte, 0, 64), SeqType: seqType}
}

// Len returns the length of the sequence.
func (s *Seq) Len() int {
	return len(s.data)
}

// At returns the letter at 0-based position i.
func (s *Seq) At(i int) byte {
	return s.data[i]
}

// Bytes returns the underlying letters. The slice must not be modified.
func (s *Seq) Bytes() []byte {
	return s.data
}

// Append adds one letter to the end of the sequence.
func (s *Seq) Append(c byte) {
	s.data = append(s.data, c)
}

// AppendString adds letters to the end of the sequence.
func (s *Seq) AppendString(str string) {
	s.data = append(s.data, str...)
}

// AppendSequence adds all letters of other to the end of the sequence.
func (s *Seq) AppendSequence(other Sequence) {
	if o, ok := other.(*Seq); ok {
		s.data = append(s.data, o.data...)
		return
	}
	for i := 0; i < other.Len(); i++ {
		s.data = append(s.data, other.At(i))
	}
}

// SubSequence returns a copy of length letters starting at start.
func (s *Seq) SubSequence(start, length int) (Sequence, error) {
	if start < 0 || length < 0 || start+length > len(s.data) {
		return nil, &OutOfRangeError{Start: start, Length: length, Len: len(s.data)}
	}

	data := make([]byte, length)
	copy(data, s.data[start:start+length])

	return &Seq{
		data:        data,
		ID:          s.ID,
		Description: s.Description,
		SeqType:     s.SeqType,
	}, nil
}

// NewOfSameKind returns an empty sequence with the same type.
func (s *Seq) NewOfSameKind() Sequence {
	return Empty(s.SeqType)
}

// ToUpper returns an upper-cased copy.
func (s *Seq) ToUpper() Sequence {
	return &Seq{
		data:        bytes.ToUpper(s.data),
		ID:          s.ID,
		Description: s.Description,
		SeqType:     s.SeqType,
	}
}

// IsValid checks if all letters are valid for the sequence type.
func (s *Seq) IsValid() bool {
	return Validate(string(s.data), s.SeqType) == nil
}

// HasAmbiguous checks if the sequence contains any N or X.
func (s *Seq) HasAmbiguous() bool {
	return s.CountAmbiguous() > 0
}

// CountAmbiguous counts the number of N and X letters.
func (s *Seq) CountAmbiguous() int {
	count := 0
	for _, b := range s.data {
		if IsAmbiguous(b) {
			count++
		}
	}
	return count
}

// ReverseComplement returns the reverse complement of a nucleotide sequence.
func (s *Seq) ReverseComplement() (*Seq, error) {
	if s.SeqType != DNA && s.SeqType != RNA {
		return nil, fmt.Errorf("reverse complement only available for nucleotide sequences")
	}

	data := make([]byte, len(s.data))
	copy(data, s.data)

	rc, err := bioseq.NewSeqWithoutValidation(s.SeqType.Alphabet(), data)
	if err != nil {
		return nil, err
	}
	rc.RevComInplace()

	return &Seq{
		data:        rc.Seq,
		ID:          s.ID,
		Description: s.Description,
		SeqType:     s.SeqType,
	}, nil
}

// String returns the letters.
func (s *Seq) String() string {
	return string(s.data)
}

// Equal checks equality with another sequence.
func (s *Seq) Equal(other Sequence) bool {
	if other == nil {
		return false
	}
	if o, ok := other.(*Seq); ok {
		if o == nil {
			return false
		}
		return bytes.Equal(s.data, o.data)
	}
	if s.Len() != other.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if s.data[i] != other.At(i) {
			return false
		}
	}
	return true
}

// IsAmbiguous reports whether c is an unknown-base letter (N or X, any case).
func IsAmbiguous(c byte) bool {
	switch c {
	case 'N', 'n', 'X', 'x':
		return true
	}
	return false
}

// WithoutGaps returns a copy of s with all gap symbols removed.
func WithoutGaps(s Sequence) Sequence {
	out := s.NewOfSameKind()
	for i := 0; i < s.Len(); i++ {
		if c := s.At(i); c != Gap {
			out.Append(c)
		}
	}
	return out
}
