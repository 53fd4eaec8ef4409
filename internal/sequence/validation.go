package sequence

import "fmt"

// SequenceError is the base error type for sequence operations.
type SequenceError interface {
	error
	IsSequenceError()
}

// EmptySequenceError is returned when a sequence is empty.
type EmptySequenceError struct{}

func (e *EmptySequenceError) Error() string {
	return "sequence must have at least one base"
}

func (e *EmptySequenceError) IsSequenceError() {}

// InvalidBaseError is returned when an invalid letter is encountered.
type InvalidBaseError struct {
	Position int
	Found    rune
	SeqType  SequenceType
}

func (e *InvalidBaseError) Error() string {
	return fmt.Sprintf("invalid %s letter '%c' at position %d", e.SeqType, e.Found, e.Position)
}

func (e *InvalidBaseError) IsSequenceError() {}

// OutOfRangeError is returned when a sub-sequence does not fit the sequence.
type OutOfRangeError struct {
	Start  int
	Length int
	Len    int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("range [%d, %d) out of bounds for length %d", e.Start, e.Start+e.Length, e.Len)
}

func (e *OutOfRangeError) IsSequenceError() {}

// Validate checks that every letter of bases belongs to the alphabet of seqType.
func Validate(bases string, seqType SequenceType) error {
	alphabet := seqType.Alphabet()
	for i := 0; i < len(bases); i++ {
		if !alphabet.IsValidLetter(bases[i]) {
			return &InvalidBaseError{Position: i, Found: rune(bases[i]), SeqType: seqType}
		}
	}
	return nil
}

// ValidateDNA validates that a string contains only IUPAC DNA letters.
func ValidateDNA(bases string) error {
	return Validate(bases, DNA)
}

// ValidateRNA validates that a string contains only IUPAC RNA letters.
func ValidateRNA(bases string) error {
	return Validate(bases, RNA)
}

// IsValidDNABase checks if a character is a valid DNA letter.
func IsValidDNABase(c byte) bool {
	return DNA.Alphabet().IsValidLetter(c)
}
