package bridge

import "fmt"

// PreprocessingError is returned when the preprocessor rejects the template
// for one case of a declaration.
type PreprocessingError struct {
	Declaration string
	Variant     string
	// CombinationIndex is -1 for hardcoded variants.
	CombinationIndex int
	Err              error
}

func (e *PreprocessingError) Error() string {
	if e.CombinationIndex < 0 {
		return fmt.Sprintf("declaration %q, variant %q: preprocessing failed: %v", e.Declaration, e.Variant, e.Err)
	}
	return fmt.Sprintf("declaration %q, variant %q, combination %d: preprocessing failed: %v",
		e.Declaration, e.Variant, e.CombinationIndex, e.Err)
}

func (e *PreprocessingError) Unwrap() error { return e.Err }
