package mapping

import "fmt"

// MappingError is returned when no column mapping can be obtained for a file,
// either because the oracle call failed or its answer could not be parsed
type MappingError struct {
	Err error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping columns: %v", e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}
