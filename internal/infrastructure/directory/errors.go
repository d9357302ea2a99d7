package directory

import "fmt"

// DirectoryError carries a structured failure from the roster service.
type DirectoryError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory error %s (%d): %s", e.Code, e.StatusCode, e.Message)
}
