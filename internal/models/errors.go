package models

import "fmt"

// DataAccessError is returned when a dataset cannot be obtained at all:
// the file is unreadable or its content is not valid JSON.
type DataAccessError struct {
	Op   string // read, decode
	Path string
	Err  error
}

func (e *DataAccessError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("dataset %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("dataset %s %s failed: %v", e.Op, e.Path, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}
