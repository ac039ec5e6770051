package dataset

import "fmt"

// LoadError indicates an input file is missing, unreadable, or not valid JSON.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError indicates a record with a missing or malformed required field.
// Record identifies the offending record (case_id/account_id when known,
// otherwise its index in the file).
type SchemaError struct {
	File   string
	Record string
	Field  string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: record %s field %s: %v", e.File, e.Record, e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
