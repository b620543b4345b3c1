package collection

import "encoding/json"

// Index maps document values to rows. Rows are handed the payload they are
// indexed by, RemoveRow always receives the same payload AddRow did.
type Index interface {
	AddRow(row *Row, payload json.RawMessage) error
	RemoveRow(row *Row, payload json.RawMessage) error
	Traverse(options []byte, f func(row *Row) bool) // todo: return error?
	GetType() string
	GetOptions() interface{}
}
