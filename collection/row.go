package collection

import (
	"encoding/json"

	"github.com/mateusvmv/rent-vec/rentvec"
)

// Document is what a collection stores in each slot.
type Document struct {
	Payload json.RawMessage
	row     *Row
}

// Row is the handle of one stored document. It stays valid while other rows
// are removed and its document is moved around.
type Row struct {
	I     int64 // insertion sequence, never reused
	lease *rentvec.Lease[Document]
}

// Position returns the slot the document was last seen at.
func (r *Row) Position() int {
	return r.lease.Position()
}

// Alive reports whether the row has not been removed.
func (r *Row) Alive() bool {
	return r.lease.Alive()
}

func (r *Row) payload() (json.RawMessage, error) {
	document, err := r.lease.Get()
	if err != nil {
		return nil, err
	}
	return document.Payload, nil
}

func (r *Row) setPayload(payload json.RawMessage) error {
	return r.lease.Update(func(document *Document) error {
		document.Payload = payload
		return nil
	})
}
