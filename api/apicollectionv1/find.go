package apicollectionv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/mateusvmv/rent-vec/collection"
)

func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return err
	}

	var writeErr error
	err = traverse(requestBody, col, func(row *collection.Row, payload json.RawMessage) bool {
		writeErr = writeRow(w, payload)
		return writeErr == nil
	})
	if err != nil {
		return err
	}

	return writeErr
}

func writeRow(w io.Writer, payload json.RawMessage) error {
	_, err := w.Write(append(payload[:len(payload):len(payload)], '\n'))
	return err
}
