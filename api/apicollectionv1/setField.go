package apicollectionv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/box"
	json2 "github.com/go-json-experiment/json"
)

type setFieldInput struct {
	Path string      `json:"path"`
	Set  interface{} `json:"set"`
}

// setField writes a single value, addressed by path, into every selected
// document.
func setField(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	input := &setFieldInput{}
	err = json2.Unmarshal(requestBody, input)
	if err != nil {
		return errBadRequest("decode setField: %s", err.Error())
	}
	if input.Path == "" {
		return errBadRequest("path is required")
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return err
	}

	selected, err := selectRows(requestBody, col)
	if err != nil {
		return err
	}

	return applySelected(w, selected, func(item selectedRow) (json.RawMessage, error) {
		return col.SetField(item.row, input.Path, input.Set)
	})
}
