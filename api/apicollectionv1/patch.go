package apicollectionv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/box"
	json2 "github.com/go-json-experiment/json"
)

type patchInput struct {
	Patch interface{} `json:"patch"`
}

// patch applies a merge patch to every selected document and answers with the
// patched documents.
func patch(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	input := &patchInput{}
	err = json2.Unmarshal(requestBody, input)
	if err != nil {
		return errBadRequest("decode patch: %s", err.Error())
	}
	if input.Patch == nil {
		return errBadRequest("patch is required")
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
		return col.Patch(item.row, input.Patch)
	})
}
