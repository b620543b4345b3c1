package apicollectionv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/box"
)

func remove(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

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

	selected, err := selectRows(requestBody, col)
	if err != nil {
		return err
	}

	return applySelected(w, selected, func(item selectedRow) (json.RawMessage, error) {
		return item.payload, col.Remove(item.row)
	})
}
