package apicollectionv1

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/fulldump/box"
	json2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/mateusvmv/rent-vec/collection"
	"github.com/mateusvmv/rent-vec/service"
)

// getOrCreateCollection creates missing collections with the default
// defaults, so inserting is enough to start using one.
func getOrCreateCollection(ctx context.Context) (*collection.Collection, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if errors.Is(err, service.ErrorCollectionNotFound) {
		col, err = s.CreateCollection(collectionName)
		if err != nil {
			return nil, err
		}
		col.SetDefaults(newCollectionDefaults())
	}
	if err != nil {
		return nil, err
	}

	return col, nil
}

// insert reads a stream of JSON documents and answers with the stored ones,
// one per line.
func insert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	col, err := getOrCreateCollection(ctx)
	if err != nil {
		return err
	}

	jsonReader := jsontext.NewDecoder(r.Body)

	for i := 0; true; i++ {
		value, err := jsonReader.ReadValue()
		if errors.Is(err, io.EOF) {
			if i == 0 {
				w.WriteHeader(http.StatusNoContent)
			}
			return nil
		}
		if err != nil {
			return errBadRequest("read document %d: %s", i, err.Error())
		}

		item := map[string]any{}
		err = json2.Unmarshal(value, &item)
		if err != nil {
			return errBadRequest("decode document %d: %s", i, err.Error())
		}
		if item == nil {
			return errBadRequest("document %d is not an object", i)
		}

		row, err := col.Insert(item)
		if err != nil {
			return err
		}

		payload, err := col.Payload(row)
		if err != nil {
			return err
		}

		if i == 0 {
			w.WriteHeader(http.StatusCreated)
		}
		w.Write(payload)
		w.Write([]byte("\n"))
	}

	return nil
}
