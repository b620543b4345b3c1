package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/mateusvmv/rent-vec/collection"
)

type createIndexRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`

	// map
	Field string `json:"field"`

	// btree
	Fields []string `json:"fields"`
	Unique bool     `json:"unique"`

	Sparse bool `json:"sparse"`
}

func (r *createIndexRequest) options() (interface{}, error) {
	switch r.Type {
	case "map":
		if r.Field == "" {
			return nil, errBadRequest("field is required for map indexes")
		}
		return &collection.IndexMapOptions{
			Field:  r.Field,
			Sparse: r.Sparse,
		}, nil
	case "btree":
		if len(r.Fields) == 0 {
			return nil, errBadRequest("fields are required for btree indexes")
		}
		return &collection.IndexBTreeOptions{
			Fields: r.Fields,
			Sparse: r.Sparse,
			Unique: r.Unique,
		}, nil
	}
	return nil, errBadRequest("bad index type '%s', must be [map|btree]", r.Type)
}

func createIndex(ctx context.Context, input *createIndexRequest) (*listIndexesItem, error) {

	if input.Name == "" {
		return nil, errBadRequest("index name is required")
	}

	options, err := input.options()
	if err != nil {
		return nil, err
	}

	col, err := getOrCreateCollection(ctx)
	if err != nil {
		return nil, err
	}

	err = col.Index(input.Name, options)
	if err != nil {
		return nil, err
	}

	box.GetResponse(ctx).WriteHeader(http.StatusCreated)

	return &listIndexesItem{
		Name:    input.Name,
		Type:    input.Type,
		Options: options,
	}, nil
}
