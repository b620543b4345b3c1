package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

type getIndexInput struct {
	Name string `json:"name"`
}

func getIndex(ctx context.Context, input *getIndexInput) (*listIndexesItem, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	index, err := getIndexByName(col, input.Name)
	if err != nil {
		return nil, err
	}

	return newListIndexesItem(input.Name, index), nil
}
