package apicollectionv1

import (
	"context"
	"net/http"
)

type createCollectionRequest struct {
	Name string `json:"name"`
}

func createCollection(ctx context.Context, w http.ResponseWriter, input *createCollectionRequest) (*CollectionResponse, error) {

	s := GetServicer(ctx)

	if input.Name == "" {
		return nil, errBadRequest("collection name is required")
	}

	col, err := s.CreateCollection(input.Name)
	if err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return newCollectionResponse(col), nil
}
