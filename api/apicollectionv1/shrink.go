package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/mateusvmv/rent-vec/rentvec"
)

type shrinkResponse struct {
	Trimmed int           `json:"trimmed"`
	Stats   rentvec.Stats `json:"stats"`
}

func shrink(ctx context.Context) (*shrinkResponse, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	trimmed, err := col.Shrink()
	if err != nil {
		return nil, err
	}

	return &shrinkResponse{
		Trimmed: trimmed,
		Stats:   col.Stats(),
	}, nil
}
