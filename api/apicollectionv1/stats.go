package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/mateusvmv/rent-vec/rentvec"
)

// stats exposes the slot layout of the collection storage.
func stats(ctx context.Context) (*rentvec.Stats, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	result := col.Stats()
	return &result, nil
}
