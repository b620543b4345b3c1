package apicollectionv1

import (
	"context"
	"encoding/json"

	"github.com/fulldump/box"

	"github.com/mateusvmv/rent-vec/collection"
	"github.com/mateusvmv/rent-vec/utils"
)

type listIndexesItem struct {
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Options interface{} `json:"options"`
}

// MarshalJSON flattens the index options next to name and type.
func (l *listIndexesItem) MarshalJSON() ([]byte, error) {

	result := map[string]interface{}{}
	err := utils.Remarshal(l.Options, &result)
	if err != nil {
		return nil, err
	}
	result["name"] = l.Name
	result["type"] = l.Type

	return json.Marshal(result)
}

func newListIndexesItem(name string, index collection.Index) *listIndexesItem {
	return &listIndexesItem{
		Name:    name,
		Type:    index.GetType(),
		Options: index.GetOptions(),
	}
}

func listIndexes(ctx context.Context) ([]*listIndexesItem, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	indexes := col.Indexes()

	result := []*listIndexesItem{}
	for _, name := range utils.GetKeys(indexes) {
		result = append(result, newListIndexesItem(name, indexes[name]))
	}

	return result, nil
}
