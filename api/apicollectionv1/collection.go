package apicollectionv1

import (
	"github.com/mateusvmv/rent-vec/collection"
)

type CollectionResponse struct {
	Name     string         `json:"name"`
	Total    int            `json:"total"`
	Indexes  int            `json:"indexes"`
	Defaults map[string]any `json:"defaults,omitempty"`
}

func newCollectionResponse(col *collection.Collection) *CollectionResponse {
	return &CollectionResponse{
		Name:     col.Name,
		Total:    col.Len(),
		Indexes:  len(col.Indexes()),
		Defaults: col.GetDefaults(),
	}
}

func newCollectionDefaults() map[string]any {
	return map[string]any{
		"id": "uuid()",
	}
}
