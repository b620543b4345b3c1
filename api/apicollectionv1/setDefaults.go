package apicollectionv1

import (
	"context"
	"maps"
	"net/http"

	json2 "github.com/go-json-experiment/json"
)

// setDefaults merges the body into the current defaults, null values remove
// the key.
func setDefaults(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	col, err := getOrCreateCollection(ctx)
	if err != nil {
		return err
	}

	defaults := maps.Clone(col.GetDefaults())
	if defaults == nil {
		defaults = map[string]any{}
	}

	input := map[string]any{}
	err = json2.UnmarshalRead(r.Body, &input)
	if err != nil {
		return errBadRequest("decode defaults: %s", err.Error())
	}

	for k, v := range input {
		if v == nil {
			delete(defaults, k)
			continue
		}
		defaults[k] = v
	}

	if len(defaults) == 0 {
		defaults = nil
	}

	col.SetDefaults(defaults)

	return json2.MarshalWrite(w, col.GetDefaults())
}
