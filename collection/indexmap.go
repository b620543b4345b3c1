package collection

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// IndexMap is a unique index over a string field, or over every string of an
// array field.
type IndexMap struct {
	Entries map[string]*Row
	Options *IndexMapOptions
}

// IndexMapOptions.Field accepts gjson paths, so nested fields can be indexed.
type IndexMapOptions struct {
	Field  string `json:"field"`
	Sparse bool   `json:"sparse"`
}

func NewIndexMap(options *IndexMapOptions) *IndexMap {
	return &IndexMap{
		Entries: map[string]*Row{},
		Options: options,
	}
}

func (i *IndexMap) keys(payload json.RawMessage) ([]string, bool, error) {

	field := i.Options.Field

	value := gjson.GetBytes(payload, field)
	if !value.Exists() {
		return nil, false, nil
	}

	switch {
	case value.Type == gjson.String:
		return []string{value.Str}, true, nil
	case value.IsArray():
		keys := []string{}
		for _, v := range value.Array() {
			if v.Type != gjson.String {
				return nil, true, fmt.Errorf("field '%s' has a non string item: %s", field, v.Raw)
			}
			keys = append(keys, v.Str)
		}
		return keys, true, nil
	}

	return nil, true, fmt.Errorf("type not supported")
}

func (i *IndexMap) RemoveRow(row *Row, payload json.RawMessage) error {

	keys, exists, err := i.keys(payload)
	if err != nil {
		return err
	}
	if !exists {
		// Do not index
		return nil
	}

	for _, key := range keys {
		if i.Entries[key] == row {
			delete(i.Entries, key)
		}
	}

	return nil
}

func (i *IndexMap) AddRow(row *Row, payload json.RawMessage) error {

	field := i.Options.Field

	keys, exists, err := i.keys(payload)
	if err != nil {
		return err
	}
	if !exists {
		if i.Options.Sparse {
			// Do not index
			return nil
		}
		return fmt.Errorf("field `%s` is indexed and mandatory", field)
	}

	seen := map[string]bool{}
	for _, key := range keys {
		if _, exists := i.Entries[key]; exists || seen[key] {
			return fmt.Errorf("%w: field '%s' with value '%s'", ErrIndexConflict, field, key)
		}
		seen[key] = true
	}
	for _, key := range keys {
		i.Entries[key] = row
	}

	return nil
}

type IndexMapTraverse struct {
	Value string `json:"value"`
}

func (i *IndexMap) Traverse(optionsData []byte, f func(row *Row) bool) {

	options := &IndexMapTraverse{}
	json.Unmarshal(optionsData, options) // todo: handle error

	row, ok := i.Entries[options.Value]
	if !ok {
		return
	}

	f(row)
}

func (i *IndexMap) GetType() string {
	return "map"
}

func (i *IndexMap) GetOptions() interface{} {
	return i.Options
}
