package apicollectionv1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SierraSoftworks/connor"
	json2 "github.com/go-json-experiment/json"

	"github.com/mateusvmv/rent-vec/collection"
	"github.com/mateusvmv/rent-vec/rentvec"
	"github.com/mateusvmv/rent-vec/utils"
)

type traverseInput struct {
	Mode    string                 `json:"mode"`
	Index   string                 `json:"index"`
	Value   string                 `json:"value"`
	Filter  map[string]interface{} `json:"filter"`
	Skip    int64                  `json:"skip"`
	Limit   int64                  `json:"limit"`
	Reverse bool                   `json:"reverse"`
	From    map[string]interface{} `json:"from"`
	To      map[string]interface{} `json:"to"`
}

type traverseFunc func(row *collection.Row, payload json.RawMessage) bool

var traverseModes = map[string]func(params *traverseInput, col *collection.Collection, f traverseFunc) error{
	"fullscan": traverseFullscan,
	"unique":   traverseUnique,
	"btree":    traverseBTree,
}

// traverse walks the rows selected by the request body: the mode picks how,
// then filter, skip and limit are applied in that order.
func traverse(requestBody []byte, col *collection.Collection, f traverseFunc) error {

	params := &traverseInput{
		Limit: 1,
	}
	if len(bytes.TrimSpace(requestBody)) > 0 {
		err := json2.Unmarshal(requestBody, params)
		if err != nil {
			return errBadRequest("decode traverse options: %s", err.Error())
		}
	}

	mode := params.Mode
	if mode == "" {
		mode = "fullscan"
		if params.Index != "" {
			index, err := getIndexByName(col, params.Index)
			if err != nil {
				return err
			}
			mode = map[string]string{"map": "unique", "btree": "btree"}[index.GetType()]
		}
	}

	t, exists := traverseModes[mode]
	if !exists {
		return errBadRequest("bad mode '%s', must be [%s]", mode, strings.Join(utils.GetKeys(traverseModes), "|"))
	}

	var matchErr error
	hasFilter := len(params.Filter) > 0
	skip := params.Skip
	limit := params.Limit

	err := t(params, col, func(row *collection.Row, payload json.RawMessage) bool {

		if limit == 0 {
			return false
		}

		if hasFilter {
			rowData := map[string]interface{}{}
			json2.Unmarshal(payload, &rowData) // stored payloads are always valid objects

			match, err := connor.Match(params.Filter, rowData)
			if err != nil {
				matchErr = errBadRequest("match: %s", err.Error())
				return false
			}
			if !match {
				return true
			}
		}

		if skip > 0 {
			skip--
			return true
		}

		limit--
		return f(row, payload)
	})
	if err != nil {
		return err
	}

	return matchErr
}

func traverseFullscan(params *traverseInput, col *collection.Collection, f traverseFunc) error {
	return col.Traverse(f)
}

func traverseUnique(params *traverseInput, col *collection.Collection, f traverseFunc) error {

	if _, err := getIndexByName(col, params.Index); err != nil {
		return err
	}

	traverseOptions, err := json.Marshal(collection.IndexMapTraverse{
		Value: params.Value,
	})
	if err != nil {
		return fmt.Errorf("marshal traverse options: %w", err)
	}

	return col.TraverseIndex(params.Index, traverseOptions, f)
}

func traverseBTree(params *traverseInput, col *collection.Collection, f traverseFunc) error {

	if _, err := getIndexByName(col, params.Index); err != nil {
		return err
	}

	traverseOptions, err := json.Marshal(collection.IndexBtreeTraverse{
		Reverse: params.Reverse,
		From:    params.From,
		To:      params.To,
	})
	if err != nil {
		return fmt.Errorf("marshal traverse options: %w", err)
	}

	return col.TraverseIndex(params.Index, traverseOptions, f)
}

func getIndexByName(col *collection.Collection, name string) (collection.Index, error) {

	indexes := col.Indexes()

	index, exists := indexes[name]
	if !exists {
		return nil, fmt.Errorf("%w: '%s', available indexes [%s]",
			collection.ErrIndexNotFound, name, strings.Join(utils.GetKeys(indexes), ","))
	}

	return index, nil
}

type selectedRow struct {
	row     *collection.Row
	payload json.RawMessage
}

// selectRows collects the traversed rows so they can be modified once the
// collection is released. A row may be removed by another request between
// selection and modification, see applySelected.
func selectRows(requestBody []byte, col *collection.Collection) ([]selectedRow, error) {

	selected := []selectedRow{}
	err := traverse(requestBody, col, func(row *collection.Row, payload json.RawMessage) bool {
		selected = append(selected, selectedRow{row: row, payload: payload})
		return true
	})

	return selected, err
}

// applySelected runs apply on every selected row and writes the resulting
// document. Rows removed after they were selected are skipped.
func applySelected(w io.Writer, selected []selectedRow, apply func(item selectedRow) (json.RawMessage, error)) error {

	for _, item := range selected {
		payload, err := apply(item)
		if errors.Is(err, rentvec.ErrInvalidLease) {
			continue
		}
		if err != nil {
			return err
		}

		err = writeRow(w, payload)
		if err != nil {
			return err
		}
	}

	return nil
}
