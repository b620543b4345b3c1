package collection

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/btree"
	"github.com/tidwall/gjson"
)

type IndexBtree struct {
	Btree   *btree.BTreeG[*RowOrdered]
	Options *IndexBTreeOptions
}

// IndexBTreeOptions lists the fields composing the key, a leading '-' sorts
// that field descending.
type IndexBTreeOptions struct {
	Fields []string `json:"fields"`
	Sparse bool     `json:"sparse"`
	Unique bool     `json:"unique"`
}

type RowOrdered struct {
	*Row
	Values []interface{}
}

type IndexBtreeTraverse struct {
	Reverse bool                   `json:"reverse"`
	From    map[string]interface{} `json:"from"`
	To      map[string]interface{} `json:"to"`
}

func valueRank(v interface{}) int {
	switch v.(type) {
	case float64:
		return 1
	case string:
		return 2
	}
	return 0
}

// compareValues orders missing values first, then numbers, then strings.
func compareValues(a, b interface{}) int {
	if c := cmp.Compare(valueRank(a), valueRank(b)); c != 0 {
		return c
	}
	switch a := a.(type) {
	case float64:
		return cmp.Compare(a, b.(float64))
	case string:
		return cmp.Compare(a, b.(string))
	}
	return 0
}

func NewIndexBTree(options *IndexBTreeOptions) *IndexBtree {

	index := btree.NewG(32, func(a, b *RowOrdered) bool {

		for i, valA := range a.Values {
			c := compareValues(valA, b.Values[i])
			if c == 0 {
				continue
			}
			if strings.HasPrefix(options.Fields[i], "-") {
				return c > 0
			}
			return c < 0
		}

		// equal keys are told apart by insertion order unless they must be unique
		if options.Unique {
			return false
		}
		return rowID(a) < rowID(b)
	})

	return &IndexBtree{
		Btree:   index,
		Options: options,
	}
}

func rowID(r *RowOrdered) int64 {
	if r.Row == nil {
		return 0
	}
	return r.Row.I
}

// values extracts the key of payload. exists is false if some field is missing.
func (b *IndexBtree) values(payload json.RawMessage) (values []interface{}, exists bool, err error) {

	for _, field := range b.Options.Fields {
		field = strings.TrimPrefix(field, "-")
		value := gjson.GetBytes(payload, field)
		switch value.Type {
		case gjson.Null:
			if !value.Exists() {
				return nil, false, nil
			}
			return nil, true, fmt.Errorf("field '%s' is null", field)
		case gjson.String:
			values = append(values, value.Str)
		case gjson.Number:
			values = append(values, value.Num)
		default:
			return nil, true, fmt.Errorf("field '%s' type not supported: %s", field, value.Raw)
		}
	}

	return values, true, nil
}

func (b *IndexBtree) RemoveRow(r *Row, payload json.RawMessage) error {

	values, exists, err := b.values(payload)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	b.Btree.Delete(&RowOrdered{
		Row:    r,
		Values: values,
	})

	return nil
}

func (b *IndexBtree) AddRow(r *Row, payload json.RawMessage) error {

	values, exists, err := b.values(payload)
	if err != nil {
		return err
	}
	if !exists {
		if b.Options.Sparse {
			return nil
		}
		return fmt.Errorf("fields '%s' not defined", strings.Join(b.Options.Fields, ","))
	}

	if b.Options.Unique && b.Btree.Has(&RowOrdered{Values: values}) {
		errKey := ""
		for i, field := range b.Options.Fields {
			pair := fmt.Sprint(field, ":", values[i])
			if errKey != "" {
				errKey += "," + pair
			} else {
				errKey = pair
			}
		}
		return fmt.Errorf("%w: key (%s) already exists", ErrIndexConflict, errKey)
	}

	b.Btree.ReplaceOrInsert(&RowOrdered{
		Row:    r,
		Values: values,
	})

	return nil
}

func (b *IndexBtree) pivot(values map[string]interface{}) *RowOrdered {
	pivot := &RowOrdered{}
	for _, field := range b.Options.Fields {
		field = strings.TrimPrefix(field, "-")
		pivot.Values = append(pivot.Values, values[field])
	}
	return pivot
}

func (b *IndexBtree) Traverse(optionsData []byte, f func(*Row) bool) {

	options := &IndexBtreeTraverse{}
	json.Unmarshal(optionsData, options) // todo: handle error

	iterator := func(r *RowOrdered) bool {
		return f(r.Row)
	}

	hasFrom := len(options.From) > 0
	hasTo := len(options.To) > 0

	pivotFrom := b.pivot(options.From)
	pivotTo := b.pivot(options.To)

	if !hasFrom && !hasTo {
		if options.Reverse {
			b.Btree.Descend(iterator)
		} else {
			b.Btree.Ascend(iterator)
		}
	} else if hasFrom && !hasTo {
		if options.Reverse {
			b.Btree.DescendGreaterThan(pivotFrom, iterator)
		} else {
			b.Btree.AscendGreaterOrEqual(pivotFrom, iterator)
		}
	} else if !hasFrom && hasTo {
		if options.Reverse {
			b.Btree.DescendLessOrEqual(pivotTo, iterator)
		} else {
			b.Btree.AscendLessThan(pivotTo, iterator)
		}
	} else {
		if options.Reverse {
			b.Btree.DescendRange(pivotTo, pivotFrom, iterator)
		} else {
			b.Btree.AscendRange(pivotFrom, pivotTo, iterator)
		}
	}
}

func (b *IndexBtree) GetType() string {
	return "btree"
}

func (b *IndexBtree) GetOptions() interface{} {
	return b.Options
}
