package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/mateusvmv/rent-vec/rentvec"
)

var (
	ErrIndexConflict = errors.New("index conflict")
	ErrIndexNotFound = errors.New("index not found")
	ErrRowNotFound   = errors.New("row not found")
)

type Collection struct {
	Name     string
	rows     *rentvec.Vec[Document]
	mutex    *sync.Mutex
	indexes  map[string]Index
	Defaults map[string]any
	MaxID    int64 // Monotonic ID counter
}

func NewCollection(name string, options ...rentvec.Option) *Collection {
	return &Collection{
		Name:    name,
		rows:    rentvec.New[Document](options...),
		mutex:   &sync.Mutex{},
		indexes: map[string]Index{},
	}
}

func (c *Collection) Insert(item map[string]any) (*Row, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if item == nil {
		item = map[string]any{}
	}

	c.MaxID++
	id := c.MaxID

	for k, v := range c.Defaults {
		if item[k] != nil {
			continue
		}
		item[k] = defaultValue(v, id)
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("json encode payload: %w", err)
	}

	row := &Row{I: id}
	row.lease, err = c.rows.Push(Document{
		Payload: payload,
		row:     row,
	})
	if err != nil {
		return nil, fmt.Errorf("push: %w", err)
	}

	err = indexInsert(c.indexes, row, payload)
	if err != nil {
		if _, removeErr := row.lease.Remove(); removeErr != nil {
			return nil, errors.Join(err, removeErr)
		}
		return nil, err
	}

	return row, nil
}

func defaultValue(v any, id int64) any {
	s, _ := v.(string)
	switch s {
	case "uuid()":
		return uuid.NewString()
	case "unixnano()":
		return time.Now().UnixNano()
	case "auto()":
		return id
	}
	return v
}

// Payload returns the stored document of row.
func (c *Collection) Payload(row *Row) (json.RawMessage, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return row.payload()
}

// Get reads a single value from the document of row, path uses gjson syntax.
func (c *Collection) Get(row *Row, path string) (gjson.Result, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	payload, err := row.payload()
	if err != nil {
		return gjson.Result{}, err
	}

	return gjson.GetBytes(payload, path), nil
}

func (c *Collection) FindOne(data interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	guard, err := c.rows.Guard()
	if err != nil {
		return err
	}
	defer guard.Release()

	for document := range guard.Iter() {
		return json.Unmarshal(document.Payload, data)
	}

	return ErrRowNotFound
}

// Traverse visits every row in storage order until f returns false. The
// collection is locked meanwhile: f must not call back into it, collect the
// rows and act on them afterwards.
func (c *Collection) Traverse(f func(row *Row, payload json.RawMessage) bool) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	guard, err := c.rows.Guard()
	if err != nil {
		return err
	}
	defer guard.Release()

	for document := range guard.Iter() {
		if !f(document.row, document.Payload) {
			break
		}
	}

	return nil
}

// TraverseIndex visits the rows of an index in index order. Same locking rules
// as Traverse.
func (c *Collection) TraverseIndex(name string, options []byte, f func(row *Row, payload json.RawMessage) bool) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	index, exists := c.indexes[name]
	if !exists {
		return fmt.Errorf("%w: '%s'", ErrIndexNotFound, name)
	}

	var err error
	index.Traverse(options, func(row *Row) bool {
		var payload json.RawMessage
		payload, err = row.payload()
		if err != nil {
			return false
		}
		return f(row, payload)
	})

	return err
}

func (c *Collection) Remove(row *Row) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	payload, err := row.payload()
	if err != nil {
		return fmt.Errorf("row %d: %w", row.I, err)
	}

	err = indexRemove(c.indexes, row, payload)
	if err != nil {
		return fmt.Errorf("could not free index: %w", err)
	}

	_, err = row.lease.Remove()
	if err != nil {
		// put it back where it was
		return errors.Join(err, indexInsert(c.indexes, row, payload))
	}

	return nil
}

// Patch applies a JSON merge patch (RFC 7386) to the document of row.
func (c *Collection) Patch(row *Row, patch interface{}) (json.RawMessage, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	oldPayload, err := row.payload()
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", row.I, err)
	}

	patchBytes, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal patch: %w", err)
	}

	newPayload, err := jsonpatch.MergePatch(oldPayload, patchBytes)
	if err != nil {
		return nil, fmt.Errorf("cannot apply patch: %w", err)
	}

	diff, err := jsonpatch.CreateMergePatch(oldPayload, newPayload)
	if err != nil {
		return nil, fmt.Errorf("cannot diff: %w", err)
	}

	if bytes.Equal(bytes.TrimSpace(diff), []byte("{}")) {
		return oldPayload, nil
	}

	err = c.replacePayload(row, oldPayload, newPayload)
	if err != nil {
		return nil, err
	}

	return newPayload, nil
}

// SetField sets a single value in the document of row, path uses sjson
// syntax.
func (c *Collection) SetField(row *Row, path string, value interface{}) (json.RawMessage, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	oldPayload, err := row.payload()
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", row.I, err)
	}

	newPayload, err := sjson.SetBytes(oldPayload, path, value)
	if err != nil {
		return nil, fmt.Errorf("set field '%s': %w", path, err)
	}

	err = c.replacePayload(row, oldPayload, newPayload)
	if err != nil {
		return nil, err
	}

	return newPayload, nil
}

// replacePayload swaps the document of row keeping indexes in sync. On an
// index conflict everything is left as it was.
func (c *Collection) replacePayload(row *Row, oldPayload, newPayload json.RawMessage) error {

	err := indexRemove(c.indexes, row, oldPayload)
	if err != nil {
		return fmt.Errorf("indexRemove: %w", err)
	}

	err = indexInsert(c.indexes, row, newPayload)
	if err != nil {
		return errors.Join(err, indexInsert(c.indexes, row, oldPayload))
	}

	err = row.setPayload(newPayload)
	if err != nil {
		indexRemove(c.indexes, row, newPayload)
		return errors.Join(err, indexInsert(c.indexes, row, oldPayload))
	}

	return nil
}

func (c *Collection) Index(name string, options interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.indexes[name]; exists {
		return fmt.Errorf("%w: index '%s' already exists", ErrIndexConflict, name)
	}

	var index Index

	switch value := options.(type) {
	case *IndexMapOptions:
		index = NewIndexMap(value)
	case *IndexBTreeOptions:
		index = NewIndexBTree(value)
	default:
		return fmt.Errorf("unexpected options parameters, it should be [map|btree]")
	}

	guard, err := c.rows.Guard()
	if err != nil {
		return err
	}
	defer guard.Release()

	for document := range guard.Iter() {
		err = index.AddRow(document.row, document.Payload)
		if err != nil {
			return fmt.Errorf("index row: %w, data: %s", err, string(document.Payload))
		}
	}

	c.indexes[name] = index

	return nil
}

func (c *Collection) DropIndex(name string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, exists := c.indexes[name]
	if !exists {
		return fmt.Errorf("dropIndex: %w: '%s'", ErrIndexNotFound, name)
	}
	delete(c.indexes, name)

	return nil
}

// Indexes returns a copy of the index table.
func (c *Collection) Indexes() map[string]Index {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	result := make(map[string]Index, len(c.indexes))
	for name, index := range c.indexes {
		result[name] = index
	}
	return result
}

func (c *Collection) SetDefaults(defaults map[string]any) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.Defaults = defaults
}

func (c *Collection) GetDefaults() map[string]any {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.Defaults
}

func (c *Collection) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.rows.Len()
}

func (c *Collection) Stats() rentvec.Stats {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.rows.Stats()
}

// Shrink releases storage left behind by removed rows.
func (c *Collection) Shrink() (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.rows.Shrink()
}

func indexInsert(indexes map[string]Index, row *Row, payload json.RawMessage) (err error) {
	rollbacks := make([]Index, 0, len(indexes))

	defer func() {
		if err == nil {
			return
		}
		for _, index := range rollbacks {
			index.RemoveRow(row, payload)
		}
	}()

	for key, index := range indexes {
		err = index.AddRow(row, payload)
		if err != nil {
			return fmt.Errorf("index add '%s': %w", key, err)
		}
		rollbacks = append(rollbacks, index)
	}

	return
}

func indexRemove(indexes map[string]Index, row *Row, payload json.RawMessage) (err error) {
	for key, index := range indexes {
		err = index.RemoveRow(row, payload)
		if err != nil {
			return fmt.Errorf("index remove '%s': %w", key, err)
		}
	}
	return
}
