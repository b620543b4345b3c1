package database

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mateusvmv/rent-vec/collection"
	"github.com/mateusvmv/rent-vec/rentvec"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

var (
	ErrCollectionNotFound      = errors.New("collection not found")
	ErrCollectionAlreadyExists = errors.New("collection already exists")
)

type Config struct {
	// MaxSlots bounds the slots of every collection, zero means unbounded
	MaxSlots int
	Logger   *slog.Logger
}

type Database struct {
	config      *Config
	status      string
	collections map[string]*collection.Collection
	mutex       *sync.RWMutex
	exit        chan struct{}
	stopOnce    *sync.Once
}

func NewDatabase(config *Config) *Database { // todo: return error?
	s := &Database{
		config:      config,
		status:      StatusOpening,
		collections: map[string]*collection.Collection{},
		mutex:       &sync.RWMutex{},
		exit:        make(chan struct{}),
		stopOnce:    &sync.Once{},
	}

	return s
}

func (db *Database) GetStatus() string {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	return db.status
}

func (db *Database) setStatus(status string) {
	db.mutex.Lock()
	db.status = status
	db.mutex.Unlock()
}

func (db *Database) CreateCollection(name string) (*collection.Collection, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, exists := db.collections[name]; exists {
		return nil, fmt.Errorf("%w: '%s'", ErrCollectionAlreadyExists, name)
	}

	options := []rentvec.Option{
		rentvec.WithMaxSlots(db.config.MaxSlots),
	}
	if db.config.Logger != nil {
		options = append(options, rentvec.WithLogger(db.config.Logger.With("collection", name)))
	}

	col := collection.NewCollection(name, options...)
	db.collections[name] = col

	return col, nil
}

func (db *Database) GetCollection(name string) (*collection.Collection, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	col, exists := db.collections[name]
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrCollectionNotFound, name)
	}

	return col, nil
}

// ListCollections returns the collections sorted by name.
func (db *Database) ListCollections() []*collection.Collection {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	result := make([]*collection.Collection, 0, len(db.collections))
	for _, col := range db.collections {
		result = append(result, col)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

func (db *Database) DropCollection(name string) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, exists := db.collections[name]; !exists {
		return fmt.Errorf("%w: '%s'", ErrCollectionNotFound, name)
	}

	delete(db.collections, name)

	return nil
}

// Load makes the database operational. Collections live in memory only, so
// there is nothing to read.
func (db *Database) Load() error {
	fmt.Println("Loading database...") // todo: move to logger
	db.setStatus(StatusOperating)
	return nil
}

func (db *Database) Start() error {

	go db.Load()

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	db.stopOnce.Do(func() {
		db.setStatus(StatusClosing)

		for _, col := range db.ListCollections() {
			fmt.Printf("Closing '%s' with %d documents...\n", col.Name, col.Len())
		}

		close(db.exit)
	})

	return nil
}
