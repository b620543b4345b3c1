package service

import (
	"github.com/mateusvmv/rent-vec/collection"
	"github.com/mateusvmv/rent-vec/database"
)

var (
	ErrorCollectionNotFound      = database.ErrCollectionNotFound
	ErrorCollectionAlreadyExists = database.ErrCollectionAlreadyExists
)

type Servicer interface { // todo: review naming
	CreateCollection(name string) (*collection.Collection, error)
	GetCollection(name string) (*collection.Collection, error)
	ListCollections() []*collection.Collection
	DeleteCollection(name string) error
}
