package database

import (
	"errors"
	"testing"

	"github.com/fulldump/biff"
)

func TestDatabase(t *testing.T) {

	biff.Alternative("New database", func(a *biff.A) {

		db := NewDatabase(&Config{})
		biff.AssertEqual(db.GetStatus(), StatusOpening)
		biff.AssertNil(db.Load())
		biff.AssertEqual(db.GetStatus(), StatusOperating)

		a.Alternative("Create collection", func(a *biff.A) {

			col, err := db.CreateCollection("people")
			biff.AssertNil(err)
			biff.AssertEqual(col.Name, "people")

			a.Alternative("Create twice", func(a *biff.A) {
				_, err := db.CreateCollection("people")
				biff.AssertTrue(errors.Is(err, ErrCollectionAlreadyExists))
			})

			a.Alternative("Get", func(a *biff.A) {
				got, err := db.GetCollection("people")
				biff.AssertNil(err)
				biff.AssertTrue(got == col)
			})

			a.Alternative("List sorted", func(a *biff.A) {
				db.CreateCollection("animals")
				names := []string{}
				for _, col := range db.ListCollections() {
					names = append(names, col.Name)
				}
				biff.AssertEqual(names, []string{"animals", "people"})
			})

			a.Alternative("Drop", func(a *biff.A) {
				biff.AssertNil(db.DropCollection("people"))
				_, err := db.GetCollection("people")
				biff.AssertTrue(errors.Is(err, ErrCollectionNotFound))
				biff.AssertTrue(errors.Is(db.DropCollection("people"), ErrCollectionNotFound))
			})
		})

		a.Alternative("Stop", func(a *biff.A) {
			biff.AssertNil(db.Stop())
			biff.AssertNil(db.Stop())
			biff.AssertEqual(db.GetStatus(), StatusClosing)
		})
	})
}

func TestDatabase_MaxSlots(t *testing.T) {

	db := NewDatabase(&Config{MaxSlots: 1})
	col, _ := db.CreateCollection("tiny")

	_, err := col.Insert(map[string]any{"n": 1})
	biff.AssertNil(err)
	_, err = col.Insert(map[string]any{"n": 2})
	biff.AssertNotNil(err)
}
