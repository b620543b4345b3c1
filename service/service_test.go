package service

import (
	"errors"
	"testing"

	"github.com/fulldump/biff"

	"github.com/mateusvmv/rent-vec/database"
)

func TestService(t *testing.T) {

	db := database.NewDatabase(&database.Config{})
	s := NewService(db)

	var _ Servicer = s

	_, err := s.GetCollection("people")
	biff.AssertTrue(errors.Is(err, ErrorCollectionNotFound))

	col, err := s.CreateCollection("people")
	biff.AssertNil(err)

	_, err = s.CreateCollection("people")
	biff.AssertTrue(errors.Is(err, ErrorCollectionAlreadyExists))

	got, err := s.GetCollection("people")
	biff.AssertNil(err)
	biff.AssertTrue(got == col)
	biff.AssertEqual(len(s.ListCollections()), 1)

	biff.AssertNil(s.DeleteCollection("people"))
	biff.AssertEqual(len(s.ListCollections()), 0)
}

func TestFormatJSON(t *testing.T) {

	biff.AssertEqual(formatJSON(`{"a":1}`), "{\n    \"a\": 1\n}")
	biff.AssertEqual(formatJSON("{\"a\":1}\n{\"a\":2}\n"), "{\"a\":1}\n{\"a\":2}\n")
	biff.AssertEqual(formatJSON(""), "")
}

func TestCropTabs(t *testing.T) {

	d := `
		first line
			indented
		´´´
	`

	biff.AssertEqual(cropTabs(d), "\nfirst line\n\tindented\n```\n\t")
}
