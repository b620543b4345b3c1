package utils

import (
	json2 "github.com/go-json-experiment/json"
)

// Remarshal copies input into output through its JSON form, output keeps
// whatever members input does not set.
func Remarshal(input interface{}, output interface{}) error {
	b, err := json2.Marshal(input)
	if err != nil {
		return err
	}
	return json2.Unmarshal(b, output)
}
