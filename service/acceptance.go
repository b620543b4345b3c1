package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// decodeLines reads a stream of JSON documents, one per line.
func decodeLines(body []byte) []interface{} {
	result := []interface{}{}
	d := json.NewDecoder(bytes.NewReader(body))
	for {
		var item interface{}
		err := d.Decode(&item)
		if errors.Is(err, io.EOF) {
			return result
		}
		biff.AssertNil(err)
		result = append(result, item)
	}
}

func toLines(documents ...JSON) string {
	body := ""
	for _, document := range documents {
		b, _ := json.Marshal(document)
		body += string(b) + "\n"
	}
	return body
}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Create collection", func(a *biff.A) {
		resp := apiRequest("POST", "/collections").
			WithBodyJson(JSON{
				"name": "my-collection",
			}).Do()
		Save(resp, "Create collection", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"name":    "my-collection",
			"total":   0,
			"indexes": 0,
		})

		a.Alternative("Retrieve collection", func(a *biff.A) {
			resp := apiRequest("GET", "/collections/my-collection").Do()
			Save(resp, "Retrieve collection", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"name":    "my-collection",
				"total":   0,
				"indexes": 0,
			})
		})

		a.Alternative("List collections", func(a *biff.A) {
			resp := apiRequest("GET", "/collections").Do()
			Save(resp, "List collections", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{
				{
					"name":    "my-collection",
					"total":   0,
					"indexes": 0,
				},
			})
		})

		a.Alternative("Create collection twice", func(a *biff.A) {
			resp := apiRequest("POST", "/collections").
				WithBodyJson(JSON{
					"name": "my-collection",
				}).Do()
			Save(resp, "Create collection - already exists", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Drop collection", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:dropCollection").
				Do()
			Save(resp, "Drop collection", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

			a.Alternative("Get dropped collection", func(a *biff.A) {
				resp := apiRequest("GET", "/collections/my-collection").
					Do()
				Save(resp, "Get collection - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})

		a.Alternative("Insert one", func(a *biff.A) {
			myDocument := JSON{
				"id":      "my-id",
				"name":    "Fulanez",
				"address": "Elm Street 11",
			}
			resp := apiRequest("POST", "/collections/my-collection:insert").
				WithBodyJson(myDocument).Do()
			Save(resp, "Insert one", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			biff.AssertEqualJson(resp.BodyJson(), myDocument)

			a.Alternative("Find with fullscan", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:find").
					WithBodyJson(JSON{
						"mode":  "fullscan",
						"skip":  0,
						"limit": 1,
						"filter": JSON{
							"name": "Fulanez",
						},
					}).Do()
				Save(resp, "Find - fullscan", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), myDocument)
			})

			a.Alternative("Find with bad mode", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:find").
					WithBodyJson(JSON{
						"mode": "telepathy",
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Stats", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:stats").Do()
				Save(resp, "Stats", `
					Slot layout of the storage: ´tail´ is one past the highest
					occupied slot, ´relocated´ counts the markers left by removals
					that were not resolved yet.
				`)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				stats := resp.BodyJson().(JSON)
				biff.AssertEqualJson(stats["len"], 1)
				biff.AssertEqualJson(stats["tail"], 1)
				biff.AssertEqualJson(stats["relocated"], 0)
				biff.AssertEqualJson(stats["free"], 0)
			})

		})

		a.Alternative("Insert empty body", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:insert").
				WithBodyString("").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNoContent)
		})

		a.Alternative("Insert malformed JSON", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:insert").
				WithBodyString(`{"name": `).Do()
			Save(resp, "Insert - malformed", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Insert null document", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:insert").
				WithBodyString(`null`).Do()
			Save(resp, "Insert - not an object", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)

			resp = apiRequest("POST", "/collections/my-collection:stats").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			stats := resp.BodyJson().(JSON)
			biff.AssertEqualJson(stats["len"], 0)
		})

		a.Alternative("Insert many", func(a *biff.A) {

			myDocuments := []JSON{
				{"id": "1", "name": "Alfonso"},
				{"id": "2", "name": "Gerardo"},
				{"id": "3", "name": "Alfonso"},
			}

			resp := apiRequest("POST", "/collections/my-collection:insert").
				WithBodyString(toLines(myDocuments...)).Do()
			Save(resp, "Insert many", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			biff.AssertEqualJson(decodeLines(resp.BodyBytes()), myDocuments)

			a.Alternative("Create index", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:createIndex").
					WithBodyJson(JSON{"name": "my-index", "type": "map", "field": "id"}).Do()
				Save(resp, "Create index", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusCreated)

				a.Alternative("Delete by index", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:remove").
						WithBodyJson(JSON{
							"index": "my-index",
							"value": "2",
						}).Do()
					Save(resp, "Delete - by index", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), myDocuments[1])
				})

				a.Alternative("Patch by index", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:patch").
						WithBodyJson(JSON{
							"index": "my-index",
							"value": "3",
							"patch": JSON{
								"name": "Pedro",
							},
						}).Do()
					Save(resp, "Patch - by index", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), JSON{"id": "3", "name": "Pedro"})

					resp = apiRequest("POST", "/collections/my-collection:find").
						WithBodyJson(JSON{"limit": 10}).Do()
					Save(resp, "Find - fullscan with limit 10", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(decodeLines(resp.BodyBytes()), []JSON{
						myDocuments[0],
						myDocuments[1],
						{"id": "3", "name": "Pedro"},
					})
				})

				a.Alternative("Index survives relocation", func(a *biff.A) {

					// removing the first document moves the last one into its slot
					resp := apiRequest("POST", "/collections/my-collection:remove").
						WithBodyJson(JSON{
							"index": "my-index",
							"value": "1",
						}).Do()
					biff.AssertEqual(resp.StatusCode, http.StatusOK)

					resp = apiRequest("POST", "/collections/my-collection:stats").Do()
					stats := resp.BodyJson().(JSON)
					biff.AssertEqualJson(stats["len"], 2)
					biff.AssertEqualJson(stats["tail"], 2)
					biff.AssertEqualJson(stats["relocated"], 1)

					resp = apiRequest("POST", "/collections/my-collection:patch").
						WithBodyJson(JSON{
							"index": "my-index",
							"value": "3",
							"patch": JSON{
								"country": "es",
							},
						}).Do()
					Save(resp, "Patch - relocated document", `
						The document with id 3 was moved when document 1 was
						removed, the index still finds it.
					`)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), JSON{"id": "3", "name": "Alfonso", "country": "es"})

					resp = apiRequest("POST", "/collections/my-collection:find").
						WithBodyJson(JSON{"limit": 10}).Do()
					biff.AssertEqualJson(decodeLines(resp.BodyBytes()), []JSON{
						{"id": "3", "name": "Alfonso", "country": "es"},
						myDocuments[1],
					})

					resp = apiRequest("POST", "/collections/my-collection:stats").Do()
					stats = resp.BodyJson().(JSON)
					biff.AssertEqualJson(stats["relocated"], 0)
					biff.AssertEqualJson(stats["free"], 1)
					biff.AssertEqualJson(stats["slots"], 3)

					a.Alternative("Shrink", func(a *biff.A) {
						resp := apiRequest("POST", "/collections/my-collection:shrink").Do()
						Save(resp, "Shrink", `
							Trims free slots from the end of the storage.
						`)

						biff.AssertEqual(resp.StatusCode, http.StatusOK)
						body := resp.BodyJson().(JSON)
						biff.AssertEqualJson(body["trimmed"], 1)
						biff.AssertEqualJson(body["stats"].(JSON)["slots"], 2)
					})
				})

				a.Alternative("Get index", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:getIndex").
						WithBodyJson(JSON{"name": "my-index"}).Do()
					Save(resp, "Get index", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), JSON{
						"name":   "my-index",
						"type":   "map",
						"field":  "id",
						"sparse": false,
					})
				})

				a.Alternative("List indexes", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:listIndexes").Do()
					Save(resp, "List indexes", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), []JSON{
						{
							"name":   "my-index",
							"type":   "map",
							"field":  "id",
							"sparse": false,
						},
					})
				})

				a.Alternative("Drop index", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:dropIndex").
						WithBodyJson(JSON{"name": "my-index"}).Do()
					Save(resp, "Drop index", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

					resp = apiRequest("POST", "/collections/my-collection:getIndex").
						WithBodyJson(JSON{"name": "my-index"}).Do()
					biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
				})

				a.Alternative("Insert duplicated", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:insert").
						WithBodyJson(JSON{"id": "1", "name": "Clon"}).Do()
					Save(resp, "Insert - index conflict", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusConflict)

					resp = apiRequest("GET", "/collections/my-collection").Do()
					biff.AssertEqualJson(resp.BodyJson().(JSON)["total"], 3)
				})

				a.Alternative("Find with unique index", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:find").
						WithBodyJson(JSON{
							"index": "my-index",
							"value": "2",
						}).Do()
					Save(resp, "Find - by unique index", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusOK)
					biff.AssertEqualJson(resp.BodyJson(), myDocuments[1])
				})

				a.Alternative("Find - index not found", func(a *biff.A) {
					resp := apiRequest("POST", "/collections/my-collection:find").
						WithBodyJson(JSON{
							"index": "your-index",
							"value": "2",
						}).Do()
					Save(resp, "Find - index not found", ``)

					biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
					message := resp.BodyJson().(JSON)["error"].(JSON)["message"].(string)
					biff.AssertTrue(strings.Contains(message, "available indexes [my-index]"))
				})
			})

			a.Alternative("Delete by fullscan", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:remove").
					WithBodyJson(JSON{
						"limit": 10,
						"filter": JSON{
							"name": "Alfonso",
						},
					}).Do()
				Save(resp, "Delete - fullscan", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(decodeLines(resp.BodyBytes()), []JSON{
					myDocuments[0],
					myDocuments[2],
				})

				resp = apiRequest("POST", "/collections/my-collection:find").
					WithBodyJson(JSON{"limit": 10}).Do()
				biff.AssertEqualJson(decodeLines(resp.BodyBytes()), []JSON{
					myDocuments[1],
				})
			})

			a.Alternative("Patch by fullscan", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:patch").
					WithBodyJson(JSON{
						"limit": 10,
						"filter": JSON{
							"name": "Alfonso",
						},
						"patch": JSON{
							"country": "es",
						},
					}).Do()
				Save(resp, "Patch - by fullscan", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(decodeLines(resp.BodyBytes()), []JSON{
					{"id": "1", "name": "Alfonso", "country": "es"},
					{"id": "3", "name": "Alfonso", "country": "es"},
				})
			})

			a.Alternative("Patch without patch", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:patch").
					WithBodyJson(JSON{
						"limit": 10,
					}).Do()

				biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
			})

			a.Alternative("Set field", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:setField").
					WithBodyJson(JSON{
						"filter": JSON{
							"id": "2",
						},
						"path": "address.city",
						"set":  "Madrid",
					}).Do()
				Save(resp, "Set field", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				biff.AssertEqualJson(resp.BodyJson(), JSON{
					"id":   "2",
					"name": "Gerardo",
					"address": JSON{
						"city": "Madrid",
					},
				})
			})
		})

		a.Alternative("Create index - btree compound", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:createIndex").
				WithBodyJson(JSON{"name": "my-index", "type": "btree", "fields": []string{"category", "-product"}}).Do()
			Save(resp, "Create index - btree compound", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)

			documents := []JSON{
				{"id": "1", "category": "fruit", "product": "orange"},
				{"id": "2", "category": "drink", "product": "water"},
				{"id": "3", "category": "drink", "product": "milk"},
				{"id": "4", "category": "fruit", "product": "apple"},
			}
			resp = apiRequest("POST", "/collections/my-collection:insert").
				WithBodyString(toLines(documents...)).Do()
			biff.AssertEqual(resp.StatusCode, http.StatusCreated)

			a.Alternative("Find with BTree", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:find").
					WithBodyJson(JSON{
						"index": "my-index",
						"skip":  0,
						"limit": 10,
					}).Do()
				Save(resp, "Find - by BTree", ``)

				ids := []interface{}{}
				for _, item := range decodeLines(resp.BodyBytes()) {
					ids = append(ids, item.(JSON)["id"])
				}
				biff.AssertEqualJson(ids, []string{"2", "3", "1", "4"})
			})

			a.Alternative("Find with BTree - reverse order", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:find").
					WithBodyJson(JSON{
						"index":   "my-index",
						"reverse": true,
						"limit":   10,
					}).Do()
				Save(resp, "Find - by BTree reverse order", ``)

				ids := []interface{}{}
				for _, item := range decodeLines(resp.BodyBytes()) {
					ids = append(ids, item.(JSON)["id"])
				}
				biff.AssertEqualJson(ids, []string{"4", "1", "3", "2"})
			})

			a.Alternative("Find with BTree with filter", func(a *biff.A) {
				resp := apiRequest("POST", "/collections/my-collection:find").
					WithBodyJson(JSON{
						"index": "my-index",
						"limit": 10,
						"filter": JSON{
							"category": "fruit",
						},
					}).Do()
				Save(resp, "Find - by BTree with filter", ``)

				biff.AssertEqualJson(decodeLines(resp.BodyBytes()), []JSON{
					documents[0],
					documents[3],
				})
			})
		})

		a.Alternative("Create index - btree range", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:createIndex").
				WithBodyJson(JSON{"name": "by-n", "type": "btree", "fields": []string{"n"}, "unique": true}).Do()
			biff.AssertEqual(resp.StatusCode, http.StatusCreated)

			apiRequest("POST", "/collections/my-collection:insert").
				WithBodyString(toLines(JSON{"n": 1}, JSON{"n": 2}, JSON{"n": 3}, JSON{"n": 4}, JSON{"n": 5})).Do()

			resp = apiRequest("POST", "/collections/my-collection:find").
				WithBodyJson(JSON{
					"index": "by-n",
					"from":  JSON{"n": 2},
					"to":    JSON{"n": 4},
					"limit": 10,
				}).Do()
			Save(resp, "Find - by BTree range", ``)

			biff.AssertEqualJson(decodeLines(resp.BodyBytes()), []JSON{
				{"n": 2},
				{"n": 3},
			})
		})

		a.Alternative("Create index - bad type", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:createIndex").
				WithBodyJson(JSON{"name": "my-index", "type": "hash", "field": "id"}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Find with collection not found", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/your-collection:find").
				WithBodyJson(JSON{}).Do()
			Save(resp, "Find - collection not found", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})
	})

	a.Alternative("Insert on not existing collection", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/my-collection:insert").
			WithBodyJson(JSON{"name": "Fulanez"}).Do()
		Save(resp, "Insert - create collection", `
			Inserting into a missing collection creates it, documents get a
			random ´id´ unless they carry one.
		`)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		document := resp.BodyJson().(JSON)
		biff.AssertEqual(document["name"], "Fulanez")
		biff.AssertEqual(len(document["id"].(string)), 36)

		a.Alternative("Retrieve collection", func(a *biff.A) {
			resp := apiRequest("GET", "/collections/my-collection").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"name":    "my-collection",
				"total":   1,
				"indexes": 0,
				"defaults": JSON{
					"id": "uuid()",
				},
			})
		})

		a.Alternative("Set defaults", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:setDefaults").
				WithBodyJson(JSON{
					"id":      nil,
					"country": "es",
				}).Do()
			Save(resp, "Set defaults", `
				Keys set to null are removed from the defaults.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"country": "es",
			})

			resp = apiRequest("POST", "/collections/my-collection:insert").
				WithBodyJson(JSON{"name": "Menganez"}).Do()
			biff.AssertEqualJson(resp.BodyJson(), JSON{
				"name":    "Menganez",
				"country": "es",
			})
		})
	})

	a.Alternative("Create index on not existing collection", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/my-collection:createIndex").
			WithBodyJson(JSON{"name": "my-index", "type": "map", "field": "email"}).Do()
		Save(resp, "Create index - create collection", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), JSON{
			"name":   "my-index",
			"type":   "map",
			"field":  "email",
			"sparse": false,
		})
	})
}
