package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/natefinch/atomic"
)

const exampleHost = "example.com"

// Save writes the request/response pair as a markdown example into
// API_EXAMPLES_PATH, when set.
func Save(response *apitest.Response, title, description string) {

	examplesPath := os.Getenv("API_EXAMPLES_PATH")
	if examplesPath == "" {
		return
	}

	request := response.Request

	query := request.URL.RawQuery
	if query != "" {
		query = "?" + query
	}

	requestBody := formatJSON(response.BodyRequestString())

	s := &strings.Builder{}

	fmt.Fprintf(s, "# %s\n", title)
	fmt.Fprintf(s, "%s\n", cropTabs(description))

	s.WriteString("Curl example:\n\n```sh\n")
	s.WriteString("curl ")
	if request.Method != http.MethodGet {
		fmt.Fprintf(s, "-X %s ", request.Method)
	}
	fmt.Fprintf(s, "\"https://%s%s%s\"", exampleHost, request.URL.Path, query)
	for _, k := range slices.Sorted(maps.Keys(request.Header)) {
		for _, v := range request.Header[k] {
			fmt.Fprintf(s, " \\\n-H \"%s: %s\"", k, v)
		}
	}
	if requestBody != "" {
		fmt.Fprintf(s, " \\\n-d '%s'", requestBody)
	}
	s.WriteString("\n```\n\n\n")

	s.WriteString("HTTP request/response example:\n\n```http\n")
	fmt.Fprintf(s, "%s %s%s %s\n", request.Method, request.URL.Path, query, request.Proto)
	fmt.Fprintf(s, "Host: %s\n", exampleHost)
	for _, k := range slices.Sorted(maps.Keys(request.Header)) {
		for _, v := range request.Header[k] {
			fmt.Fprintf(s, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(s, "\n%s\n\n", requestBody)

	fmt.Fprintf(s, "%s %s\n", response.Proto, response.Status)
	for _, k := range slices.Sorted(maps.Keys(response.Header)) {
		if k == "Date" {
			s.WriteString("Date: Mon, 15 Aug 2022 02:08:13 GMT\n")
			continue
		}
		for _, v := range response.Header[k] {
			fmt.Fprintf(s, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(s, "\n%s\n```\n\n\n", formatJSON(response.BodyString()))

	filename := strings.ReplaceAll(strings.ToLower(title), " ", "_") + ".md"
	p := path.Join(examplesPath, path.Clean(filename))
	fmt.Println("Saving", p)
	err := atomic.WriteFile(p, strings.NewReader(s.String()))
	if err != nil {
		fmt.Println("Saving err:", err)
	}
}

// formatJSON indents body when it is a single JSON value, streams of
// documents are returned untouched.
func formatJSON(body string) string {

	if !json.Valid([]byte(body)) {
		return body
	}

	b := &bytes.Buffer{}
	err := json.Indent(b, []byte(body), "", "    ")
	if err != nil {
		return body
	}

	return b.String()
}

// cropTabs removes the common indentation of a raw string literal written
// inside test code, and turns ´´´ into code fences.
func cropTabs(d string) string {

	lines := strings.Split(d, "\n")

	first := 0
	last := len(lines)
	if len(lines) > 2 {
		first++
		last--
	}

	minTabs := -1
	for _, line := range lines[first:last] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c := len(line) - len(strings.TrimLeft(line, "\t"))
		if minTabs < 0 || c < minTabs {
			minTabs = c
		}
	}

	if minTabs > 0 {
		prefix := strings.Repeat("\t", minTabs)
		for i, line := range lines {
			lines[i] = strings.TrimPrefix(line, prefix)
		}
	}

	return strings.ReplaceAll(strings.Join(lines, "\n"), "´´´", "```")
}
