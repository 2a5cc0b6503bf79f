// Package schemas holds the JSON Schemas for the files the CLI reads and writes.
package schemas

import "embed"

// Schema file names.
const (
	Instance  = "instance.schema.json"
	TestCases = "test_cases.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the content of the named schema.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists every embedded schema.
func Names() []string {
	return []string{Instance, TestCases}
}
