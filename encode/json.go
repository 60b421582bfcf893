// Package encode provides the JSON persistence helper the CLI uses to write
// batch extraction results, adapted from the teacher project's
// json.go/encode/json.go: the same WriteJSON/JSONIndentDumps shape, but
// targeting a plain os.File instead of a TileDB VFS handle, since BeeFI's
// core does not own persistence (spec.md 1) and carries no storage-engine
// binding.
package encode

import (
	"encoding/json"
	"os"
)

// WriteJSON serialises data as indented JSON to path, creating or
// truncating the file as needed.
func WriteJSON(path string, data any) (int, error) {
	jsn, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := f.Write(jsn)
	if err != nil {
		return 0, err
	}

	return n, nil
}

// JSONDumps constructs a compact JSON string of data.
func JSONDumps(data any) (string, error) {
	jsn, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(jsn), nil
}

// JSONIndentDumps constructs a JSON string of data using four-space
// indentation.
func JSONIndentDumps(data any) (string, error) {
	jsn, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return "", err
	}
	return string(jsn), nil
}
