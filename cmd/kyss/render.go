package main

import (
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/yamlcompat"
)

// readInput returns the contents of path, or of stdin for "" / "-".
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// renderJSON parses a kyss document and writes its raw tree as JSON.
func renderJSON(w io.Writer, path string, compact bool) error {
	var (
		v   kyss.Value
		err error
	)
	if path == "" || path == "-" {
		v, err = kyss.ParseReader(os.Stdin)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return err
		}
		v, err = kyss.Parse(data)
	}
	if err != nil {
		return err
	}
	return writeJSON(w, v, compact)
}

// renderFromYAML converts a YAML document and writes the raw tree as JSON.
func renderFromYAML(w io.Writer, path string, compact bool) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}
	v, err := yamlcompat.Load(data)
	if err != nil {
		return err
	}
	return writeJSON(w, v, compact)
}

func writeJSON(w io.Writer, v kyss.Value, compact bool) error {
	var (
		data []byte
		err  error
	)
	if compact {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
