package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// readProblem decodes a YAML or JSON problem from path, or stdin for "-".
func readProblem(path string, stdin io.Reader, out any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read problem: %w", err)
	}
	// JSON is valid YAML, so one decoder covers both
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse problem %s: %w", path, err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
