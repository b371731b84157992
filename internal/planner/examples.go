package planner

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"arcade/internal/model"
)

//go:embed examples/*.yaml
var examplesFS embed.FS

func loadExample(name string, out any) error {
	data, err := examplesFS.ReadFile("examples/" + name)
	if err != nil {
		return fmt.Errorf("read example %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse example %s: %w", name, err)
	}
	return nil
}

// RouteExample is a sample errand list.
func RouteExample() (model.RouteRequest, error) {
	var req model.RouteRequest
	err := loadExample("route.yaml", &req)
	return req, err
}

// PackingExample is a sample trip packing list.
func PackingExample() (model.PackingRequest, error) {
	var req model.PackingRequest
	err := loadExample("packing.yaml", &req)
	return req, err
}
