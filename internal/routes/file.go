package routes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// tableFile is the on-disk shape of a route table:
//
//	routes:
//	  - path: /
//	    redirect: /rental-store
//	  - path: /orders
//	    name: Orders
//	    requiresAuth: true
type tableFile struct {
	Routes []Route `yaml:"routes"`
}

// LoadFile reads a YAML route table from path
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read route table: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML route table
func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal route table: %w", err)
	}
	if len(f.Routes) == 0 {
		return nil, fmt.Errorf("%w: no routes defined", ErrInvalidTable)
	}
	return NewTable(f.Routes)
}
