package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/cohort/internal/domain/model"
)

// panelFilePermission is used when writing panel files.
const panelFilePermission = 0o644

// panelDocument is the on-disk shape of a panel file. A bare list of people
// is accepted as well.
type panelDocument struct {
	People []model.Person `json:"people" yaml:"people"`
}

// ReadPanelFile decodes a panel from a .yaml, .yml or .json file.
func ReadPanelFile(path string) ([]model.Person, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadPanel, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return decodeYAML(data)
	case ".json":
		return decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// WritePanelFile encodes people into path, picking the format by extension.
func WritePanelFile(path string, people []model.Person) error {
	doc := panelDocument{People: people}

	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	case ".json":
		data, err = json.MarshalIndent(doc, "", "  ")
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return fmt.Errorf("encode panel: %w", err)
	}
	return os.WriteFile(path, data, panelFilePermission)
}

// LoadFile replaces the panel with the contents of path.
func (s *MemoryStore) LoadFile(ctx context.Context, path string) error {
	people, err := ReadPanelFile(path)
	if err != nil {
		return err
	}
	return s.Replace(ctx, people)
}

func decodeYAML(data []byte) ([]model.Person, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadPanel, err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var people []model.Person
		if err := root.Decode(&people); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadPanel, err)
		}
		return people, nil
	}

	var doc panelDocument
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadPanel, err)
	}
	return doc.People, nil
}

func decodeJSON(data []byte) ([]model.Person, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var people []model.Person
		if err := json.Unmarshal(trimmed, &people); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadPanel, err)
		}
		return people, nil
	}

	var doc panelDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadPanel, err)
	}
	return doc.People, nil
}
