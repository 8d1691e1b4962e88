package graph

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/jobflow/pkg/domain"
)

// GenerateYAML renders a blueprint as a YAML document.
func GenerateYAML(bp domain.Blueprint) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(bp); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
