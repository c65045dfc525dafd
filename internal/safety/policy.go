package safety

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy is the on-disk blocklist format. An empty patterns list means "use
// the built-in defaults".
type Policy struct {
	Patterns []Pattern `yaml:"patterns"`
}

// LoadPolicy parses a YAML policy file.
func LoadPolicy(path string) (*Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading safety policy: %w", err)
	}
	var p Policy
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parsing safety policy %s: %w", path, err)
	}
	return &p, nil
}

// ClassifierFromEnv builds the input classifier, honouring PA_SAFETY_POLICY
// when set.
func ClassifierFromEnv() (Classifier, error) {
	path := os.Getenv("PA_SAFETY_POLICY")
	if path == "" {
		return NewKeywordClassifier(nil), nil
	}
	p, err := LoadPolicy(path)
	if err != nil {
		return nil, err
	}
	return NewKeywordClassifier(p.Patterns), nil
}
