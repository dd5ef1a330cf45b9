package paper

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Translator renders a translation key, interpolating {name} placeholders.
// Unknown keys render as the key itself.
type Translator func(key string, values map[string]string) string

// Catalog is a flattened translation table keyed by dotted paths
type Catalog map[string]string

//go:embed locales/en.yaml
var englishYAML []byte

var english = mustParse(englishYAML)

// DefaultTranslator translates with the embedded English catalog
var DefaultTranslator Translator = english.Translate

func mustParse(data []byte) Catalog {
	c, err := ParseCatalog(data)
	if err != nil {
		panic("paper: invalid embedded catalog: " + err.Error())
	}
	return c
}

// ParseCatalog reads a nested YAML document into a flat catalog
func ParseCatalog(data []byte) (Catalog, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := Catalog{}
	flatten("", raw, c)
	return c, nil
}

// LoadCatalog reads a YAML catalog file. Keys missing from the file fall
// back to the embedded English entries.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	loaded, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}

	merged := make(Catalog, len(english)+len(loaded))
	for k, v := range english {
		merged[k] = v
	}
	for k, v := range loaded {
		merged[k] = v
	}
	return merged, nil
}

func flatten(prefix string, node map[string]interface{}, out Catalog) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Translate looks up key and substitutes {name} placeholders from values
func (c Catalog) Translate(key string, values map[string]string) string {
	text, ok := c[key]
	if !ok {
		return key
	}
	for name, value := range values {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}
