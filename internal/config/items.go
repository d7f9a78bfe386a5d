package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/edward-ap/folio/internal/marquee"
)

// Manifest is the YAML document listing the loop items in render order.
type Manifest struct {
	Items []marquee.Item `yaml:"items"`
}

var defaultItems = []marquee.Item{
	{Text: "Go"},
	{Text: "React"},
	{Text: "Three.js"},
	{Text: "WebGL"},
	{Text: "Tailwind"},
	{Text: "Netlify"},
	{Text: "Node.js"},
}

// DefaultItems returns a copy of the built-in item list.
func DefaultItems() []marquee.Item {
	out := make([]marquee.Item, len(defaultItems))
	copy(out, defaultItems)
	return out
}

// LoadItems reads a manifest. An empty path or a missing file yields the
// default items; entries with neither text, src nor alt are dropped.
func LoadItems(path string) ([]marquee.Item, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultItems(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultItems(), nil
		}
		return nil, err
	}
	return ParseItems(b)
}

// ParseItems decodes manifest bytes.
func ParseItems(b []byte) ([]marquee.Item, error) {
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("items manifest parse error: %w", err)
	}
	out := make([]marquee.Item, 0, len(m.Items))
	for _, it := range m.Items {
		it.Text = strings.TrimSpace(it.Text)
		it.Src = strings.TrimSpace(it.Src)
		it.Alt = strings.TrimSpace(it.Alt)
		if it.Text == "" && it.Src == "" && it.Alt == "" {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// SaveItems writes items as a manifest, creating directories as needed.
func SaveItems(path string, items []marquee.Item) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(Manifest{Items: items})
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
