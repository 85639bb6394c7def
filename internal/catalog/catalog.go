// Package catalog holds the static section catalog and the chart definitions.
// Both are read-only configuration embedded into the binary.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed sections.yaml
var sectionsYAML []byte

//go:embed charts.yaml
var chartsYAML []byte

// Pillar groups sections.
type Pillar int

const (
	General Pillar = iota
	Environment
	Social
	Governance
)

// Pillars lists the scored pillars in display order.
var Pillars = []Pillar{Environment, Social, Governance}

// Slug is the lowercase name used in URLs and chart definitions.
func (p Pillar) Slug() string {
	switch p {
	case General:
		return "general"
	case Environment:
		return "environment"
	case Social:
		return "social"
	case Governance:
		return "governance"
	default:
		return fmt.Sprintf("pillar%d", int(p))
	}
}

// NameKey is the i18n key of the pillar's display name.
func (p Pillar) NameKey() string {
	return "pillar." + p.Slug()
}

// ParsePillar maps a slug back to its Pillar.
func ParsePillar(slug string) (Pillar, bool) {
	for _, p := range []Pillar{General, Environment, Social, Governance} {
		if p.Slug() == slug {
			return p, true
		}
	}
	return 0, false
}

// Section is a named grouping of questions. Name is an i18n key.
type Section struct {
	Key    string `yaml:"key"`
	Name   string `yaml:"name"`
	Pillar Pillar `yaml:"pillar"`
}

// ChartKind selects the chart renderer.
type ChartKind string

const (
	KindBar  ChartKind = "bar"
	KindLine ChartKind = "line"
	KindPie  ChartKind = "pie"
)

// ChartDef binds a pillar chart to the questions it plots.
type ChartDef struct {
	Pillar    string    `yaml:"pillar"`
	Key       string    `yaml:"key"`
	Title     string    `yaml:"title"`
	Kind      ChartKind `yaml:"kind"`
	Questions []string  `yaml:"questions"`
}

// Catalog is the parsed configuration.
type Catalog struct {
	sections []Section
	byKey    map[string]Section
	charts   []ChartDef
}

// Load parses section and chart YAML documents.
func Load(sectionsDoc, chartsDoc []byte) (*Catalog, error) {
	var s struct {
		Sections []Section `yaml:"sections"`
	}
	if err := yaml.Unmarshal(sectionsDoc, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sections: %w", err)
	}
	var c struct {
		Charts []ChartDef `yaml:"charts"`
	}
	if err := yaml.Unmarshal(chartsDoc, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal charts: %w", err)
	}

	cat := &Catalog{
		sections: s.Sections,
		byKey:    make(map[string]Section, len(s.Sections)),
		charts:   c.Charts,
	}
	for _, sec := range s.Sections {
		if _, dup := cat.byKey[sec.Key]; dup {
			return nil, fmt.Errorf("duplicate section key %q", sec.Key)
		}
		if sec.Pillar < General || sec.Pillar > Governance {
			return nil, fmt.Errorf("section %q has invalid pillar %d", sec.Key, sec.Pillar)
		}
		cat.byKey[sec.Key] = sec
	}
	for _, ch := range c.Charts {
		if _, ok := ParsePillar(ch.Pillar); !ok {
			return nil, fmt.Errorf("chart %q has unknown pillar %q", ch.Key, ch.Pillar)
		}
		switch ch.Kind {
		case KindBar, KindLine, KindPie:
		default:
			return nil, fmt.Errorf("chart %s/%s has unknown kind %q", ch.Pillar, ch.Key, ch.Kind)
		}
	}
	return cat, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		cat, err := Load(sectionsYAML, chartsYAML)
		if err != nil {
			panic("catalog: embedded configuration is invalid: " + err.Error())
		}
		defaultCat = cat
	})
	return defaultCat
}

// Sections returns all sections in catalog order.
func (c *Catalog) Sections() []Section {
	out := make([]Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// Section looks up a section by key.
func (c *Catalog) Section(key string) (Section, bool) {
	s, ok := c.byKey[key]
	return s, ok
}

// ByPillar returns the sections of one pillar in catalog order.
func (c *Catalog) ByPillar(p Pillar) []Section {
	var out []Section
	for _, s := range c.sections {
		if s.Pillar == p {
			out = append(out, s)
		}
	}
	return out
}

// Charts returns the chart definitions of a pillar.
func (c *Catalog) Charts(pillar string) []ChartDef {
	var out []ChartDef
	for _, ch := range c.charts {
		if ch.Pillar == pillar {
			out = append(out, ch)
		}
	}
	return out
}

// Chart looks up one chart definition.
func (c *Catalog) Chart(pillar, key string) (ChartDef, bool) {
	for _, ch := range c.charts {
		if ch.Pillar == pillar && ch.Key == key {
			return ch, true
		}
	}
	return ChartDef{}, false
}
