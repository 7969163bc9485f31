package config

import (
	"fmt"
	"os"

	"client-insights/pkg/models"

	"gopkg.in/yaml.v3"
)

/*
Fichier de segments (YAML) :

	segments:
	  - id: loyal
	    name: Loyal
	    description: ...
	    tag: green
	    criteria: {minVisits: 4}
	strategies:
	  Loyal: "..."

L'ordre de la liste est l'ordre d'évaluation des segments.
*/

// Segments : définitions + stratégies chargées depuis un fichier.
type Segments struct {
	Definitions []models.SegmentDefinition `yaml:"segments"`
	Strategies  map[string]string          `yaml:"strategies"`
}

// Load lit et valide un fichier de segments.
func Load(path string) (Segments, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Segments{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse décode le YAML. Noms vides ou dupliqués refusés.
func Parse(raw []byte) (Segments, error) {
	var s Segments
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Segments{}, fmt.Errorf("parse segments: %w", err)
	}
	if len(s.Definitions) == 0 {
		return Segments{}, fmt.Errorf("aucun segment défini")
	}
	seen := map[string]bool{}
	for i, d := range s.Definitions {
		if d.Name == "" {
			return Segments{}, fmt.Errorf("segment #%d: nom manquant", i)
		}
		if seen[d.Name] {
			return Segments{}, fmt.Errorf("segment %q défini deux fois", d.Name)
		}
		seen[d.Name] = true
		if r := d.Criteria.AgeRange; r != nil && r.Min > r.Max {
			return Segments{}, fmt.Errorf("segment %q: ageRange min > max", d.Name)
		}
	}
	return s, nil
}
