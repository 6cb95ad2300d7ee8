package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML format the seeding CLI loads into the SQL store.
type SeedFile struct {
	Products []SeedProduct `yaml:"products"`
	Synonyms []SeedSynonym `yaml:"synonyms"`
}

// SeedProduct is a product record in a seed file.
type SeedProduct struct {
	Name       string   `yaml:"name"`
	Category   string   `yaml:"category"`
	Price      float64  `yaml:"price"`
	Stock      int      `yaml:"stock"`
	Tags       []string `yaml:"tags"`
	Popularity int      `yaml:"popularity"`
}

// SeedSynonym is a synonym record in a seed file.
type SeedSynonym struct {
	Term       string  `yaml:"term"`
	Target     string  `yaml:"target"`
	Type       string  `yaml:"type"` // product, category, or attribute
	Confidence float64 `yaml:"confidence"`
	UsageCount int     `yaml:"usage_count"`
}

// LoadSeedFile parses a YAML seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var sf SeedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	for i, p := range sf.Products {
		if p.Name == "" || p.Category == "" {
			return nil, fmt.Errorf("seed product %d: name and category are required", i)
		}
	}
	for i, syn := range sf.Synonyms {
		switch TargetType(syn.Type) {
		case TargetProduct, TargetCategory, TargetAttribute:
		default:
			return nil, fmt.Errorf("seed synonym %d (%q): invalid type %q", i, syn.Term, syn.Type)
		}
	}

	return &sf, nil
}

// Seed upserts the file's records into the store. onProgress, when
// non-nil, is called once per applied record.
func Seed(ctx context.Context, s *SQLStore, sf *SeedFile, onProgress func()) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	for _, p := range sf.Products {
		err := s.UpsertProduct(ctx, Product{
			Name:       p.Name,
			Category:   p.Category,
			Price:      p.Price,
			Stock:      p.Stock,
			Tags:       p.Tags,
			Popularity: p.Popularity,
		})
		if err != nil {
			return err
		}
		if onProgress != nil {
			onProgress()
		}
	}

	for _, syn := range sf.Synonyms {
		err := s.UpsertSynonym(ctx, SynonymEntry{
			Term:       syn.Term,
			TargetName: syn.Target,
			TargetType: TargetType(syn.Type),
			Confidence: syn.Confidence,
			UsageCount: syn.UsageCount,
		})
		if err != nil {
			return err
		}
		if onProgress != nil {
			onProgress()
		}
	}

	return nil
}
