package store

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/mmcdole/marquee/internal/domain"
)

//go:embed fixture.schema.json
var fixtureSchema []byte

// Fixture is a catalog snapshot loaded from YAML, keyed by list
type Fixture struct {
	Movies []domain.CatalogItem `yaml:"filmes"`
	Series []domain.CatalogItem `yaml:"series"`
}

// Lists returns the fixture content per list kind
func (f Fixture) Lists() map[domain.ListKind][]domain.CatalogItem {
	return map[domain.ListKind][]domain.CatalogItem{
		domain.ListMovies: f.Movies,
		domain.ListSeries: f.Series,
	}
}

// ValidationError lists the schema violations of a fixture
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid fixture: " + strings.Join(e.Problems, "; ")
}

// LoadFixture reads a YAML fixture and validates it against the fixture schema
func LoadFixture(r io.Reader) (Fixture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Fixture{}, fmt.Errorf("failed to read fixture: %w", err)
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Fixture{}, fmt.Errorf("failed to parse fixture: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(fixtureSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return Fixture{}, fmt.Errorf("failed to validate fixture: %w", err)
	}
	if !result.Valid() {
		verr := &ValidationError{}
		for _, e := range result.Errors() {
			verr.Problems = append(verr.Problems, e.String())
		}
		return Fixture{}, verr
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return f, nil
}

// Import replaces every list present in f. Lists absent from the fixture
// are left untouched. It returns the number of items stored per list.
func (s *CatalogStore) Import(f Fixture) (map[domain.ListKind]int, error) {
	counts := make(map[domain.ListKind]int)
	var errs []error
	for kind, items := range f.Lists() {
		if items == nil {
			continue
		}
		if err := s.ReplaceList(kind, items); err != nil {
			errs = append(errs, err)
			continue
		}
		counts[kind] = len(items)
	}
	return counts, errors.Join(errs...)
}
