package completion

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/pyfuturist/assets"
	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/pkg/filesystem"
)

// Group is a named set of catalog entries sharing a category.
type Group struct {
	Name     string                    `yaml:"name"`
	Category domain.CompletionCategory `yaml:"category"`
	Members  []string                  `yaml:"members"`
}

type catalogFile struct {
	Groups []Group `yaml:"groups"`
}

// Catalog is the static, network-independent completion set. It is built once
// and never mutated afterwards.
type Catalog struct {
	groups []Group
	items  []domain.CompletionItem
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	return newCatalog(file.Groups)
}

// DefaultCatalog returns the embedded catalog, extended with the groups of
// extraPath when it is set.
func DefaultCatalog(extraPath string) (Catalog, error) {
	base, err := ParseCatalog(assets.DefaultCatalogYAML)
	if err != nil {
		return Catalog{}, err
	}
	if extraPath == "" {
		return base, nil
	}
	data, err := os.ReadFile(filesystem.ExpandPath(extraPath))
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", extraPath, err)
	}
	extra, err := ParseCatalog(data)
	if err != nil {
		return Catalog{}, err
	}
	return newCatalog(append(base.Groups(), extra.Groups()...))
}

func newCatalog(groups []Group) (Catalog, error) {
	var items []domain.CompletionItem
	for _, group := range groups {
		if group.Category == "" {
			return Catalog{}, fmt.Errorf("catalog group %q has no category", group.Name)
		}
		for _, member := range group.Members {
			if member == "" {
				continue
			}
			items = append(items, domain.CompletionItem{
				Label:    member,
				Insert:   member,
				Category: group.Category,
			})
		}
	}
	if len(items) == 0 {
		return Catalog{}, errors.New("catalog is empty")
	}
	return Catalog{groups: groups, items: items}, nil
}

// Items returns a copy of the catalog entries in catalog order.
func (c Catalog) Items() []domain.CompletionItem {
	out := make([]domain.CompletionItem, len(c.items))
	copy(out, c.items)
	return out
}

// Groups returns a copy of the catalog groups.
func (c Catalog) Groups() []Group {
	out := make([]Group, len(c.groups))
	copy(out, c.groups)
	return out
}

// Len reports the number of catalog entries.
func (c Catalog) Len() int {
	return len(c.items)
}
