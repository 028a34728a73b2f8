package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog is returned when a catalog definition fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Provider supplies the services of a domain and resolves stack identifiers.
// It is the read-only view the selection state machine consumes.
type Provider interface {
	Services(domainID string) []Service
	Stack(id string) (Stack, bool)
}

// Definition is the serialized shape of a catalog. Services are grouped by
// domain ID in domain order; missing service IDs, categories and
// descriptions are derived when the catalog is built.
type Definition struct {
	Domains  []Domain             `json:"domains" yaml:"domains" toml:"domains"`
	Stacks   []Stack              `json:"stacks" yaml:"stacks" toml:"stacks"`
	Services map[string][]Service `json:"services" yaml:"services" toml:"services"`
}

// Catalog is an immutable set of domains, stacks and services.
type Catalog struct {
	domains    []Domain
	stacks     []Stack
	stackIndex map[string]int
	services   map[string][]Service
}

// New validates def and builds a Catalog from it.
func New(def Definition) (*Catalog, error) {
	c := &Catalog{
		domains:    make([]Domain, 0, len(def.Domains)),
		stacks:     make([]Stack, 0, len(def.Stacks)),
		stackIndex: make(map[string]int, len(def.Stacks)),
		services:   make(map[string][]Service, len(def.Domains)),
	}

	domainIDs := make(map[string]bool, len(def.Domains))
	for _, d := range def.Domains {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: domain %q has no id", ErrInvalidCatalog, d.Name)
		}
		if domainIDs[d.ID] {
			return nil, fmt.Errorf("%w: duplicate domain %q", ErrInvalidCatalog, d.ID)
		}
		domainIDs[d.ID] = true
		c.domains = append(c.domains, d)
	}

	for _, s := range def.Stacks {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: stack %q has no id", ErrInvalidCatalog, s.Name)
		}
		if _, dup := c.stackIndex[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate stack %q", ErrInvalidCatalog, s.ID)
		}
		if len(s.Versions) == 0 {
			return nil, fmt.Errorf("%w: stack %q declares no versions", ErrInvalidCatalog, s.ID)
		}
		if !s.HasVersion(s.DefaultVersion) {
			return nil, fmt.Errorf("%w: stack %q default version %q is not offered", ErrInvalidCatalog, s.ID, s.DefaultVersion)
		}
		c.stackIndex[s.ID] = len(c.stacks)
		c.stacks = append(c.stacks, s)
	}

	serviceIDs := make(map[string]bool)
	for domainID, items := range def.Services {
		if !domainIDs[domainID] {
			return nil, fmt.Errorf("%w: services listed for unknown domain %q", ErrInvalidCatalog, domainID)
		}
		list := make([]Service, 0, len(items))
		for idx, item := range items {
			if strings.TrimSpace(item.Name) == "" {
				return nil, fmt.Errorf("%w: service %d in domain %q has no name", ErrInvalidCatalog, idx, domainID)
			}
			if item.ID == "" {
				item.ID = fmt.Sprintf("%s-%d", domainID, idx)
			}
			if item.Category == "" {
				item.Category = domainID
			}
			if item.Description == "" {
				item.Description = fmt.Sprintf("Generate %s module.", item.Name)
			}
			if serviceIDs[item.ID] {
				return nil, fmt.Errorf("%w: duplicate service %q", ErrInvalidCatalog, item.ID)
			}
			serviceIDs[item.ID] = true
			list = append(list, item)
		}
		c.services[domainID] = list
	}

	return c, nil
}

// Domains returns the domains in declaration order.
func (c *Catalog) Domains() []Domain {
	out := make([]Domain, len(c.domains))
	copy(out, c.domains)
	return out
}

// Domain looks up a domain by ID.
func (c *Catalog) Domain(id string) (Domain, bool) {
	for _, d := range c.domains {
		if d.ID == id {
			return d, true
		}
	}
	return Domain{}, false
}

// Services returns the services of a domain. An unknown domain yields an
// empty list.
func (c *Catalog) Services(domainID string) []Service {
	list := c.services[domainID]
	out := make([]Service, len(list))
	copy(out, list)
	return out
}

// Service looks up a service of a domain by ID or by exact name.
func (c *Catalog) Service(domainID, idOrName string) (Service, bool) {
	for _, s := range c.services[domainID] {
		if s.ID == idOrName || s.Name == idOrName {
			return s, true
		}
	}
	return Service{}, false
}

// Search filters the services of a domain by a case-insensitive substring
// of their name. An empty query returns every service.
func (c *Catalog) Search(domainID, query string) []Service {
	return FilterServices(c.services[domainID], query)
}

// Stack resolves a stack identifier.
func (c *Catalog) Stack(id string) (Stack, bool) {
	idx, ok := c.stackIndex[id]
	if !ok {
		return Stack{}, false
	}
	return c.stacks[idx], true
}

// Stacks returns every stack in declaration order.
func (c *Catalog) Stacks() []Stack {
	out := make([]Stack, len(c.stacks))
	copy(out, c.stacks)
	return out
}

// FilterServices keeps the services whose name contains query, ignoring case.
func FilterServices(services []Service, query string) []Service {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Service, 0, len(services))
	for _, s := range services {
		if q == "" || strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}
