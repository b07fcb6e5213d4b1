package core

import (
	"sort"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Records    int      `json:"records"`
	Categories []string `json:"categories"`
	Filter     string   `json:"filter"`
	Codecs     []string `json:"codecs"`
	StoreType  string   `json:"store_type"`
}

// State implements introspection.Introspectable.
// Like every other Service method it must be called from the owning goroutine.
func (s *Service) State() any {
	storeType := "store"
	if comp, ok := s.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}

	codecs := make([]string, 0, len(s.codecs))
	for name := range s.codecs {
		codecs = append(codecs, name)
	}
	sort.Strings(codecs)

	return ServiceState{
		Records:    s.coll.Len(),
		Categories: s.coll.CategoriesInOrder(),
		Filter:     s.filter,
		Codecs:     codecs,
		StoreType:  storeType,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
