// Package conditions holds the per-condition screening definitions. Each
// definition is pure configuration: an ordered field schema, display copy,
// and the submission method. All behavior lives in the shared screening
// service.
package conditions

import (
	"sort"

	"medscreen-gateway/internal/forms"
)

// Method is how a condition's features reach its inference service.
type Method string

const (
	MethodJSON      Method = "json"
	MethodMultipart Method = "multipart"
)

// Definition describes one screening condition.
type Definition struct {
	Slug        string              `json:"slug"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Method      Method              `json:"method"`
	Fields      []forms.FieldSchema `json:"fields,omitempty"`
}

// Registry is the set of known condition definitions.
type Registry struct {
	defs map[string]Definition
}

func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.Slug] = d
	}
	return r
}

// Get returns the definition for slug, if registered.
func (r *Registry) Get(slug string) (Definition, bool) {
	d, ok := r.defs[slug]
	return d, ok
}

// All returns every registered definition, ordered by slug for stable
// listings.
func (r *Registry) All() []Definition {
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// yesNo builds the 0/1 encoded yes-no select used by several conditions.
func yesNo() []forms.Option {
	return []forms.Option{
		{Label: "No", Value: "0"},
		{Label: "Yes", Value: "1"},
	}
}
