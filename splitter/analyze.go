package splitter

import (
	"github.com/erraggy/oassplit/document"
)

// Stats summarizes a document before splitting.
type Stats struct {
	Version            string         `json:"version"`
	Paths              int            `json:"paths"`
	Operations         int            `json:"operations"`
	OperationsByMethod map[string]int `json:"operations_by_method"`
	// Components counts components per category.
	Components  map[string]int `json:"components"`
	Tags        []string       `json:"tags,omitempty"`
	HasSecurity bool           `json:"has_security"`
	HasServers  bool           `json:"has_servers"`
}

// ComponentTotal returns the number of components across categories.
func (s Stats) ComponentTotal() int {
	n := 0
	for _, c := range s.Components {
		n += c
	}
	return n
}

// Analyze counts the paths, operations and components of doc.
func Analyze(doc *document.Document) Stats {
	s := Stats{
		Version:            doc.Version,
		Paths:              len(doc.Paths),
		Operations:         doc.OperationCount(),
		OperationsByMethod: make(map[string]int),
		Components:         make(map[string]int),
	}
	for _, op := range doc.Operations() {
		s.OperationsByMethod[op.Method]++
	}
	for category, v := range doc.Components.All() {
		if v.Len() > 0 {
			s.Components[category] = v.Len()
		}
	}
	if tags, ok := doc.Extra.Get("tags"); ok {
		items, _ := tags.AsArray()
		for _, item := range items {
			if name := tagName(item); name != "" {
				s.Tags = append(s.Tags, name)
			}
		}
	}
	_, s.HasSecurity = doc.Extra.Get("security")
	if !s.HasSecurity {
		s.HasSecurity = doc.Category(doc.SecurityCategory()).Len() > 0
	}
	if doc.IsOAS2() {
		_, s.HasServers = doc.Extra.Get("host")
	} else {
		_, s.HasServers = doc.Extra.Get("servers")
	}
	return s
}
