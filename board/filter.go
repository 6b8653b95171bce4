package board

import (
	"net/url"
	"strings"

	"kanban-api/domain"
)

// FilterAll is the sentinel value that disables a select-style filter.
const FilterAll = "all"

// Filter is the set of predicates applied to tasks before binding. Zero
// values and FilterAll disable the corresponding predicate.
type Filter struct {
	Search        string `json:"search,omitempty"`
	ResponsibleID string `json:"responsible,omitempty"`
	Priority      string `json:"priority,omitempty"`
}

// ParseFilter reads the search, responsible and priority query parameters.
func ParseFilter(q url.Values) Filter {
	return Filter{
		Search:        q.Get("search"),
		ResponsibleID: q.Get("responsible"),
		Priority:      q.Get("priority"),
	}
}

// Active reports whether any predicate restricts the task set.
func (f Filter) Active() bool {
	return f.search() != "" || isSet(f.ResponsibleID) || isSet(f.Priority)
}

// Apply returns the tasks matching every active predicate, preserving order.
// The input slice is not modified.
func (f Filter) Apply(tasks []domain.Task) []domain.Task {
	search := strings.ToLower(f.search())
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		if isSet(f.ResponsibleID) && t.ResponsibleID() != f.ResponsibleID {
			continue
		}
		if isSet(f.Priority) && string(t.Priority) != f.Priority {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (f Filter) search() string {
	return strings.TrimSpace(f.Search)
}

func isSet(v string) bool {
	return v != "" && v != FilterAll
}

// matchesSearch expects needle to be lowercased already.
func matchesSearch(t domain.Task, needle string) bool {
	for _, hay := range [...]string{t.Title, t.Description, t.ResponsibleName(), t.ClientName} {
		if hay != "" && strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}
