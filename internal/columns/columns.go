// Package columns decides which role a column plays from its name.
package columns

import "strings"

// Role is a semantic column role used by the cleaning and feature stages.
type Role int

const (
	Salary Role = iota
	Education
	State
	Date
)

func (r Role) String() string {
	switch r {
	case Salary:
		return "salary"
	case Education:
		return "education"
	case State:
		return "state"
	case Date:
		return "date"
	}
	return "unknown"
}

// Classifier reports whether a column plays a role.
type Classifier interface {
	Is(column string, role Role) bool
}

// Keywords matches roles by case-insensitive substrings of the column name.
type Keywords map[Role][]string

// DefaultKeywords is the name convention of the visa applications dataset.
func DefaultKeywords() Keywords {
	return Keywords{
		Salary:    {"income", "salary"},
		Education: {"education"},
		State:     {"state"},
		Date:      {"date"},
	}
}

func (k Keywords) Is(column string, role Role) bool {
	name := strings.ToLower(column)
	for _, kw := range k[role] {
		if strings.Contains(name, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Schema assigns roles to exact column names.
type Schema map[string][]Role

func (s Schema) Is(column string, role Role) bool {
	for _, r := range s[column] {
		if r == role {
			return true
		}
	}
	return false
}

// Select returns the names that play role, in the given order.
func Select(names []string, c Classifier, role Role) []string {
	var out []string
	for _, n := range names {
		if c.Is(n, role) {
			out = append(out, n)
		}
	}
	return out
}
