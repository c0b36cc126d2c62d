// Package tags computes how a question's tag associations must change to
// match a desired list of tag names. Names compare case-insensitively.
package tags

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/emilythestrangee/devflow/backend/internal/models"
)

// Key returns the comparison key of a tag name: trimmed, NFC normalized and
// case folded. "Next.js" and "NEXT.JS" share a key.
func Key(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

// Plan is the difference between a question's current tags and the desired
// tag names.
type Plan struct {
	// ToAdd holds desired names with no matching current tag, in input order.
	ToAdd []string
	// ToRemove holds current tags matching no desired name.
	ToRemove []models.Tag
}

// Empty reports whether applying the plan changes nothing.
func (p Plan) Empty() bool {
	return len(p.ToAdd) == 0 && len(p.ToRemove) == 0
}

// RemoveIDs returns the ids of the tags to remove.
func (p Plan) RemoveIDs() []string {
	ids := make([]string, 0, len(p.ToRemove))
	for _, t := range p.ToRemove {
		ids = append(ids, t.ID)
	}
	return ids
}

// Dedupe trims names and drops blanks and case-insensitive duplicates. The
// first spelling of a name wins.
func Dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := Key(name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Diff compares the tags a question currently has with the desired names.
// Creating a question is the case where current is empty.
func Diff(current []models.Tag, desired []string) Plan {
	desired = Dedupe(desired)

	currentKeys := make(map[string]struct{}, len(current))
	for _, t := range current {
		currentKeys[Key(t.Name)] = struct{}{}
	}

	desiredKeys := make(map[string]struct{}, len(desired))
	var plan Plan
	for _, name := range desired {
		key := Key(name)
		desiredKeys[key] = struct{}{}
		if _, ok := currentKeys[key]; !ok {
			plan.ToAdd = append(plan.ToAdd, name)
		}
	}

	for _, t := range current {
		if _, ok := desiredKeys[Key(t.Name)]; !ok {
			plan.ToRemove = append(plan.ToRemove, t)
		}
	}

	return plan
}
