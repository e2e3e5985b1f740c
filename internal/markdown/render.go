// Package markdown renders reference entries as markdown link-reference lines
// grouped under profession and category headers.
package markdown

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Typas/GW2-api-img/internal/refdata"
)

// Keys extracts the grouping keys and the link fields from an entry.
type Keys[T any] struct {
	Outer func(T) string
	Inner func(T) string
	Name  func(T) string
	Icon  func(T) string
}

// Grouped sorts entries by (outer, inner, name) and renders them. A "## outer"
// header opens each run of equal outer keys and is always followed by a
// "### inner" header; within a run, a new "### inner" header appears whenever
// the inner key changes. Every entry becomes one "[name]: icon" line.
// The input slice is not modified.
func Grouped[T any](entries []T, k Keys[T]) []string {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Or(
			cmp.Compare(k.Outer(a), k.Outer(b)),
			cmp.Compare(k.Inner(a), k.Inner(b)),
			cmp.Compare(k.Name(a), k.Name(b)),
		)
	})

	var lines []string
	lastOuter, lastInner := "", ""
	for _, e := range sorted {
		outer, inner := k.Outer(e), k.Inner(e)
		if outer != lastOuter {
			lastOuter, lastInner = outer, inner
			lines = append(lines, "## "+outer, "### "+inner)
		} else if inner != lastInner {
			lastInner = inner
			lines = append(lines, "### "+inner)
		}
		lines = append(lines, entry(k.Name(e), k.Icon(e)))
	}
	return lines
}

var skillKeys = Keys[refdata.Skill]{
	Outer: func(s refdata.Skill) string { return s.Profession },
	Inner: func(s refdata.Skill) string { return s.Type },
	Name:  func(s refdata.Skill) string { return s.Name },
	Icon:  func(s refdata.Skill) string { return s.Icon },
}

var traitKeys = Keys[refdata.Trait]{
	Outer: func(t refdata.Trait) string { return t.Profession },
	Inner: func(t refdata.Trait) string { return t.SpecName },
	Name:  func(t refdata.Trait) string { return t.Name },
	Icon:  func(t refdata.Trait) string { return t.Icon },
}

// Skills renders skills grouped by profession, then skill type.
func Skills(skills []refdata.Skill) []string {
	return Grouped(skills, skillKeys)
}

// Traits renders enriched traits grouped by profession, then specialization.
func Traits(traits []refdata.Trait) []string {
	return Grouped(traits, traitKeys)
}

// Buffs renders the buff set under a single "## Buffs" header, sorted by
// status. The header is emitted even when there are no buffs.
func Buffs(buffs refdata.BuffSet) []string {
	lines := []string{"## Buffs"}
	for _, b := range buffs.Sorted() {
		lines = append(lines, entry(b.Status, b.Icon))
	}
	return lines
}

func entry(name, icon string) string {
	return fmt.Sprintf("[%s]: %s", name, icon)
}
