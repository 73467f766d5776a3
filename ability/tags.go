package ability

import (
	"maps"
	"slices"
	"strings"
)

// Tag is a gameplay tag such as "Input.Fire" or "Gameplay.AbilityInputBlocked".
// Matching is exact: "Input" does not match "Input.Fire".
type Tag string

// TagAbilityInputBlocked blocks all ability input processing while the owner
// carries it.
const TagAbilityInputBlocked Tag = "Gameplay.AbilityInputBlocked"

// Valid reports whether the tag is non-empty.
func (t Tag) Valid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// TagSet is a small ordered set of tags.
type TagSet []Tag

// NewTagSet builds a set from tags, dropping empties and duplicates.
func NewTagSet(tags ...Tag) TagSet {
	var s TagSet
	for _, t := range tags {
		s = s.With(t)
	}
	return s
}

// HasExact reports whether t is in the set.
func (s TagSet) HasExact(t Tag) bool {
	return t.Valid() && slices.Contains(s, t)
}

// HasAll reports whether every tag of other is in s. An empty other matches.
func (s TagSet) HasAll(other TagSet) bool {
	for _, t := range other {
		if !s.HasExact(t) {
			return false
		}
	}
	return true
}

// HasAny reports whether any tag of other is in s.
func (s TagSet) HasAny(other TagSet) bool {
	for _, t := range other {
		if s.HasExact(t) {
			return true
		}
	}
	return false
}

// With returns s plus t.
func (s TagSet) With(t Tag) TagSet {
	if !t.Valid() || s.HasExact(t) {
		return s
	}
	return append(s, t)
}

// Without returns s minus t.
func (s TagSet) Without(t Tag) TagSet {
	idx := slices.Index(s, t)
	if idx < 0 {
		return s
	}
	return slices.Delete(slices.Clone(s), idx, idx+1)
}

// Union returns the tags of s followed by the tags of other not already in s.
func (s TagSet) Union(other TagSet) TagSet {
	out := slices.Clone(s)
	for _, t := range other {
		out = out.With(t)
	}
	return out
}

// TagCounts holds loose owner tags with stack counts. A tag is present while
// its count is positive.
type TagCounts struct {
	counts map[Tag]int
}

// Add increments the count of t.
func (c *TagCounts) Add(t Tag) {
	if !t.Valid() {
		return
	}
	if c.counts == nil {
		c.counts = make(map[Tag]int)
	}
	c.counts[t]++
}

// Remove decrements the count of t and reports whether it was present.
func (c *TagCounts) Remove(t Tag) bool {
	n, ok := c.counts[t]
	if !ok {
		return false
	}
	if n <= 1 {
		delete(c.counts, t)
	} else {
		c.counts[t] = n - 1
	}
	return true
}

// Has reports whether t has a positive count.
func (c *TagCounts) Has(t Tag) bool {
	return c.counts[t] > 0
}

// Count returns the stack count of t.
func (c *TagCounts) Count(t Tag) int {
	return c.counts[t]
}

// Set returns the present tags sorted by name.
func (c *TagCounts) Set() TagSet {
	out := make(TagSet, 0, len(c.counts))
	for t := range c.counts {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Counts returns a copy of the stack counts.
func (c *TagCounts) Counts() map[Tag]int {
	return maps.Clone(c.counts)
}
