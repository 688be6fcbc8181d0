package bucket

import "strings"

// KeyOrderVersion identifies the fallback ordering encoded by ResolveKeys.
// Changing the order changes which buckets serve which estimates, so any
// reordering must bump this version and migrate stored buckets.
const KeyOrderVersion = 1

// Wildcard marks an axis the key does not constrain.
const Wildcard = "*"

// keySeparator joins the four axes of a composite key.
const keySeparator = "|"

// FallbackLevels is the number of keys ResolveKeys produces.
const FallbackLevels = 5

// Key identifies one bucket in the classification space, with "*"
// standing in for any unconstrained axis. The axis order is
// engagement|duration|category|complexity.
type Key string

// GlobalKey matches every task.
const GlobalKey Key = "*|*|*|*"

// NewKey builds a key from explicit axis values. Pass Wildcard for
// unconstrained axes.
func NewKey(engagement, duration, category, complexity string) Key {
	return Key(strings.Join([]string{engagement, duration, category, complexity}, keySeparator))
}

// ResolveKeys returns the fallback key sequence for a task, most specific
// first. Duration is the most transferable axis (pace habits generalize
// across categories at a similar time scale), so it is the last one
// dropped before the global bucket:
//
//	1. engagement|duration|category|complexity
//	2. engagement|duration|category|*
//	3. engagement|duration|*|*
//	4. *|duration|*|*
//	5. *|*|*|*
func ResolveKeys(a Attributes) []Key {
	eng := string(a.Engagement)
	dur := string(a.Duration)
	cat := string(a.Category)
	cpx := string(a.Complexity)

	return []Key{
		NewKey(eng, dur, cat, cpx),
		NewKey(eng, dur, cat, Wildcard),
		NewKey(eng, dur, Wildcard, Wildcard),
		NewKey(Wildcard, dur, Wildcard, Wildcard),
		GlobalKey,
	}
}

// Level returns the human-readable description of fallback level i,
// matching the positions returned by ResolveKeys.
func Level(i int) string {
	if i >= 0 && i < len(levelDescriptions) {
		return levelDescriptions[i]
	}
	return "unknown"
}

var levelDescriptions = [FallbackLevels]string{
	"tasks exactly like this one",
	"similar tasks in this category",
	"similar-length tasks with this engagement",
	"similar-length tasks",
	"all completed tasks",
}
