package core

import "strings"

// CategoryRule folds every label containing all of Contains (lowercase
// substrings) onto Canonical.
type CategoryRule struct {
	Contains  []string
	Canonical string
}

// DefaultCategoryRules lists the known wording variants of the same category
// across rows and datasets. Extend this table instead of matching labels
// inline. Rules are evaluated in order; the first match wins.
var DefaultCategoryRules = []CategoryRule{
	{
		Contains:  []string{"race condition", "improper usage of synchronization primitives"},
		Canonical: "Race condition - Improper usage of synch.",
	},
}

// CategoryNormalizer canonicalizes category labels before accumulation.
type CategoryNormalizer struct {
	rules []CategoryRule
}

// NewCategoryNormalizer creates a normalizer over rules. Phrases are
// lowercased once here so matching is case-insensitive.
func NewCategoryNormalizer(rules []CategoryRule) *CategoryNormalizer {
	n := &CategoryNormalizer{rules: make([]CategoryRule, len(rules))}
	for i, r := range rules {
		phrases := make([]string, len(r.Contains))
		for j, p := range r.Contains {
			phrases[j] = strings.ToLower(p)
		}
		n.rules[i] = CategoryRule{Contains: phrases, Canonical: r.Canonical}
	}
	return n
}

// Normalize returns the canonical form of label and whether a rule matched.
// Unmatched labels pass through with whitespace runs collapsed to one space,
// which also makes word-wrapped labels compare equal to unwrapped ones.
// Every rule's canonical key is checked before any phrase, so a canonical key
// is a fixed point: Normalize(Normalize(x)) == Normalize(x).
func (n *CategoryNormalizer) Normalize(label string) (string, bool) {
	trimmed := strings.Join(strings.Fields(label), " ")
	for _, r := range n.rules {
		if trimmed == r.Canonical {
			return r.Canonical, true
		}
	}
	low := strings.ToLower(trimmed)
	for _, r := range n.rules {
		if containsAll(low, r.Contains) {
			return r.Canonical, true
		}
	}
	return trimmed, false
}

func containsAll(s string, phrases []string) bool {
	if len(phrases) == 0 {
		return false
	}
	for _, p := range phrases {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
