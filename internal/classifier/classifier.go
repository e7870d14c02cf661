// Package classifier assigns spending buckets to expenses from their
// category label, falling back to keyword matching over the note text.
package classifier

import (
	"regexp"
	"strings"

	"spendsense/internal/core"
)

// categoryBuckets maps well-known category labels to buckets.
var categoryBuckets = map[string]core.Bucket{
	// necessary
	"rent":             core.BucketNecessary,
	"utilities":        core.BucketNecessary,
	"health_insurance": core.BucketNecessary,
	"groceries":        core.BucketNecessary,
	"transport":        core.BucketNecessary,
	"phone_internet":   core.BucketNecessary,
	"education":        core.BucketNecessary,
	"medical":          core.BucketNecessary,
	// controllable
	"dining_out":    core.BucketControllable,
	"shopping":      core.BucketControllable,
	"subscriptions": core.BucketControllable,
	"gym":           core.BucketControllable,
	"travel":        core.BucketControllable,
	// unnecessary
	"entertainment": core.BucketUnnecessary,
}

type keywordRule struct {
	pattern *regexp.Regexp
	bucket  core.Bucket
}

// Keyword fallback over the note, applied only when the category gives no
// answer.
var keywordRules = []keywordRule{
	{
		pattern: regexp.MustCompile(`(?i)\b(rent|insurance|grocer(?:y|ies)?|electric(?:ity)?|water|internet|phone)\b`),
		bucket:  core.BucketNecessary,
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(restaurant|dinner|lunch|coffee|uber|taxi|shopping|amazon|subscr)\b`),
		bucket:  core.BucketControllable,
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(movie|cinema|netflix|spotify|game|gaming|club|bar)\b`),
		bucket:  core.BucketUnnecessary,
	},
}

// Infer returns the bucket for the given category and note, or "" when not
// confident. Category lookup wins over note keywords.
func Infer(category, note string) core.Bucket {
	if c := strings.ToLower(strings.TrimSpace(category)); c != "" {
		if b, ok := categoryBuckets[c]; ok {
			return b
		}
	}
	if n := strings.TrimSpace(note); n != "" {
		for _, rule := range keywordRules {
			if rule.pattern.MatchString(n) {
				return rule.bucket
			}
		}
	}
	return ""
}
