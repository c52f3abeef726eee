// Package respond turns a classification result into exactly two contrasting
// reply options: a cooperative one and a dismissive one. Both are always
// non-empty; the layered fallback chain is the correctness property here.
package respond

import (
	"fmt"
	"strings"

	"baristasim/internal/classify"
	"baristasim/internal/logging"
)

// Options is the pair handed to the choice presenter.
type Options struct {
	Good string
	Bad  string
}

// Generate produces the cooperative and dismissive reply for a classification.
// speakerName personalizes the good variant when the category template
// supports it; the bad variant is never personalized.
//
// Priority order:
//  1. multiple tag        -> multi-issue acknowledgment
//  2. high emotion/urgency -> escalated acknowledgment
//  3. first real tag       -> category templates
//  4. legacy keyword match -> single-pass scan of the raw text
//  5. generic pair         -> always available
func Generate(result classify.Result, speakerName string) Options {
	opts := generate(result, speakerName)

	// Both variants are guaranteed non-empty; the chain above cannot
	// produce an empty string, but keep the guarantee explicit.
	if opts.Good == "" {
		opts.Good = genericGood
	}
	if opts.Bad == "" {
		opts.Bad = genericBad
	}

	logging.Respond("generated pair for issues=%v (speaker=%q)", result.Issues, speakerName)
	return opts
}

func generate(result classify.Result, speakerName string) Options {
	if result.HasTag(classify.TagMultiple) {
		return Options{Good: multiIssueGood, Bad: multiIssueBad}
	}

	if result.Emotion == classify.LevelHigh || result.Urgency == classify.LevelHigh {
		return Options{Good: escalatedGood, Bad: escalatedBad}
	}

	if tag := result.PrimaryIssue(); tag != classify.TagUnknown {
		if pair, ok := categoryTemplates[tag]; ok {
			return Options{Good: goodVariant(pair, speakerName), Bad: pair.Bad}
		}
	}

	// Classification came up empty; re-run a simpler single-pass keyword
	// match against the original text so an on-topic reply still comes out.
	if opts, ok := legacyKeywordMatch(result.RawText, speakerName); ok {
		return opts
	}

	return Options{Good: genericGood, Bad: genericBad}
}

// GenerateClosing produces the pair for a conversation-ending turn: a warm
// close and a flat, neutral alternative. No two-option complaint flow applies.
func GenerateClosing(speakerName string) Options {
	good := closingGood
	if speakerName != "" {
		good = fmt.Sprintf("Thank you for letting us make it right, %s. We really appreciate your patience, and we hope to see you again soon.", speakerName)
	}
	return Options{Good: good, Bad: closingNeutral}
}

func goodVariant(pair templatePair, speakerName string) string {
	if speakerName != "" && pair.Personal != "" {
		return fmt.Sprintf(pair.Personal, speakerName)
	}
	return pair.Good
}

// legacyKeyword maps a bare keyword to the category whose templates answer it.
// Ordered: first hit wins.
var legacyKeywords = []struct {
	word string
	tag  classify.IssueTag
}{
	{"coffee", classify.TagWrongOrder},
	{"drink", classify.TagWrongOrder},
	{"order", classify.TagOrderDelay},
	{"wait", classify.TagOrderDelay},
	{"milk", classify.TagMilkType},
	{"hot", classify.TagTemperature},
	{"warm", classify.TagTemperature},
	{"staff", classify.TagStaffAttitude},
	{"barista", classify.TagStaffAttitude},
	{"money", classify.TagPricing},
	{"paid", classify.TagPricing},
	{"table", classify.TagSeating},
	{"sit", classify.TagSeating},
}

func legacyKeywordMatch(text, speakerName string) (Options, bool) {
	lower := strings.ToLower(text)
	for _, kw := range legacyKeywords {
		if !strings.Contains(lower, kw.word) {
			continue
		}
		if pair, ok := categoryTemplates[kw.tag]; ok {
			return Options{Good: goodVariant(pair, speakerName), Bad: pair.Bad}, true
		}
	}
	return Options{}, false
}
