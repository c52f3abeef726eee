// Package classify maps captured complaint text to issue tags and
// emotion/urgency signals. Classification is pure, deterministic, and
// side-effect free: the same text always yields the same result.
package classify

import (
	"regexp"
	"strings"

	"baristasim/internal/logging"
)

// Level grades emotion and urgency.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Result is the outcome of classifying one captured utterance.
// Immutable once produced; the response generator consumes it as-is.
type Result struct {
	// Issues holds the matched tags in detection order. Contains TagUnknown
	// when nothing matched, and TagMultiple appended after two or more hits.
	Issues []IssueTag

	// Emotion is the speaker's apparent agitation.
	Emotion Level

	// Urgency is how quickly the speaker wants action.
	Urgency Level

	// TimeFrameMentioned is true when the text references elapsed time.
	TimeFrameMentioned bool

	// ConversationEnding is true when the ending category was detected.
	ConversationEnding bool

	// RawText is the input as captured.
	RawText string
}

// PrimaryIssue returns the first real tag in detection order, or TagUnknown.
func (r Result) PrimaryIssue() IssueTag {
	for _, tag := range r.Issues {
		if tag.IsReal() && tag != TagConversationEnding {
			return tag
		}
	}
	return TagUnknown
}

// HasTag reports whether the result contains the given tag.
func (r Result) HasTag(tag IssueTag) bool {
	for _, t := range r.Issues {
		if t == tag {
			return true
		}
	}
	return false
}

var (
	doubleExclaim = regexp.MustCompile(`!{2,}`)
	uppercaseRun  = regexp.MustCompile(`[A-Z]{3,}`)
)

// Classify analyzes the captured text. Case-insensitive for all phrase
// matching; the uppercase-run check for shouting necessarily reads the
// original casing.
func Classify(text string) Result {
	lower := strings.ToLower(text)

	result := Result{
		RawText: text,
		Emotion: LevelLow,
		Urgency: LevelLow,
	}

	// Issue detection: single pass over the fixed catalog.
	hits := 0
	for _, cat := range issueCatalog {
		if containsAny(lower, cat.Phrases) {
			result.Issues = append(result.Issues, cat.Tag)
			hits++
			if cat.Tag == TagConversationEnding {
				result.ConversationEnding = true
			}
		}
	}
	if hits == 0 {
		result.Issues = []IssueTag{TagUnknown}
	} else if hits > 1 {
		result.Issues = append(result.Issues, TagMultiple)
	}

	// Emotion level.
	switch {
	case containsAny(lower, highEmotionWords),
		doubleExclaim.MatchString(text),
		uppercaseRun.MatchString(text):
		result.Emotion = LevelHigh
	case containsAny(lower, mediumEmotionWords):
		result.Emotion = LevelMedium
	}

	// Urgency level.
	switch {
	case containsAny(lower, highUrgencyWords):
		result.Urgency = LevelHigh
	case containsAny(lower, timePressurePhrases):
		result.Urgency = LevelMedium
	}

	result.TimeFrameMentioned = containsAny(lower, timeFramePhrases)

	logging.ClassifyDebug("classified %q: issues=%v emotion=%s urgency=%s ending=%v",
		truncate(text, 60), result.Issues, result.Emotion, result.Urgency, result.ConversationEnding)

	return result
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
