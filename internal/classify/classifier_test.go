package classify

import (
	"strings"
	"testing"
)

func TestClassifySingleIssue(t *testing.T) {
	res := Classify("My drink's ice cold. Can you fix it?")

	if len(res.Issues) != 1 || res.Issues[0] != TagTemperature {
		t.Fatalf("Issues = %v, want [temperature]", res.Issues)
	}
	if res.PrimaryIssue() != TagTemperature {
		t.Fatalf("PrimaryIssue() = %v, want temperature", res.PrimaryIssue())
	}
	if res.ConversationEnding {
		t.Error("ConversationEnding should be false")
	}
	if res.Emotion != LevelLow {
		t.Errorf("Emotion = %v, want low", res.Emotion)
	}
}

func TestClassifyMultipleIssues(t *testing.T) {
	res := Classify("I've been waiting forever and the latte is lukewarm")

	if !res.HasTag(TagOrderDelay) {
		t.Error("expected order_delay tag")
	}
	if !res.HasTag(TagTemperature) {
		t.Error("expected temperature tag")
	}
	if !res.HasTag(TagMultiple) {
		t.Errorf("expected multiple tag appended, got %v", res.Issues)
	}
	if res.Issues[len(res.Issues)-1] != TagMultiple {
		t.Errorf("multiple tag must come last, got %v", res.Issues)
	}
}

func TestClassifyUnknown(t *testing.T) {
	res := Classify("Customer has made a complaint about the service")

	if len(res.Issues) != 1 || res.Issues[0] != TagUnknown {
		t.Fatalf("Issues = %v, want [unknown]", res.Issues)
	}
	if res.PrimaryIssue() != TagUnknown {
		t.Fatalf("PrimaryIssue() = %v, want unknown", res.PrimaryIssue())
	}
}

func TestClassifyConversationEnding(t *testing.T) {
	res := Classify("I'm so done, thanks, that's all for now!!")

	if !res.ConversationEnding {
		t.Fatal("ConversationEnding should be true")
	}
	if !res.HasTag(TagConversationEnding) {
		t.Error("expected conversation_ending tag")
	}
	if res.Emotion != LevelHigh {
		t.Errorf("Emotion = %v, want high (double exclamation)", res.Emotion)
	}
}

func TestClassifyEndingPhraseSet(t *testing.T) {
	endings := []string{
		"ok that's all",
		"nothing else, thanks",
		"I'm done here",
		"that is all I wanted to say",
		"we're good now",
	}
	for _, s := range endings {
		if res := Classify(s); !res.ConversationEnding {
			t.Errorf("Classify(%q).ConversationEnding = false, want true", s)
		}
	}
}

func TestClassifyEmotionSignals(t *testing.T) {
	cases := []struct {
		text string
		want Level
	}{
		{"this is absolutely unacceptable", LevelHigh},
		{"hello?? are you listening!!", LevelHigh},
		{"this coffee is just WRONG", LevelHigh},
		{"I'm pretty disappointed with this", LevelMedium},
		{"the cup has a chip in it", LevelLow},
	}
	for _, tc := range cases {
		if got := Classify(tc.text).Emotion; got != tc.want {
			t.Errorf("Classify(%q).Emotion = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestClassifyUrgencySignals(t *testing.T) {
	cases := []struct {
		text string
		want Level
	}{
		{"I need this fixed right now", LevelHigh},
		{"hurry please, I'm running late for a thing", LevelMedium},
		{"whenever you get a chance", LevelLow},
	}
	for _, tc := range cases {
		if got := Classify(tc.text).Urgency; got != tc.want {
			t.Errorf("Classify(%q).Urgency = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestClassifyTimeFrame(t *testing.T) {
	if !Classify("it's been twenty minutes already").TimeFrameMentioned {
		t.Error("expected time frame flag for elapsed-time phrasing")
	}
	if Classify("my croissant is missing").TimeFrameMentioned {
		t.Error("did not expect time frame flag")
	}
}

// Phrase matching is case-insensitive: uppercasing the input may escalate
// emotion (shouting detection reads original casing) but never changes the
// detected issues, urgency, or flags.
func TestClassifyCaseInsensitive(t *testing.T) {
	inputs := []string{
		"My drink's ice cold. Can you fix it?",
		"I've been waiting forever and the latte is lukewarm",
		"that's all, thanks",
		"I need this fixed right now",
	}
	for _, s := range inputs {
		a := Classify(s)
		b := Classify(strings.ToUpper(s))

		if len(a.Issues) != len(b.Issues) {
			t.Fatalf("Classify(%q) issues differ by case: %v vs %v", s, a.Issues, b.Issues)
		}
		for i := range a.Issues {
			if a.Issues[i] != b.Issues[i] {
				t.Errorf("Classify(%q) issue %d differs: %v vs %v", s, i, a.Issues[i], b.Issues[i])
			}
		}
		if a.Urgency != b.Urgency {
			t.Errorf("Classify(%q) urgency differs: %v vs %v", s, a.Urgency, b.Urgency)
		}
		if a.TimeFrameMentioned != b.TimeFrameMentioned {
			t.Errorf("Classify(%q) time frame differs", s)
		}
		if a.ConversationEnding != b.ConversationEnding {
			t.Errorf("Classify(%q) ending flag differs", s)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	const text = "I've been waiting forever, the wifi is down, and this is ridiculous!!"
	first := Classify(text)
	for i := 0; i < 10; i++ {
		again := Classify(text)
		if len(again.Issues) != len(first.Issues) || again.Emotion != first.Emotion ||
			again.Urgency != first.Urgency {
			t.Fatal("classification must be deterministic")
		}
	}
}
