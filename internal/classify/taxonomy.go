package classify

// =============================================================================
// COMPLAINT TAXONOMY - fixed issue vocabulary and phrase tables
// =============================================================================
// Detection is plain substring matching over lowercased text. The catalog
// order is load-bearing: the response generator picks the first real tag in
// detection order, so more specific categories sit above catch-all ones.

// IssueTag is one category from the fixed complaint vocabulary.
type IssueTag string

const (
	TagOrderDelay         IssueTag = "order_delay"
	TagWrongOrder         IssueTag = "wrong_order"
	TagTemperature        IssueTag = "temperature"
	TagMilkType           IssueTag = "milk_type"
	TagStaffAttitude      IssueTag = "staff_attitude"
	TagPricing            IssueTag = "pricing"
	TagCleanliness        IssueTag = "cleanliness"
	TagSize               IssueTag = "size"
	TagMissingItem        IssueTag = "missing_item"
	TagConnectivity       IssueTag = "connectivity"
	TagNoise              IssueTag = "noise"
	TagSeating            IssueTag = "seating"
	TagLoyalty            IssueTag = "loyalty"
	TagPayment            IssueTag = "payment"
	TagConversationEnding IssueTag = "conversation_ending"

	// TagUnknown is assigned when no category matches.
	TagUnknown IssueTag = "unknown"
	// TagMultiple is appended when two or more categories match.
	TagMultiple IssueTag = "multiple"
)

// IsReal reports whether the tag names an actual complaint category, as
// opposed to the unknown/multiple markers.
func (t IssueTag) IsReal() bool {
	return t != TagUnknown && t != TagMultiple
}

// issueCategory pairs a tag with the phrases that detect it.
type issueCategory struct {
	Tag     IssueTag
	Phrases []string
}

// issueCatalog is the fixed detection table, in detection order.
//
// NOTE: the empty-capture fallback text ("Customer has made a complaint about
// the service") must classify as unknown, so words like "customer",
// "complaint", and "service" may not appear in any phrase set.
var issueCatalog = []issueCategory{
	{TagOrderDelay, []string{
		"waiting", "been here", "taking forever", "taking so long",
		"still haven't", "still havent", "where is my", "so slow", "too slow",
		"how much longer", "queue",
	}},
	{TagWrongOrder, []string{
		"wrong order", "wrong drink", "not what i ordered", "didn't order",
		"didnt order", "this isn't what", "this isnt what", "mixed up my",
		"someone else's order", "i ordered a",
	}},
	{TagTemperature, []string{
		"cold", "lukewarm", "barely warm", "not hot", "too hot", "scalding",
		"burnt my tongue", "freezing", "tepid",
	}},
	{TagMilkType, []string{
		"oat milk", "soy milk", "almond milk", "regular milk", "whole milk",
		"skim milk", "dairy", "lactose", "non-dairy", "plant milk",
	}},
	{TagStaffAttitude, []string{
		"rude", "attitude", "ignored me", "unfriendly", "dismissive",
		"rolled her eyes", "rolled his eyes", "barista was", "snapped at",
	}},
	{TagPricing, []string{
		"expensive", "overcharged", "overpriced", "rip off", "rip-off",
		"ripoff", "charged me extra", "price went up", "costs more",
	}},
	{TagCleanliness, []string{
		"dirty", "sticky", "filthy", "crumbs", "spilled", "hair in",
		"gross", "hasn't been wiped", "hasnt been wiped", "smells",
	}},
	{TagSize, []string{
		"so small", "tiny", "half full", "half empty", "half-full",
		"smaller than", "short pour", "barely any",
	}},
	{TagMissingItem, []string{
		"missing", "forgot my", "forgot the", "didn't get", "didnt get",
		"never got", "left out", "without the",
	}},
	{TagConnectivity, []string{
		"wifi", "wi-fi", "internet", "connection keeps", "won't connect",
		"wont connect", "network",
	}},
	{TagNoise, []string{
		"loud", "noisy", "noise", "music is blasting", "blasting",
		"can't hear", "cant hear",
	}},
	{TagSeating, []string{
		"nowhere to sit", "no seats", "no tables", "table is taken",
		"seating", "chairs", "too crowded",
	}},
	{TagLoyalty, []string{
		"points", "loyalty", "rewards", "stamp card", "punch card",
		"free drink", "app didn't", "app didnt",
	}},
	{TagPayment, []string{
		"refund", "charged twice", "double charged", "card was declined",
		"receipt", "contactless", "payment",
	}},
	{TagConversationEnding, []string{
		"that's all", "thats all", "that's it", "thats it", "that is all",
		"i'm done", "im done", "nothing else", "no more", "that's everything",
		"thats everything", "all for now", "we're good", "were good",
		"goodbye", "bye now",
	}},
}

// highEmotionWords escalate emotion straight to High.
var highEmotionWords = []string{
	"furious", "outraged", "unacceptable", "disgusting", "ridiculous",
	"worst", "terrible", "horrible", "fed up", "livid", "appalling",
	"absolutely not", "never coming back",
}

// mediumEmotionWords mark a clearly bothered but controlled speaker.
var mediumEmotionWords = []string{
	"annoyed", "frustrated", "disappointed", "upset", "unhappy",
	"irritated", "not happy", "not impressed", "bothered",
}

// highUrgencyWords demand action now.
var highUrgencyWords = []string{
	"immediately", "right now", "right away", "urgent", "asap",
	"this instant", "emergency", "straight away",
}

// timePressurePhrases signal a schedule squeeze rather than a demand.
var timePressurePhrases = []string{
	"in a hurry", "running late", "late for", "my meeting", "a meeting",
	"my break", "before i leave", "before work", "on my way", "got to go",
	"gotta go", "catch a train", "catch a bus",
}

// timeFramePhrases signal elapsed time has been mentioned.
var timeFramePhrases = []string{
	"minutes", "minute", "already", "since", "an hour", "half hour",
	"half an hour", "ages", "forever", "all morning", "all afternoon",
	"earlier today",
}
