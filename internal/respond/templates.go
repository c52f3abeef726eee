package respond

import "baristasim/internal/classify"

// =============================================================================
// RESPONSE TEMPLATES - cooperative and dismissive variants per category
// =============================================================================
// The good variant accepts an optional %s for the speaker's name; the bad
// variant never personalizes. Dismissiveness is impersonal on purpose.

// templatePair holds both variants for one issue category.
type templatePair struct {
	Good     string
	Personal string // personalized good variant, one %s for the name; may be empty
	Bad      string
}

var categoryTemplates = map[classify.IssueTag]templatePair{
	classify.TagOrderDelay: {
		Good:     "I'm really sorry about the wait. Let me check on your order right away and push it to the front.",
		Personal: "I'm really sorry about the wait, %s. Let me check on your order right away and push it to the front.",
		Bad:      "We're busy. Everyone's order takes time, you'll just have to wait like the rest.",
	},
	classify.TagWrongOrder: {
		Good:     "That's completely our mistake. I'll remake the correct drink for you right now, on the house.",
		Personal: "That's completely our mistake, %s. I'll remake the correct drink for you right now, on the house.",
		Bad:      "Are you sure that's not what you ordered? The ticket says otherwise.",
	},
	classify.TagTemperature: {
		Good:     "That shouldn't have gone out like that. I'll make you a fresh, properly hot one straight away.",
		Personal: "That shouldn't have gone out like that, %s. I'll make you a fresh, properly hot one straight away.",
		Bad:      "Drinks cool down, that's normal. It was the right temperature when it left the bar.",
	},
	classify.TagMilkType: {
		Good:     "I'm so sorry about the milk mix-up. I'll remake it with the milk you asked for immediately.",
		Personal: "I'm so sorry about the milk mix-up, %s. I'll remake it with the milk you asked for immediately.",
		Bad:      "They all taste pretty much the same. I doubt anyone could really tell the difference.",
	},
	classify.TagStaffAttitude: {
		Good:     "I'm sorry you were treated that way. That's not the experience we want anyone to have, and I'll address it with the team.",
		Personal: "I'm sorry you were treated that way, %s. That's not the experience we want anyone to have, and I'll address it with the team.",
		Bad:      "Our staff are doing their best. Maybe it came across differently than you think.",
	},
	classify.TagPricing: {
		Good:     "Let me look at your receipt and sort out the charge. If anything's off, I'll refund the difference right now.",
		Personal: "Let me look at your receipt and sort out the charge, %s. If anything's off, I'll refund the difference right now.",
		Bad:      "Prices are on the board. Nobody made you order it.",
	},
	classify.TagCleanliness: {
		Good:     "Thank you for flagging that. I'll get it cleaned up right away and find you a fresh spot.",
		Personal: "Thank you for flagging that, %s. I'll get it cleaned up right away and find you a fresh spot.",
		Bad:      "We clean when we can. It's a cafe, not an operating theatre.",
	},
	classify.TagSize: {
		Good:     "You're right, that pour looks short. Let me top it up properly or remake it at the right size.",
		Personal: "You're right, that pour looks short, %s. Let me top it up properly or remake it at the right size.",
		Bad:      "That's the standard size. The foam just settles, that's all.",
	},
	classify.TagMissingItem: {
		Good:     "I'm sorry we missed part of your order. I'll grab it for you right now.",
		Personal: "I'm sorry we missed part of your order, %s. I'll grab it for you right now.",
		Bad:      "If it's not on the tray you probably didn't pay for it. Check your receipt.",
	},
	classify.TagConnectivity: {
		Good:     "Sorry about the wifi trouble. I'll reset the router and write down the current password for you.",
		Personal: "Sorry about the wifi trouble, %s. I'll reset the router and write down the current password for you.",
		Bad:      "The wifi is free, so it is what it is. Maybe use your own data.",
	},
	classify.TagNoise: {
		Good:     "I hear you, it has gotten loud. I'll turn the music down and see if there's a quieter corner free.",
		Personal: "I hear you, it has gotten loud, %s. I'll turn the music down and see if there's a quieter corner free.",
		Bad:      "Cafes are social places. A bit of buzz is part of the charm.",
	},
	classify.TagSeating: {
		Good:     "Let me find you a seat - I'll clear a table right now and come get you the moment it's free.",
		Personal: "Let me find you a seat, %s - I'll clear a table right now and come get you the moment it's free.",
		Bad:      "Seats are first come, first served. There's always standing room.",
	},
	classify.TagLoyalty: {
		Good:     "Let me fix your rewards right now and add the missing points, plus a little extra for the hassle.",
		Personal: "Let me fix your rewards right now, %s, and add the missing points, plus a little extra for the hassle.",
		Bad:      "The app handles the points, not us. You'd have to take it up with support.",
	},
	classify.TagPayment: {
		Good:     "I'm sorry about the payment trouble. Let me pull up the transaction and make it right immediately.",
		Personal: "I'm sorry about the payment trouble, %s. Let me pull up the transaction and make it right immediately.",
		Bad:      "Card issues are usually on the bank's side. Not much we can do here.",
	},
}

// Multi-issue, escalation, closing, and last-resort pairs.
const (
	multiIssueGood = "I'm so sorry - it sounds like several things went wrong today. Let me go through them one by one and make each of them right."
	multiIssueBad  = "That's a lot of complaints at once. Maybe today just isn't your day."

	escalatedGood = "I can see this is really important to you, and I want to fix it right now. You have my full attention."
	escalatedBad  = "Getting worked up won't speed anything along. Please calm down."

	closingGood    = "Thank you for letting us make it right. We really appreciate your patience, and we hope to see you again soon."
	closingNeutral = "Alright then. Have a good one."

	genericGood = "I'm sorry about the trouble. Tell me a bit more and I'll do everything I can to sort it out."
	genericBad  = "Things happen. I'm not sure what you expect us to do about it."
)
