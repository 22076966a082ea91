package domain

import "golang.org/x/text/language"

var supported = []language.Tag{
	language.Bengali,
	language.English,
}

var matcher = language.NewMatcher(supported)

// Operator-facing decline feedback. The Bangla strings are the ones
// members actually see in the group join flow.
var declineMessages = map[language.Tag]map[Reason]string{
	language.Bengali: {
		ReasonNoAnswers:           "প্রশ্নের উত্তর দেওয়া হয়নি",
		ReasonMissingBoth:         "ট্রানজেকশন আইডি ও ফোন নম্বর দেওয়া হয়নি",
		ReasonMissingPhone:        "ফোন নম্বর দেওয়া হয়নি",
		ReasonMissingTransaction:  "ট্রানজেকশন আইডি দেওয়া হয়নি",
		ReasonTransactionNotFound: "ট্রানজেকশন আইডি সঠিক নয়",
		ReasonPhoneMismatch:       "ফোন নম্বরটি এই ট্রানজেকশন আইডির জন্য সঠিক নয়, যে নম্বর দিয়ে আইডি খুলে কোর্স কিনেছ সেই নম্বরটি দাও",
		ReasonProductNotEligible:  "তুমি যে কোর্স কিনেছো, সেই কোর্সটি এই গ্রুপের জন্যে নয়",
		ReasonAlreadyApproved:     "এই ট্রানজেকশন আইডি একবার ব্যবহৃত হয়েছে, একটি ট্রানজেকশন আইডি ব্যবহার করে একবারই গ্রুপে জয়েন হতে পারবে",
	},
	language.English: {
		ReasonNoAnswers:           "The membership questions were not answered",
		ReasonMissingBoth:         "Both the transaction id and the phone number are missing",
		ReasonMissingPhone:        "The phone number is missing",
		ReasonMissingTransaction:  "The transaction id is missing",
		ReasonTransactionNotFound: "The transaction id is not valid",
		ReasonPhoneMismatch:       "The phone number does not match this transaction id",
		ReasonProductNotEligible:  "The purchased course does not grant access to this group",
		ReasonAlreadyApproved:     "This transaction id has already been used to join the group",
	},
}

// Message returns the decline feedback for a reason in the closest
// supported language (bn, en).
func Message(reason Reason, lang string) string {
	tag := language.Bengali
	if lang != "" {
		_, idx, _ := matcher.Match(language.Make(lang))
		tag = supported[idx]
	}
	if msg, ok := declineMessages[tag][reason]; ok {
		return msg
	}
	return declineMessages[language.English][reason]
}
