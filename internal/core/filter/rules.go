package filter

import (
	"cargogate/internal/core/normalize"
	"cargogate/internal/core/phone"
)

// rule is one gate check. check returns (verdict, true) to terminate the
// scan, (_, false) to fall through to the next rule
type rule struct {
	name  string
	check func(f *Filter, m Message, sc *scratch) (Verdict, bool)
}

// orderedRules returns the precedence list. The order is the contract:
// whitelist bypass first, then content/profile heuristics cheapest first,
// then the stateful tracker rules, then the body-phrase sweep, then allow.
// Reordering entries changes product behavior
func orderedRules() []rule {
	return []rule{
		{name: "whitelist", check: ruleWhitelist},
		{name: "duplicate_content", check: ruleDuplicateContent},
		{name: "profile_keyword", check: ruleProfileKeyword},
		{name: "female_name", check: ruleFemaleName},
		{name: "suspicious_profile", check: ruleSuspiciousProfile},
		{name: "no_phone", check: ruleNoPhone},
		{name: "foreign_location", check: ruleForeignLocation},
		{name: "mentions", check: ruleMentions},
		{name: "length", check: ruleLength},
		{name: "emoji", check: ruleEmoji},
		{name: "blank_lines", check: ruleBlankLines},
		{name: "group_diversity", check: ruleGroupDiversity},
		{name: "frequency", check: ruleFrequency},
		{name: "phone_spam", check: rulePhoneSpam},
		{name: "body_phrase", check: ruleBodyPhrase},
		{name: "allow", check: ruleAllow},
	}
}

// Operator automation accounts must never self-block, whatever they post
func ruleWhitelist(f *Filter, m Message, _ *scratch) (Verdict, bool) {
	if f.pack.Whitelisted(m.SenderID) {
		return Verdict{Reason: ReasonOK}, true
	}
	return Verdict{}, false
}

// The fingerprint is recorded on every message that reaches this rule, so
// the first occurrence passes and the second occurrence of the same content
// trips it, emoji flourishes and whitespace games notwithstanding. Text that
// normalizes to nothing (empty, or pure emoji decoration) is never
// fingerprinted: the no-phone rule owns that case, as a soft reject
func ruleDuplicateContent(f *Filter, m Message, sc *scratch) (Verdict, bool) {
	norm := f.norm.Normalize(m.Text)
	if norm == "" {
		return Verdict{}, false
	}
	if f.state.RecordContent(m.SenderID, normalize.Hash(norm), sc.now) {
		return blocked(ReasonDuplicateContent, "")
	}
	return Verdict{}, false
}

func ruleProfileKeyword(f *Filter, m Message, _ *scratch) (Verdict, bool) {
	if match, ok := f.pack.MatchProfileKeyword(m.Username, m.FullName); ok {
		return blocked(ReasonProfileKeyword, match.Term)
	}
	return Verdict{}, false
}

func ruleFemaleName(f *Filter, m Message, _ *scratch) (Verdict, bool) {
	if match, ok := f.pack.MatchFemaleName(m.Username, m.FullName); ok {
		return blocked(ReasonFemaleName, match.Term)
	}
	return Verdict{}, false
}

// The sole remaining suspicious-profile heuristic is a long repeated-char
// run in the profile. Length and character-class checks were removed from
// the product; do not reintroduce them without sign-off
func ruleSuspiciousProfile(f *Filter, m Message, _ *scratch) (Verdict, bool) {
	if normalize.MaxCharRun(m.Username+m.FullName) >= f.cfg.CharRunLimit {
		return blocked(ReasonSuspiciousProfile, "")
	}
	return Verdict{}, false
}

// A post without a contact number is incomplete, not dispatcher activity:
// soft rejection, no auto-block. Empty text lands here too
func ruleNoPhone(f *Filter, m Message, sc *scratch) (Verdict, bool) {
	canon, ok := phone.Find(m.Text)
	if !ok {
		return Verdict{Blocked: true, Reason: ReasonNoPhone}, true
	}
	sc.phone = canon
	return Verdict{}, false
}

func ruleForeignLocation(f *Filter, m Message, _ *scratch) (Verdict, bool) {
	if match, ok := f.pack.MatchForeignLocation(m.Text); ok {
		return blocked(ReasonForeignLocation, match.Term)
	}
	return Verdict{}, false
}

func ruleMentions(f *Filter, m Message, _ *scratch) (Verdict, bool) {
	if normalize.CountMentions(m.Text) >= f.cfg.MentionLimit {
		return blocked(ReasonExcessMentions, "")
	}
	return Verdict{}, false
}

func ruleLength(f *Filter, m Message, _ *scratch) (Verdict, bool) {
	if normalize.RuneLen(m.Text) > f.cfg.MaxMessageRunes {
		return blocked(ReasonTooLong, "")
	}
	return Verdict{}, false
}

func ruleEmoji(f *Filter, m Message, _ *scratch) (Verdict, bool) {
	if normalize.CountEmoji(m.Text) >= f.cfg.EmojiLimit {
		return blocked(ReasonExcessEmoji, "")
	}
	return Verdict{}, false
}

func ruleBlankLines(f *Filter, m Message, _ *scratch) (Verdict, bool) {
	if normalize.MaxBlankLineRun(m.Text) >= f.cfg.BlankLineLimit {
		return blocked(ReasonExcessBlankLines, "")
	}
	return Verdict{}, false
}

// Blocks strictly above the limit: the 16th distinct group trips it with the
// default of 15. Recording happens as a side effect of reaching this rule
func ruleGroupDiversity(f *Filter, m Message, sc *scratch) (Verdict, bool) {
	if f.state.RecordGroup(m.SenderID, m.GroupID, sc.now) > f.cfg.GroupLimit {
		return blocked(ReasonTooManyGroups, "")
	}
	return Verdict{}, false
}

// Blocks strictly above the limit: message 11 in the window trips it with
// the default of 10
func ruleFrequency(f *Filter, m Message, sc *scratch) (Verdict, bool) {
	if f.state.RecordMessage(m.SenderID, sc.now) > f.cfg.FrequencyLimit {
		return blocked(ReasonTooFrequent, "")
	}
	return Verdict{}, false
}

// Blocks at the limit: the 15th distinct group inside the window trips it.
// The phone was extracted by the no-phone rule, so sc.phone is always set here
func rulePhoneSpam(f *Filter, m Message, sc *scratch) (Verdict, bool) {
	if f.state.RecordPhone(phone.Digits(sc.phone), m.GroupID, sc.now) >= f.cfg.PhoneSpamGroups {
		return blocked(ReasonPhoneSpam, "")
	}
	return Verdict{}, false
}

func ruleBodyPhrase(f *Filter, m Message, _ *scratch) (Verdict, bool) {
	if match, ok := f.pack.MatchBodyPhrase(m.Text); ok {
		return blocked(ReasonBodyPhrase, match.Term)
	}
	return Verdict{}, false
}

func ruleAllow(_ *Filter, _ Message, _ *scratch) (Verdict, bool) {
	return Verdict{Reason: ReasonOK}, true
}
