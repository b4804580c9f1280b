package router

import (
	"regexp"
	"strings"
	"unicode"
)

// tokenText is a question reduced to lower-cased word tokens, joined by single
// spaces and padded so that phrase lookups can match on token boundaries.
type tokenText string

func tokenize(s string) tokenText {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})
	for i, f := range fields {
		f = strings.ReplaceAll(f, "’", "'")
		fields[i] = strings.Trim(f, "'")
	}
	return tokenText(" " + strings.Join(fields, " ") + " ")
}

// keywordSet matches whole tokens or runs of consecutive tokens
type keywordSet []string

func words(kw ...string) keywordSet {
	return keywordSet(kw)
}

func (k keywordSet) matchText(t tokenText) bool {
	for _, kw := range k {
		if strings.Contains(string(t), " "+kw+" ") {
			return true
		}
	}
	return false
}

// Match reports whether any keyword occurs in s
func (k keywordSet) Match(s string) bool {
	return k.matchText(tokenize(s))
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

func anyPattern(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
