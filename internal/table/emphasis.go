package table

import (
	"fmt"
	"strings"
)

// Emphasis is the presentation category of a body cell.
type Emphasis int

const (
	EmphasisNone Emphasis = iota
	EmphasisNegative
	EmphasisPositive
	EmphasisCaution
)

var emphasisNames = [...]string{"none", "negative", "positive", "caution"}

func (e Emphasis) String() string {
	if e < 0 || int(e) >= len(emphasisNames) {
		return fmt.Sprintf("emphasis(%d)", int(e))
	}
	return emphasisNames[e]
}

// ParseEmphasis parses "none", "negative", "positive" or "caution".
func ParseEmphasis(s string) (Emphasis, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range emphasisNames {
		if s == n {
			return Emphasis(i), true
		}
	}
	return EmphasisNone, false
}

func (e Emphasis) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Emphasis) UnmarshalText(b []byte) error {
	v, ok := ParseEmphasis(string(b))
	if !ok {
		return fmt.Errorf("unknown emphasis %q", string(b))
	}
	*e = v
	return nil
}

// Rule maps a keyword to the emphasis of any cell containing it.
type Rule struct {
	Keyword  string   `json:"keyword" yaml:"keyword"`
	Emphasis Emphasis `json:"emphasis" yaml:"emphasis"`
}

// String renders the rule in its config form, keyword=emphasis.
func (r Rule) String() string {
	return r.Keyword + "=" + r.Emphasis.String()
}

// ParseRule parses the config form keyword=emphasis. The keyword is kept
// verbatim apart from surrounding whitespace; the last '=' separates it
// from the emphasis so keywords may themselves contain '='.
func ParseRule(s string) (Rule, error) {
	idx := strings.LastIndex(s, "=")
	if idx == -1 {
		return Rule{}, fmt.Errorf("rule %q: expected keyword=emphasis", s)
	}
	kw := strings.TrimSpace(s[:idx])
	if kw == "" {
		return Rule{}, fmt.Errorf("rule %q: empty keyword", s)
	}
	em, ok := ParseEmphasis(s[idx+1:])
	if !ok {
		return Rule{}, fmt.Errorf("rule %q: unknown emphasis %q", s, strings.TrimSpace(s[idx+1:]))
	}
	return Rule{Keyword: kw, Emphasis: em}, nil
}

// Rules is an ordered keyword table; the first matching rule wins.
type Rules []Rule

// ParseRules parses every entry, skipping blank ones.
func ParseRules(in []string) (Rules, error) {
	out := make(Rules, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) == "" {
			continue
		}
		r, err := ParseRule(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// DefaultRules returns the keyword table used by the review backend's
// tables: rejections first, then passes, then warnings.
func DefaultRules() Rules {
	return Rules{
		{Keyword: "拒绝", Emphasis: EmphasisNegative},
		{Keyword: "reject", Emphasis: EmphasisNegative},
		{Keyword: "安全通过", Emphasis: EmphasisPositive},
		{Keyword: "pass", Emphasis: EmphasisPositive},
		{Keyword: "safe", Emphasis: EmphasisPositive},
		{Keyword: "警告", Emphasis: EmphasisCaution},
		{Keyword: "warning", Emphasis: EmphasisCaution},
	}
}

// Strings returns the config form of every rule.
func (rs Rules) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

// Classify returns the emphasis of the first rule whose keyword occurs in
// text. Matching is a case-sensitive substring test.
func (rs Rules) Classify(text string) Emphasis {
	for _, r := range rs {
		if r.Keyword != "" && strings.Contains(text, r.Keyword) {
			return r.Emphasis
		}
	}
	return EmphasisNone
}
