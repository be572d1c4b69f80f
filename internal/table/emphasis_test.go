package table

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	rules := DefaultRules()
	cases := []struct {
		name string
		in   string
		want Emphasis
	}{
		{"reject literal", "拒绝", EmphasisNegative},
		{"reject english", "rejected by policy", EmphasisNegative},
		{"pass literal", "安全通过", EmphasisPositive},
		{"pass english", "passed", EmphasisPositive},
		{"safe english", "looks safe", EmphasisPositive},
		{"warning literal", "警告", EmphasisCaution},
		{"warning english", "warning: borderline", EmphasisCaution},
		{"plain", "温和清洁", EmphasisNone},
		{"empty", "", EmphasisNone},
		{"case sensitive", "REJECT", EmphasisNone},
		{"reject beats pass", "pass, then reject", EmphasisNegative},
		{"pass beats warning", "warning but safe", EmphasisPositive},
		{"reject beats warning", "警告 then 拒绝", EmphasisNegative},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, rules.Classify(c.in))
		})
	}
}

func TestClassifyUsesSliceOrder(t *testing.T) {
	rules := Rules{
		{Keyword: "warn", Emphasis: EmphasisCaution},
		{Keyword: "reject", Emphasis: EmphasisNegative},
	}
	assert.Equal(t, EmphasisCaution, rules.Classify("reject with warn"))
	assert.Equal(t, EmphasisNone, Rules{{Keyword: "", Emphasis: EmphasisNegative}}.Classify("anything"))
}

func TestParseRule(t *testing.T) {
	r, err := ParseRule(" 拒绝 = negative ")
	require.NoError(t, err)
	assert.Equal(t, Rule{Keyword: "拒绝", Emphasis: EmphasisNegative}, r)

	r, err = ParseRule("a=b=caution")
	require.NoError(t, err)
	assert.Equal(t, "a=b", r.Keyword)
	assert.Equal(t, EmphasisCaution, r.Emphasis)

	for _, bad := range []string{"noequals", "=positive", "word=loud"} {
		_, err := ParseRule(bad)
		assert.Error(t, err, bad)
	}
}

func TestRulesRoundTrip(t *testing.T) {
	rules := DefaultRules()
	parsed, err := ParseRules(append(rules.Strings(), "  "))
	require.NoError(t, err)
	assert.Equal(t, rules, parsed)
}

func TestEmphasisText(t *testing.T) {
	b, err := json.Marshal(Cell{Text: "x", Emphasis: EmphasisCaution})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"x","emphasis":"caution"}`, string(b))

	var c Cell
	require.NoError(t, json.Unmarshal([]byte(`{"text":"y","emphasis":"positive"}`), &c))
	assert.Equal(t, EmphasisPositive, c.Emphasis)
	assert.Error(t, json.Unmarshal([]byte(`{"emphasis":"loud"}`), &c))

	assert.Equal(t, "emphasis(9)", Emphasis(9).String())
}
