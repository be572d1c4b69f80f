// Package review formats compliance findings as the Markdown tables the
// review backend returns.
package review

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Verdicts emitted by the review backend.
const (
	VerdictPass   = "安全通过"
	VerdictReject = "拒绝"
)

// Finding is one reviewed item.
type Finding struct {
	Category     string `json:"category" yaml:"category"`
	OriginalText string `json:"original_text" yaml:"original_text"`
	Verdict      string `json:"review_result" yaml:"review_result"`
	HitWord      string `json:"hit_word,omitempty" yaml:"hit_word,omitempty"`
	RiskCategory string `json:"risk_category,omitempty" yaml:"risk_category,omitempty"`
	RiskLevel    string `json:"risk_level,omitempty" yaml:"risk_level,omitempty"`
	RuleSource   string `json:"rule_source,omitempty" yaml:"rule_source,omitempty"`
	Brief        string `json:"brief_description,omitempty" yaml:"brief_description,omitempty"`
	ManualReview bool   `json:"manual_review_needed,omitempty" yaml:"manual_review_needed,omitempty"`
}

// Rejected reports whether the finding carries the reject verdict.
func (f Finding) Rejected() bool { return f.Verdict == VerdictReject }

const (
	passHeader   = "| 品类 | 原文输入 | 审核结果 |\n| ------ | ------ | ---- |\n"
	rejectHeader = "| 品类 | 原文输入 | 审核结果 | 命中词 | 风险类别 | 风险等级 | 规则出处 | 简要说明 |\n" +
		"| ------ | ------ | ---- | ------- | ------ | ------ | -------- | ----------- |\n"
	emptyResult = passHeader + "|  |  | " + VerdictPass + " |"
)

// FormatMarkdown renders findings the way the backend does. Any rejected
// finding switches to the eight column table listing only rejections;
// otherwise every finding is listed in the three column table. No
// findings yields a single blank passing row.
func FormatMarkdown(findings []Finding) string {
	if len(findings) == 0 {
		return emptyResult
	}
	rejected := false
	for _, f := range findings {
		if f.Rejected() {
			rejected = true
			break
		}
	}

	var b strings.Builder
	if rejected {
		b.WriteString(rejectHeader)
		for _, f := range findings {
			if !f.Rejected() {
				continue
			}
			writeRow(&b, f.Category, f.OriginalText, f.Verdict, f.HitWord,
				f.RiskCategory, f.RiskLevel, f.RuleSource, f.Brief)
		}
		return b.String()
	}
	b.WriteString(passHeader)
	for _, f := range findings {
		writeRow(&b, f.Category, f.OriginalText, f.Verdict)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells ...string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(cellText(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// cellText keeps a value on one line and inside its cell.
func cellText(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, s)
	return strings.ReplaceAll(s, "|", `\|`)
}

// ReadFindings decodes either a JSON array of findings or a stream of
// newline-delimited finding objects.
func ReadFindings(r io.Reader) ([]Finding, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var out []Finding
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("decode findings: %w", err)
		}
		return out, nil
	}

	var out []Finding
	for n := 1; ; n++ {
		var f Finding
		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode finding %d: %w", n, err)
		}
		out = append(out, f)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		r, _, err := br.ReadRune()
		if err != nil {
			return 0, err
		}
		if r == '\uFEFF' || unicode.IsSpace(r) {
			continue
		}
		if err := br.UnreadRune(); err != nil {
			return 0, err
		}
		return byte(r), nil
	}
}
