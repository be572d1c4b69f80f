package main

import (
	"encoding/json"
	"fmt"
	mrand "math/rand"
	"os"

	"github.com/mithrel/tablemark/internal/review"
)

var (
	categories = []string{"文本", "图片", "文件"}
	riskKinds  = []string{"涉政", "色情", "广告", "辱骂"}
	levels     = []string{"高", "中", "低"}
	sources    = []string{"敏感词库", "模型判定", "人工规则"}
)

// Writes sample findings as NDJSON, ready for `tablemark review format`.
func main() {
	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))

	const total = 50
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)

	for i := 0; i < total; i++ {
		f := review.Finding{
			Category:     pick(mr, categories),
			OriginalText: fmt.Sprintf("sample input %03d", i+1),
			Verdict:      review.VerdictPass,
		}
		// ~15% rejected
		if mr.Float64() < 0.15 {
			f.Verdict = review.VerdictReject
			f.HitWord = fmt.Sprintf("word%02d", mr.Intn(30)+1)
			f.RiskCategory = pick(mr, riskKinds)
			f.RiskLevel = pick(mr, levels)
			f.RuleSource = pick(mr, sources)
			f.Brief = "matched " + f.HitWord
			f.ManualReview = mr.Float64() < 0.5
		}
		if err := enc.Encode(f); err != nil {
			panic(err)
		}
	}
}

func pick(r *mrand.Rand, pool []string) string {
	return pool[r.Intn(len(pool))]
}
