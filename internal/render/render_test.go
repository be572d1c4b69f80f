package render

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/tablemark/internal/table"
	"github.com/mithrel/tablemark/pkg/api"
)

const (
	openTag  = `<div class="table-responsive"><table class="table table-striped result-table">`
	closeTag = `</table></div>`
	emptyBox = openTag + closeTag
)

func newRenderer(t *testing.T, mut func(*Options)) *Renderer {
	t.Helper()
	opts := DefaultOptions()
	if mut != nil {
		mut(&opts)
	}
	r, err := New(opts)
	require.NoError(t, err)
	return r
}

func TestRender(t *testing.T) {
	r := newRenderer(t, nil)

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no tables",
			in:   "just prose\nno pipes here",
			want: emptyBox,
		},
		{
			name: "empty input",
			in:   "",
			want: emptyBox,
		},
		{
			name: "pass table",
			in:   "| 品类 | 原文输入 | 审核结果 |\n| ------ | ------ | ---- |\n| 文本 | hello | 安全通过 |",
			want: openTag +
				`<thead><tr><th>品类</th><th>原文输入</th><th>审核结果</th></tr></thead>` +
				`<tbody><tr><td>文本</td><td>hello</td><td class="text-success fw-bold">安全通过</td></tr></tbody>` +
				closeTag,
		},
		{
			name: "emphasis classes",
			in:   "| a | b |\n|---|---|\n| 拒绝 | 警告 |",
			want: openTag +
				`<thead><tr><th>a</th><th>b</th></tr></thead>` +
				`<tbody><tr><td class="text-danger fw-bold">拒绝</td><td class="text-warning fw-bold">警告</td></tr></tbody>` +
				closeTag,
		},
		{
			name: "header only",
			in:   "| a | b |\n|---|---|",
			want: openTag + `<thead><tr><th>a</th><th>b</th></tr></thead><tbody></tbody>` + closeTag,
		},
		{
			name: "headerless block",
			in:   "|---|---|\n| solo |",
			want: emptyBox,
		},
		{
			name: "two blocks",
			in:   "| a | b |\n| 1 | 2 |\ntext\n| c | d |\n| 3 | 4 |",
			want: openTag + `<thead><tr><th>a</th><th>b</th></tr></thead><tbody><tr><td>1</td><td>2</td></tr></tbody>` + closeTag +
				openTag + `<thead><tr><th>c</th><th>d</th></tr></thead><tbody><tr><td>3</td><td>4</td></tr></tbody>` + closeTag,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.Render(tc.in))
		})
	}
}

func TestRenderEscapesCellText(t *testing.T) {
	r := newRenderer(t, nil)
	out := r.Render("| a | b |\n| <b>x</b> | <script>alert(1)</script> |")
	assert.Contains(t, out, "<td>&lt;b&gt;x&lt;/b&gt;</td>")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>")
}

func TestRenderVerbatimIsSanitized(t *testing.T) {
	r := newRenderer(t, func(o *Options) { o.Escape = false })
	out := r.Render("| a | b |\n| <b>x</b> | <script>alert(1)</script>拒绝 |")
	assert.Contains(t, out, "<b>x</b>")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "alert(1)")
	assert.Contains(t, out, `class="text-danger fw-bold"`)
	assert.Contains(t, out, `class="table-responsive"`)
}

func TestRenderCustomClassesAndRules(t *testing.T) {
	r := newRenderer(t, func(o *Options) {
		o.Classes.Wrapper = "wrap"
		o.Classes.Table = "tbl"
		o.Classes.Negative = "bad"
		o.Rules = table.Rules{{Keyword: "nope", Emphasis: table.EmphasisNegative}}
	})
	out := r.Render("| a | b |\n| nope | 拒绝 |")
	assert.Equal(t,
		`<div class="wrap"><table class="tbl"><thead><tr><th>a</th><th>b</th></tr></thead>`+
			`<tbody><tr><td class="bad">nope</td><td>拒绝</td></tr></tbody></table></div>`,
		out)
}

func TestRenderDeterministicAndConcurrent(t *testing.T) {
	r := newRenderer(t, nil)
	in := "| a | b |\n| 1 | 拒绝 |\n\n| c | d |\n| 2 | pass |"
	want := r.Render(in)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, r.Render(in))
		}()
	}
	wg.Wait()
}

func TestResult(t *testing.T) {
	r := newRenderer(t, nil)

	t.Run("with tables", func(t *testing.T) {
		out := r.Result(api.ReviewResult{
			Success:   true,
			Result:    "| a | b |\n| 1 | 安全通过 |",
			InputText: "hello",
			HasImage:  true,
			Filename:  "ad.png",
			FileType:  "image",
		})
		assert.True(t, strings.HasPrefix(out, `<div class="fade-in">`))
		assert.Contains(t, out, "<strong>Text:</strong> hello</p>")
		assert.Contains(t, out, "<strong>Image:</strong> uploaded</p>")
		assert.Contains(t, out, "<strong>File:</strong> ad.png (image)</p>")
		assert.Contains(t, out, `<td class="text-success fw-bold">安全通过</td>`)
		assert.NotContains(t, out, "No result")
	})

	t.Run("blank result", func(t *testing.T) {
		out := r.Result(api.ReviewResult{Success: true, Result: "  \n"})
		assert.Contains(t, out, "<strong>Text:</strong> none</p>")
		assert.Contains(t, out, "<strong>Image:</strong> none</p>")
		assert.Contains(t, out, `<p class="text-muted">No result</p>`)
		assert.NotContains(t, out, "<table")
		assert.NotContains(t, out, "File:")
	})

	t.Run("prose result", func(t *testing.T) {
		out := r.Result(api.ReviewResult{Result: "no table here"})
		assert.Contains(t, out, emptyBox)
	})

	t.Run("input is escaped", func(t *testing.T) {
		out := r.Result(api.ReviewResult{InputText: "<img src=x>"})
		assert.Contains(t, out, "&lt;img src=x&gt;")
	})
}

func TestFingerprint(t *testing.T) {
	a := newRenderer(t, nil)
	b := newRenderer(t, nil)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	c := newRenderer(t, func(o *Options) { o.Escape = false })
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	d := newRenderer(t, func(o *Options) { o.Rules = o.Rules[1:] })
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
}

func TestRecord(t *testing.T) {
	r := newRenderer(t, nil)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CST", 8*3600))
	md := "| a | b |\n| - | - |\n| 1 | 拒绝 |\n\ntext\n\n| c | d |\n|---|---|"

	rec, doc := r.Record(md, at)
	assert.Equal(t, r.ID(md), rec.ID)
	assert.Equal(t, md, rec.Markdown)
	assert.Equal(t, r.Markup(doc), rec.HTML)
	assert.Equal(t, 2, rec.Tables)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.True(t, rec.CreatedAt.Equal(at))

	assert.NotEqual(t, rec.ID, r.ID(md+" "))
	other := newRenderer(t, func(o *Options) { o.Escape = false })
	assert.NotEqual(t, rec.ID, other.ID(md), "configuration is part of the id")
}

func TestClassesValidate(t *testing.T) {
	require.NoError(t, DefaultClasses().Validate())

	c := DefaultClasses()
	c.Table = " "
	c.Caution = `x" onclick="y`
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table class is empty")
	assert.Contains(t, err.Error(), "caution class")
}

func TestClassesFor(t *testing.T) {
	c := DefaultClasses()
	assert.Equal(t, "", c.For(table.EmphasisNone))
	assert.Equal(t, "text-danger fw-bold", c.For(table.EmphasisNegative))
	assert.Equal(t, "text-success fw-bold", c.For(table.EmphasisPositive))
	assert.Equal(t, "text-warning fw-bold", c.For(table.EmphasisCaution))
}
