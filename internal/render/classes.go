package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mithrel/tablemark/internal/table"
)

// Classes holds the CSS classes placed on rendered markup.
type Classes struct {
	Wrapper  string `json:"wrapper" yaml:"wrapper"`
	Table    string `json:"table" yaml:"table"`
	Negative string `json:"negative" yaml:"negative"`
	Positive string `json:"positive" yaml:"positive"`
	Caution  string `json:"caution" yaml:"caution"`
}

// DefaultClasses returns the Bootstrap classes used by the review page.
func DefaultClasses() Classes {
	return Classes{
		Wrapper:  "table-responsive",
		Table:    "table table-striped result-table",
		Negative: "text-danger fw-bold",
		Positive: "text-success fw-bold",
		Caution:  "text-warning fw-bold",
	}
}

// For returns the class for an emphasis; empty for EmphasisNone.
func (c Classes) For(e table.Emphasis) string {
	switch e {
	case table.EmphasisNegative:
		return c.Negative
	case table.EmphasisPositive:
		return c.Positive
	case table.EmphasisCaution:
		return c.Caution
	default:
		return ""
	}
}

// Validate reports every empty or malformed class at once.
func (c Classes) Validate() error {
	var errs []error
	for _, f := range []struct{ name, val string }{
		{"wrapper", c.Wrapper},
		{"table", c.Table},
		{"negative", c.Negative},
		{"positive", c.Positive},
		{"caution", c.Caution},
	} {
		v := strings.TrimSpace(f.val)
		if v == "" {
			errs = append(errs, fmt.Errorf("%s class is empty", f.name))
			continue
		}
		if strings.ContainsAny(v, "\"<>'&") {
			errs = append(errs, fmt.Errorf("%s class %q contains markup characters", f.name, v))
		}
	}
	return errors.Join(errs...)
}
