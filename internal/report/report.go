package report

import (
	"fmt"
	"math"
	"strings"

	"k9stats/domain/model"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderScreening formats the screening table as GitHub-flavored markdown.
// Row order follows the record order (input outcome order), not significance.
func RenderScreening(title string, records []model.ScreeningRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	b.WriteString("| Outcome | Method | p | adj. p | OR | Direction | Sig. | N |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, rec := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %d |\n",
			rec.Outcome, rec.Method,
			formatP(rec.PValue), formatP(rec.AdjustedP),
			formatEstimate(rec.OddsRatio), rec.Direction, rec.Tier.Marks(), rec.SampleSize)
	}
	return b.String()
}

// RenderBatch formats per-outcome coefficient tables plus the failure list
func RenderBatch(title string, batch *model.BatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", title)

	for _, res := range batch.Results {
		fmt.Fprintf(&b, "\n### %s (%s, n=%d)\n\n", res.Outcome, res.Family, res.SampleSize)
		if len(res.Dropped) > 0 {
			fmt.Fprintf(&b, "Dropped for sparse cells: %s\n\n", strings.Join(res.Dropped, ", "))
		}
		if res.Family == model.FamilyLogistic {
			b.WriteString("| Term | OR | 95% CI | coef | SE | VIF |\n")
			b.WriteString("|---|---|---|---|---|---|\n")
			for _, t := range res.Terms {
				fmt.Fprintf(&b, "| %s | %s | [%s, %s] | %.4f | %.4f | %s |\n",
					t.Name, formatEstimate(t.OddsRatio),
					formatEstimate(t.ORLower), formatEstimate(t.ORUpper),
					t.Coef, t.StdErr, formatEstimate(t.VIF))
			}
		} else {
			b.WriteString("| Term | coef | 95% CI | SE | VIF |\n")
			b.WriteString("|---|---|---|---|---|\n")
			for _, t := range res.Terms {
				fmt.Fprintf(&b, "| %s | %.4f | [%.4f, %.4f] | %.4f | %s |\n",
					t.Name, t.Coef, t.CILower, t.CIUpper, t.StdErr, formatEstimate(t.VIF))
			}
		}
	}

	if len(batch.Failures) > 0 {
		b.WriteString("\n### Failures\n\n")
		for _, f := range batch.Failures {
			fmt.Fprintf(&b, "- **%s**: %s\n", f.Outcome, f.Reason)
		}
	}
	return b.String()
}

// ToHTML converts a rendered markdown report to a standalone HTML fragment
func ToHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return markdown.Render(doc, renderer)
}

func formatP(p float64) string {
	if p < 0.001 {
		return fmt.Sprintf("%.2e", p)
	}
	return fmt.Sprintf("%.4f", p)
}

func formatEstimate(v float64) string {
	switch {
	case math.IsNaN(v):
		return "-"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return fmt.Sprintf("%.3f", v)
	}
}
