package publisher

import (
	"fmt"
	"html"
	"strings"

	"github.com/rathinamurthy/ai-daily-brief/internal/summarizer"
)

// importanceColor maps importance tiers to accent colors used in the HTML
// body and discord embeds.
func importanceColor(importance string) int {
	switch importance {
	case summarizer.ImportanceBreaking:
		return 0xE74C3C
	case summarizer.ImportanceNotable:
		return 0xE67E22
	default:
		return 0x5865F2
	}
}

func buildHTMLBody(brief *Brief) string {
	var sb strings.Builder

	sb.WriteString(`<!DOCTYPE html><html><head><style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 700px; margin: 0 auto; padding: 20px; color: #333; }
h1 { color: #1a1a2e; border-bottom: 2px solid #e94560; padding-bottom: 10px; }
.meta { color: #666; font-size: 0.9em; margin-bottom: 20px; }
.story { border: 1px solid #ddd; border-radius: 8px; padding: 15px; margin-bottom: 15px; }
.story h3 { margin-top: 0; color: #0f3460; }
.badge { display: inline-block; color: #fff; font-size: 0.75em; padding: 2px 8px; border-radius: 10px; margin-right: 6px; }
.sources { color: #666; font-size: 0.85em; margin-top: 10px; }
.sources a { color: #0f3460; }
</style></head><body>`)

	sb.WriteString("<h1>AI Daily Brief</h1>")
	sb.WriteString(fmt.Sprintf("<p><em>%s</em></p>", brief.Date.Format("Monday, January 2, 2006")))
	sb.WriteString(fmt.Sprintf(`<div class="meta">%d stories curated from %d posts across %d sources</div>`,
		len(brief.Stories), brief.PostCount, brief.SourceCount))

	for i, story := range brief.Stories {
		sb.WriteString(`<div class="story">`)
		sb.WriteString(fmt.Sprintf(
			`<h3><span class="badge" style="background:#%06X">%s</span>%d. %s</h3>`,
			importanceColor(story.Importance),
			html.EscapeString(story.Importance),
			i+1,
			html.EscapeString(story.Headline),
		))
		if story.Category != "" {
			sb.WriteString(fmt.Sprintf(`<div class="meta">%s</div>`, html.EscapeString(story.Category)))
		}
		sb.WriteString(fmt.Sprintf("<p>%s</p>", html.EscapeString(story.Summary)))

		if len(story.Sources) > 0 {
			sb.WriteString(`<div class="sources">Sources: `)
			for j, src := range story.Sources {
				if j > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(fmt.Sprintf(`<a href="%s">@%s</a>`,
					html.EscapeString(src.URL), html.EscapeString(src.Handle)))
			}
			sb.WriteString("</div>")
		}
		sb.WriteString("</div>")
	}

	sb.WriteString("</body></html>")
	return sb.String()
}

func buildPlainBody(brief *Brief) string {
	var sb strings.Builder
	sb.WriteString("AI DAILY BRIEF\n")
	sb.WriteString(strings.Repeat("=", 40))
	sb.WriteString("\n\n")

	for i, story := range brief.Stories {
		sb.WriteString(fmt.Sprintf("%d. [%s] [%s] %s\n", i+1, story.Importance, story.Category, story.Headline))
		sb.WriteString(fmt.Sprintf("   %s\n", story.Summary))
		if len(story.Sources) > 0 {
			parts := make([]string, 0, len(story.Sources))
			for _, src := range story.Sources {
				parts = append(parts, fmt.Sprintf("@%s (%s)", src.Handle, src.URL))
			}
			sb.WriteString(fmt.Sprintf("   Sources: %s\n", strings.Join(parts, ", ")))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
