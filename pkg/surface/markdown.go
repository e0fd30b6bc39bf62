package surface

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownRenderer produces a Markdown summary of a ranking, suitable for
// pasting into issues or chat.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, view *RankingView) error {
	_, err := io.WriteString(w, r.buildSummary(view))
	return err
}

func (r *MarkdownRenderer) buildSummary(view *RankingView) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Towerscope: %s (v%s)\n\n", view.Strategy, view.Version))
	sb.WriteString(fmt.Sprintf("Profile **%s** — %s coins available\n\n",
		view.ProfileName, groupDigits(view.Coins)))

	if len(view.Results) == 0 {
		sb.WriteString("_No purchasable upgrades: everything is maxed or offers no benefit._\n")
		return sb.String()
	}

	sb.WriteString("| # | Upgrade | Category | Level | Cost | Score | Affordable |\n")
	sb.WriteString("|---|---------|----------|-------|------|-------|------------|\n")
	for i, ru := range view.Results {
		afford := "yes"
		if !ru.Affordable {
			afford = "no"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d → %d | %s | %.6g | %s |\n",
			i+1, ru.UpgradeName, ru.Category, ru.CurrentLevel, ru.NextLevel,
			groupDigits(ru.Cost), ru.Score, afford))
	}
	sb.WriteString("\n")

	if view.Explanations != nil {
		sb.WriteString("### Breakdown\n\n")
		for _, ex := range view.Explanations {
			sb.WriteString("```\n")
			sb.WriteString(ex)
			sb.WriteString("\n```\n\n")
		}
	}

	return sb.String()
}
