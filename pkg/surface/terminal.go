package surface

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// TerminalRenderer renders a RankingView as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, view *RankingView) error {
	// Header
	fmt.Fprintf(w, "%s\n\n",
		bold(fmt.Sprintf("Towerscope: %s (v%s) — %d recommendations",
			view.Strategy, view.Version, len(view.Results))))

	fmt.Fprintf(w, "Profile: %s — %s coins available\n\n",
		view.ProfileName, groupDigits(view.Coins))

	if len(view.Results) == 0 {
		fmt.Fprintln(w, "Nothing to buy: every upgrade is maxed or offers no benefit.")
		fmt.Fprintln(w)
		return nil
	}

	for i, ru := range view.Results {
		marker := colored("✓", colorGreen)
		if !ru.Affordable {
			marker = colored("✗", colorRed)
		}

		fmt.Fprintf(w, "  %2d. %s %s %s  level %d → %d, %s coins, score %.6g\n",
			i+1, marker, bold(ru.UpgradeName),
			dim("["+ru.Category+"]"),
			ru.CurrentLevel, ru.NextLevel,
			groupDigits(ru.Cost), ru.Score)

		if view.Explanations != nil {
			for _, line := range strings.Split(view.Explanations[i], "\n") {
				fmt.Fprintf(w, "      %s\n", dim(line))
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)

	return nil
}

// groupDigits renders an integer with thousands separators.
func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
