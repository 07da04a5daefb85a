package notifier

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"IndexCompare/internal/calculator"
	"IndexCompare/internal/catalog"
	"IndexCompare/internal/model"
	"IndexCompare/internal/recorder"
)

// FormatComparison formats a comparison summary into a Telegram message.
func FormatComparison(cmp *model.Comparison) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s vs %s</b>\n", html.EscapeString(cmp.A.ID), html.EscapeString(cmp.B.ID)))
	b.WriteString(fmt.Sprintf("%s → %s\n\n", model.FormatDate(cmp.Range.Start), model.FormatDate(cmp.Range.End)))

	writePerformance(&b, cmp.A, cmp.PerfA)
	writePerformance(&b, cmp.B, cmp.PerfB)

	diff := calculator.Outperformance(cmp.PerfA, cmp.PerfB)
	leader, laggard := cmp.A.ID, cmp.B.ID
	if diff < 0 {
		leader, laggard = laggard, leader
		diff = -diff
	}
	if diff == 0 {
		b.WriteString("⚖️ Both indices ended level")
	} else {
		b.WriteString(fmt.Sprintf("🏆 %s outperformed %s by %.2f pts",
			html.EscapeString(leader), html.EscapeString(laggard), diff))
	}
	return b.String()
}

func writePerformance(b *strings.Builder, s model.Series, p model.Performance) {
	b.WriteString(fmt.Sprintf("<b>%s</b> (%d days)\n", html.EscapeString(s.ID), s.Len()))
	b.WriteString(fmt.Sprintf("  Change: %+.2f%%\n", p.Change))
	b.WriteString(fmt.Sprintf("  High: %.2f (%s) | Low: %.2f (%s)\n",
		p.High, model.FormatDate(p.HighDate), p.Low, model.FormatDate(p.LowDate)))
	b.WriteString(fmt.Sprintf("  Max drawdown: %.2f%%\n\n", p.MaxDrawdown))
}

// FormatError turns a failed run into guidance for the user.
func FormatError(err error, cat catalog.Catalog) string {
	var b strings.Builder
	switch model.KindOf(err) {
	case model.KindInvalidSeries:
		var se *model.SeriesError
		id := ""
		if errors.As(err, &se) {
			id = se.ID
		}
		b.WriteString(fmt.Sprintf("❌ Unknown index <code>%s</code>\n\n", html.EscapeString(id)))
		b.WriteString(FormatCatalog(cat))
	case model.KindInvalidRange:
		b.WriteString(fmt.Sprintf("❌ %s\n\nDates use dd-mm-yyyy, start on or before end, neither in the future.", html.EscapeString(err.Error())))
	case model.KindNoData:
		b.WriteString(fmt.Sprintf("📭 %s", html.EscapeString(err.Error())))
	case model.KindTransport:
		b.WriteString(fmt.Sprintf("🌐 Data provider unavailable, please retry later.\n<code>%s</code>", html.EscapeString(err.Error())))
	default:
		b.WriteString(fmt.Sprintf("⚠️ Comparison failed: %s", html.EscapeString(err.Error())))
	}
	return b.String()
}

// FormatCatalog lists the supported indices by group.
func FormatCatalog(cat catalog.Catalog) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>Supported indices</b> (%d)\n", cat.Len()))
	for _, g := range cat.Groups() {
		b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", html.EscapeString(g.Name)))
		for _, id := range g.IDs {
			b.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(id)))
		}
	}
	return b.String()
}

// FormatHistory lists recent runs, newest first.
func FormatHistory(runs []recorder.ComparisonEvent) string {
	if len(runs) == 0 {
		return "No comparison runs recorded yet."
	}
	var b strings.Builder
	b.WriteString("🕘 <b>Recent comparisons</b>\n\n")
	for _, r := range runs {
		status := "✅"
		detail := fmt.Sprintf("%+.2f%% / %+.2f%%", r.ChangeA, r.ChangeB)
		if r.Status == model.RunFailed {
			status = "❌"
			detail = string(r.ErrorKind)
		}
		b.WriteString(fmt.Sprintf("%s %s %s vs %s, %s..%s: %s\n",
			status, r.Timestamp.Format("2006-01-02 15:04"),
			html.EscapeString(r.IndexA), html.EscapeString(r.IndexB),
			model.FormatDate(r.From), model.FormatDate(r.To), detail))
	}
	return b.String()
}

// FormatHelp describes the bot commands.
func FormatHelp() string {
	return strings.Join([]string{
		"🤖 <b>IndexCompare</b>",
		"",
		"/compare &lt;index A&gt;, &lt;index B&gt;, &lt;dd-mm-yyyy&gt;, &lt;dd-mm-yyyy&gt;",
		"  e.g. /compare NIFTY 50, NIFTY BANK, 01-01-2023, 31-12-2023",
		"/compare - run the configured comparison",
		"/indices - list supported indices",
		"/history - show recent runs",
		"/help - show this message",
	}, "\n")
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// PlainText strips the HTML markup of a formatted message for terminal output.
func PlainText(msg string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(msg, ""))
}
