package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/adminkit/adminctl/internal/core/model"
	"github.com/adminkit/adminctl/internal/util"
)

// Dashboard renders the stats view. The table form shows headline totals
// plus an ASCII bar chart of sign-ins per day, the CLI stand-in for the
// console's charts.
func Dashboard(w io.Writer, format string, stats model.DashboardStats) error {
	switch format {
	case "json":
		return WriteJSON(w, stats)
	default:
		dashboardTable(w, stats)
		return nil
	}
}

func dashboardTable(w io.Writer, stats model.DashboardStats) {
	rows := [][]string{
		{"Total users", util.FormatNumber(stats.TotalUsers)},
		{"Active users", util.FormatNumber(stats.ActiveUsers)},
		{"Pending invites", util.FormatNumber(stats.PendingUsers)},
		{"MFA enrolled", util.FormatNumber(stats.MFAEnrolled)},
		{"Failed sign-ins", util.FormatNumber(stats.FailedSignIns)},
	}
	Table{
		Headers: []string{"Metric", "Value"},
		Aligns:  []Align{AlignLeft, AlignRight},
	}.Render(w, rows)

	if len(stats.SignInsByDay) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sign-ins per day")
	renderBarChart(w, stats.SignInsByDay)
}

func renderBarChart(w io.Writer, points []model.DashboardPoint) {
	maxCount := 0
	for _, p := range points {
		if p.SignIns > maxCount {
			maxCount = p.SignIns
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	// Bars scale to the terminal, leaving room for the date and count
	barSpace := terminalWidth() - 25
	if barSpace < 10 {
		barSpace = 10
	}

	tp := util.GetTimeProvider()
	for _, p := range points {
		barLen := p.SignIns * barSpace / maxCount
		if p.SignIns > 0 && barLen == 0 {
			barLen = 1
		}
		fmt.Fprintf(w, "%s │%s %d\n",
			tp.FormatMillis(p.Date, "2006-01-02"),
			strings.Repeat("█", barLen),
			p.SignIns)
	}
}
