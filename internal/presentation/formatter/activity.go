package formatter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/adminkit/adminctl/internal/core/timeline"
	"github.com/adminkit/adminctl/internal/util"
)

var activityHeaders = []string{"Time", "Category", "Description"}

// Activity renders grouped activity entries in the requested format. The
// table view prints one section per date bucket, mirroring the timeline
// the web console shows.
func Activity(w io.Writer, format string, groups []timeline.Group) error {
	switch format {
	case "json":
		return WriteJSON(w, groups)
	case "csv":
		return activityCSV(w, groups)
	default:
		activityTable(w, groups)
		return nil
	}
}

func activityTable(w io.Writer, groups []timeline.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No activity matches the current filters.")
		return
	}

	tp := util.GetTimeProvider()
	// Cap descriptions so one long entry cannot blow up the table
	descWidth := terminalWidth() - 40
	if descWidth < 20 {
		descWidth = 20
	}

	for _, group := range groups {
		fmt.Fprintln(w, tp.FormatMillis(group.Date, "Monday, 2 January 2006"))

		rows := make([][]string, 0, len(group.Entries))
		for _, entry := range group.Entries {
			rows = append(rows, []string{
				tp.FormatMillis(entry.Date, "15:04"),
				entry.Category,
				util.Truncate(entry.Description, descWidth),
			})
		}
		Table{Headers: activityHeaders}.Render(w, rows)
		fmt.Fprintln(w)
	}
}

func activityCSV(w io.Writer, groups []timeline.Group) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	tp := util.GetTimeProvider()
	if err := cw.Write([]string{"Date", "Time", "Category", "Description"}); err != nil {
		return err
	}
	for _, group := range groups {
		date := tp.FormatMillis(group.Date, "2006-01-02")
		for _, entry := range group.Entries {
			record := []string{
				date,
				tp.FormatMillis(entry.Date, "15:04:05"),
				entry.Category,
				entry.Description,
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	return nil
}
