package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adminkit/adminctl/internal/core/timeline"
	"github.com/adminkit/adminctl/internal/presentation/formatter"
	"github.com/adminkit/adminctl/internal/util"
)

var (
	activityQuery      string
	activityFrom       string
	activityTo         string
	activityCategories []string
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Browse the activity timeline",
	Long: `Fetches the activity log and filters it locally, the same way the web
console does: an optional date range, a case-insensitive text search over
descriptions, and a category filter. All given criteria must match.`,
	Args: cobra.NoArgs,
	RunE: runActivity,
}

func init() {
	activityCmd.Flags().StringVarP(&activityQuery, "query", "q", "",
		"Keep entries whose description contains this text")
	activityCmd.Flags().StringVar(&activityFrom, "from", "",
		"Start of the date range (e.g., 2024-01-01); requires --to")
	activityCmd.Flags().StringVar(&activityTo, "to", "",
		"End of the date range, inclusive; requires --from")
	activityCmd.Flags().StringSliceVarP(&activityCategories, "category", "c", nil,
		"Keep entries in this category (repeatable)")
	rootCmd.AddCommand(activityCmd)
}

func buildCriteria() (timeline.Criteria, error) {
	criteria := timeline.Criteria{
		Query:      activityQuery,
		Categories: timeline.CategorySet(activityCategories),
	}

	// The range only applies when both bounds are present, matching the
	// console's date picker which submits from and to together.
	switch {
	case activityFrom != "" && activityTo != "":
		tp := util.GetTimeProvider()
		from, err := tp.ParseDateMillis(activityFrom)
		if err != nil {
			return criteria, err
		}
		to, err := tp.EndOfDayMillis(activityTo)
		if err != nil {
			return criteria, err
		}
		if from > to {
			return criteria, fmt.Errorf("--from is after --to")
		}
		criteria.Range = &timeline.DateRange{From: from, To: to}
	case activityFrom != "" || activityTo != "":
		return criteria, fmt.Errorf("--from and --to must be given together")
	}

	return criteria, nil
}

func runActivity(cmd *cobra.Command, args []string) error {
	criteria, err := buildCriteria()
	if err != nil {
		return err
	}

	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}

	groups, err := client.Activity(cmd.Context())
	if err != nil {
		return reportAuthError(err)
	}

	filtered := timeline.Filter(groups, criteria)
	util.LogDebugf("Activity filter kept %d of %d groups", len(filtered), len(groups))
	return formatter.Activity(os.Stdout, cfg.Output, filtered)
}
