package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/adminkit/adminctl/internal/core/session"
	"github.com/adminkit/adminctl/internal/presentation/formatter"
	"github.com/adminkit/adminctl/internal/util"
)

var (
	dashboardWatch    bool
	dashboardInterval time.Duration
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the admin dashboard stats",
	Long: `Shows the dashboard headline numbers and the sign-ins-per-day chart.

With --watch the view refreshes periodically. While watching, the session
file is monitored so tokens refreshed by another adminctl invocation are
picked up instead of triggering a second refresh here.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().BoolVarP(&dashboardWatch, "watch", "w", false,
		"Refresh the view periodically")
	dashboardCmd.Flags().DurationVar(&dashboardInterval, "interval", 30*time.Second,
		"Refresh interval for --watch")
	rootCmd.AddCommand(dashboardCmd)
}

// watchHeader is the status line drawn above each --watch refresh.
func watchHeader(now time.Time, interval time.Duration) string {
	return fmt.Sprintf("adminctl dashboard - refreshed %s (every %s, Ctrl-C to quit)",
		now.Format("15:04:05"), interval)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	client, store, cfg, err := newClient()
	if err != nil {
		return err
	}

	fetch := func() error {
		stats, err := client.DashboardStats(cmd.Context())
		if err != nil {
			return reportAuthError(err)
		}
		return formatter.Dashboard(os.Stdout, cfg.Output, stats)
	}

	if !dashboardWatch {
		return fetch()
	}

	watcher, err := session.NewWatcher(store)
	if err != nil {
		util.LogWarnf("Session file watching unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	ticker := time.NewTicker(dashboardInterval)
	defer ticker.Stop()

	for {
		// Clear screen between refreshes, same trick the web console's
		// auto-refresh avoids needing
		fmt.Print("\033[H\033[2J")
		fmt.Printf("%s\n\n", watchHeader(util.GetTimeProvider().Now(), dashboardInterval))
		if err := fetch(); err != nil {
			return err
		}

		select {
		case <-cmd.Context().Done():
			return nil
		case <-ticker.C:
		}
	}
}
