package formatter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminkit/adminctl/internal/core/model"
	"github.com/adminkit/adminctl/internal/core/timeline"
	"github.com/adminkit/adminctl/internal/util"
)

func init() {
	// Deterministic timestamps regardless of the host timezone
	util.InitializeTimeProvider("UTC")
}

func samplePage() model.UserPage {
	return model.UserPage{
		Users: []model.User{
			{
				ID:        "u-1",
				Email:     "ada@example.com",
				FirstName: "Ada",
				LastName:  "Lovelace",
				Role:      "admin",
				Status:    "active",
				MFA:       true,
				LastLogin: time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC).UnixMilli(),
			},
			{
				ID:     "u-2",
				Email:  "new@example.com",
				Role:   "viewer",
				Status: "pending",
			},
		},
		Total:   2,
		Page:    1,
		PerPage: 25,
	}
}

func TestUsersTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Users(&buf, "table", samplePage()))
	out := buf.String()

	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "2024-01-10 09:30")
	assert.Contains(t, out, "never")
	assert.Contains(t, out, "Showing 2 of 2 users (page 1)")
	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "┘")
}

func TestUsersCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Users(&buf, "csv", samplePage()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Name,Email,Role,Status,MFA,Last Login", lines[0])
	assert.Contains(t, lines[1], "u-1,Ada Lovelace,ada@example.com,admin,active,yes")
}

func TestUsersJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Users(&buf, "json", samplePage()))
	assert.Contains(t, buf.String(), `"email": "ada@example.com"`)
}

func TestActivityTableGroupsByDate(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC).UnixMilli()
	groups := []timeline.Group{
		{
			Date: day,
			Entries: []timeline.Entry{
				{Date: day + 9*3600*1000, Description: "Login from Chrome", Category: "Security Alert"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Activity(&buf, "table", groups))
	out := buf.String()

	assert.Contains(t, out, "Wednesday, 10 January 2024")
	assert.Contains(t, out, "09:00")
	assert.Contains(t, out, "Login from Chrome")
}

func TestActivityTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Activity(&buf, "table", nil))
	assert.Contains(t, buf.String(), "No activity matches")
}

func TestActivityCSV(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC).UnixMilli()
	groups := []timeline.Group{
		{
			Date: day,
			Entries: []timeline.Entry{
				{Date: day + 9*3600*1000, Description: "Login, with a comma", Category: "Security Alert"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Activity(&buf, "csv", groups))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Time,Category,Description", lines[0])
	assert.Equal(t, `2024-01-10,09:00:00,Security Alert,"Login, with a comma"`, lines[1])
}

func TestDashboardTable(t *testing.T) {
	stats := model.DashboardStats{
		TotalUsers:  120,
		ActiveUsers: 97,
		MFAEnrolled: 44,
		SignInsByDay: []model.DashboardPoint{
			{Date: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC).UnixMilli(), SignIns: 12},
			{Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC).UnixMilli(), SignIns: 30},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Dashboard(&buf, "table", stats))
	out := buf.String()

	assert.Contains(t, out, "Total users")
	assert.Contains(t, out, "120")
	assert.Contains(t, out, "Sign-ins per day")
	assert.Contains(t, out, "2024-01-10")
	assert.Contains(t, out, "█")
}

func TestTableAlignmentAndWidths(t *testing.T) {
	var buf bytes.Buffer
	Table{
		Headers: []string{"Name", "Count"},
		Aligns:  []Align{AlignLeft, AlignRight},
	}.Render(&buf, [][]string{
		{"a", "1"},
		{"longer", "100"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "│ Name   │ Count │", lines[1])
	assert.Equal(t, "│ a      │     1 │", lines[3])
	assert.Equal(t, "│ longer │   100 │", lines[4])
}
