package formatter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/adminkit/adminctl/internal/core/model"
	"github.com/adminkit/adminctl/internal/util"
)

var userHeaders = []string{"ID", "Name", "Email", "Role", "Status", "MFA", "Last Login"}

// Users renders one page of the IAM user table in the requested format.
func Users(w io.Writer, format string, page model.UserPage) error {
	switch format {
	case "json":
		return WriteJSON(w, page)
	case "csv":
		return usersCSV(w, page)
	default:
		usersTable(w, page)
		return nil
	}
}

func userRow(u model.User) []string {
	tp := util.GetTimeProvider()
	lastLogin := "never"
	if u.LastLogin > 0 {
		lastLogin = tp.FormatMillis(u.LastLogin, "2006-01-02 15:04")
	}
	mfa := "no"
	if u.MFA {
		mfa = "yes"
	}
	return []string{u.ID, u.FullName(), u.Email, u.Role, u.Status, mfa, lastLogin}
}

func usersTable(w io.Writer, page model.UserPage) {
	rows := make([][]string, 0, len(page.Users))
	for _, u := range page.Users {
		rows = append(rows, userRow(u))
	}

	Table{Headers: userHeaders}.Render(w, rows)
	fmt.Fprintf(w, "Showing %d of %d users (page %d)\n", len(page.Users), page.Total, page.Page)
}

func usersCSV(w io.Writer, page model.UserPage) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(userHeaders); err != nil {
		return err
	}
	for _, u := range page.Users {
		if err := cw.Write(userRow(u)); err != nil {
			return err
		}
	}
	return nil
}
