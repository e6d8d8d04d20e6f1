// Package model defines the wire types shared between the API client and
// the presentation layer.
package model

// User is an IAM user row as the backend returns it.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Status    string `json:"status"` // active, pending, disabled
	MFA       bool   `json:"mfa_enabled"`
	CreatedAt int64  `json:"created_at"` // Unix milliseconds
	LastLogin int64  `json:"last_login,omitempty"`
}

// FullName joins the name parts, tolerating either being empty.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// UserPage is one page of the IAM user table.
type UserPage struct {
	Users   []User `json:"users"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

// UserInput carries the mutable fields for user create and update calls.
type UserInput struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Profile is the signed-in user's own account view.
type Profile struct {
	User
	Phone    string `json:"phone,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// ProfileInput carries the fields a user may change on their own profile.
type ProfileInput struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
}

// MFASetup is the server's response to starting MFA enrolment: the shared
// secret and the otpauth URI an authenticator app consumes.
type MFASetup struct {
	Secret     string `json:"secret"`
	OTPAuthURI string `json:"otpauth_uri"`
}

// DashboardPoint is one day of the dashboard chart series.
type DashboardPoint struct {
	Date    int64 `json:"date"` // Unix milliseconds, day bucket
	SignIns int   `json:"sign_ins"`
}

// DashboardStats backs the dashboard view: headline totals plus the
// per-day sign-in series the charts draw.
type DashboardStats struct {
	TotalUsers    int              `json:"total_users"`
	ActiveUsers   int              `json:"active_users"`
	PendingUsers  int              `json:"pending_users"`
	MFAEnrolled   int              `json:"mfa_enrolled"`
	SignInsByDay  []DashboardPoint `json:"sign_ins_by_day"`
	FailedSignIns int              `json:"failed_sign_ins"`
}
