package entities

// State store keys
const (
	KeyProjects             = "projects"
	KeyInvestments          = "investments"
	KeyReminders            = "reminders"
	KeyPools                = "pools"
	KeyAccounts             = "all_users"
	KeyAppName              = "appName"
	KeyAppLogo              = "appLogo"
	KeyTheme                = "theme"
	KeyPermissionsRequested = "permissions_requested"
)

// AllStateKeys lists every key the workspace reads on load.
var AllStateKeys = []string{
	KeyProjects,
	KeyInvestments,
	KeyReminders,
	KeyPools,
	KeyAccounts,
	KeyAppName,
	KeyAppLogo,
	KeyTheme,
	KeyPermissionsRequested,
}

// AppState is the full in-memory snapshot of the group's data.
// Collections are ordered most-recent-first where the order matters.
type AppState struct {
	Accounts    []Account
	Projects    []Project
	Investments []Investment
	Reminders   []Reminder
	Pools       []Pool
	Settings    Settings
}

// Clone returns a copy that shares no slice backing arrays with s.
func (s *AppState) Clone() *AppState {
	return &AppState{
		Accounts:    append([]Account(nil), s.Accounts...),
		Projects:    append([]Project(nil), s.Projects...),
		Investments: append([]Investment(nil), s.Investments...),
		Reminders:   append([]Reminder(nil), s.Reminders...),
		Pools:       append([]Pool(nil), s.Pools...),
		Settings:    s.Settings,
	}
}
