package entities

// Session is one client's view of the workspace. It references its account
// by id only; the account is re-resolved on every read. Urgent-alert state
// lives here and is never persisted with the shared state.
type Session struct {
	ID               string `json:"id"`
	AccountID        string `json:"accountId,omitempty"`
	SurfacedUrgentID string `json:"surfacedUrgentId,omitempty"`
	UrgentActive     bool   `json:"urgentActive"`
}

// Authenticated reports whether the session references an account.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccountID != ""
}

// Clear drops the account reference.
func (s *Session) Clear() {
	s.AccountID = ""
}
