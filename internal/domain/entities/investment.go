package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// InvestmentStatus represents the lifecycle state of an investment claim
type InvestmentStatus string

const (
	InvestmentStatusPending  InvestmentStatus = "PENDING"
	InvestmentStatusApproved InvestmentStatus = "APPROVED"
	InvestmentStatusRejected InvestmentStatus = "REJECTED"
)

// Label returns the display string shown to members.
func (s InvestmentStatus) Label() string {
	switch s {
	case InvestmentStatusPending:
		return "অপেক্ষমান"
	case InvestmentStatusApproved:
		return "অনুমোদিত"
	case InvestmentStatusRejected:
		return "প্রত্যাখ্যাত"
	default:
		return string(s)
	}
}

// PeriodLayout is the month format of Investment.Month.
const PeriodLayout = "2006-01"

// MaxInvestmentAmount bounds a single claim so ledger and project sums stay finite.
const MaxInvestmentAmount = 1e12

// Investment is a member's claim that money was paid into a project.
// UserName and ProjectTitle are snapshots taken at submission time.
type Investment struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	UserName      string           `json:"userName"`
	ProjectID     string           `json:"projectId"`
	ProjectTitle  string           `json:"projectTitle"`
	Amount        float64          `json:"amount"`
	Date          time.Time        `json:"date"`
	ScreenshotURL string           `json:"screenshotUrl"`
	Status        InvestmentStatus `json:"status"`
	Month         string           `json:"month"`
	ResolvedAt    null.Time        `json:"resolvedAt,omitempty"`
	ResolvedBy    null.String      `json:"resolvedBy,omitempty"`
}

// IsPending reports whether the investment can still be approved or rejected.
func (i *Investment) IsPending() bool {
	return i.Status == InvestmentStatusPending
}

// SubmitInvestmentInput represents input for submitting an investment claim
type SubmitInvestmentInput struct {
	ProjectID     string  `json:"projectId"`
	Amount        float64 `json:"amount"`
	Month         string  `json:"month"`
	ScreenshotURL string  `json:"screenshotUrl"`
}

// InvestmentFilter narrows a ledger listing
type InvestmentFilter struct {
	Status    InvestmentStatus `form:"status"`
	ProjectID string           `form:"projectId"`
	Page      int              `form:"page"`
	Limit     int              `form:"limit"`
}

// FindInvestment returns the index of the investment with id, or -1.
func FindInvestment(items []Investment, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
