package entities

import "math"

// ProjectStatus represents project status
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusPending   ProjectStatus = "PENDING"
)

// DefaultDeductionPercent is the share of profit set aside for charitable work.
const DefaultDeductionPercent = 10

// Project is a group investment target
type Project struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	TargetAmount     float64       `json:"targetAmount"`
	CurrentAmount    float64       `json:"currentAmount"`
	StartDate        string        `json:"startDate"`
	Duration         string        `json:"duration"`
	Progress         int           `json:"progress"`
	Status           ProjectStatus `json:"status"`
	TotalProfit      float64       `json:"totalProfit"`
	DeductionPercent float64       `json:"deductionPercent"`
}

// CanCredit reports whether amount can be added without leaving the finite range.
func (p *Project) CanCredit(amount float64) bool {
	return !math.IsInf(p.CurrentAmount+amount, 0) && !math.IsNaN(p.CurrentAmount+amount)
}

// ApplyApproved credits an approved investment amount and recomputes progress.
func (p *Project) ApplyApproved(amount float64) {
	p.CurrentAmount += amount
	p.Progress = ProgressPercent(p.CurrentAmount, p.TargetAmount)
}

// CharityShare is the part of TotalProfit earmarked by DeductionPercent.
func (p *Project) CharityShare() float64 {
	return p.TotalProfit * p.DeductionPercent / 100
}

// ProgressPercent is floor(min(100, current*100/target)), clamped to [0,100].
// A zero target reads as 100 once anything has been collected.
func ProgressPercent(current, target float64) int {
	if target <= 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	pct := math.Floor(math.Min(100, current*100/target))
	if pct < 0 {
		return 0
	}
	return int(pct)
}

// FindProject returns the index of the project with id, or -1.
func FindProject(projects []Project, id string) int {
	for i := range projects {
		if projects[i].ID == id {
			return i
		}
	}
	return -1
}

// DefaultProjects seeds an empty store.
func DefaultProjects() []Project {
	return []Project{
		{
			ID:               "1",
			Title:            "প্রকল্প ১: হাউজিং এস্টেট",
			Description:      "সাশ্রয়ী মূল্যের আবাসন প্রকল্প।",
			TargetAmount:     500000,
			CurrentAmount:    320000,
			StartDate:        "২০২৪-০১-০১",
			Duration:         "১২ মাস",
			Progress:         64,
			Status:           ProjectStatusActive,
			TotalProfit:      45000,
			DeductionPercent: DefaultDeductionPercent,
		},
		{
			ID:               "2",
			Title:            "প্রকল্প ২: সুপারশপ চেইন",
			Description:      "হালাল পণ্যের সুপারশপ চেইন।",
			TargetAmount:     200000,
			CurrentAmount:    150000,
			StartDate:        "২০২৪-০৩-১৫",
			Duration:         "৬ মাস",
			Progress:         75,
			Status:           ProjectStatusActive,
			TotalProfit:      20000,
			DeductionPercent: DefaultDeductionPercent,
		},
	}
}
