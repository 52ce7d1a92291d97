package usecases

import (
	"context"
	"strings"

	"udyokta.backend/internal/domain/entities"
)

const recentNoticeCount = 5

// ProjectSummary is one chart row of the dashboard
type ProjectSummary struct {
	ID            string  `json:"id"`
	ShortName     string  `json:"shortName"`
	CurrentAmount float64 `json:"currentAmount"`
	TotalProfit   float64 `json:"totalProfit"`
	CharityFund   float64 `json:"charityFund"`
	Progress      int     `json:"progress"`
}

// PoolSummary is a pool with derived progress
type PoolSummary struct {
	entities.Pool
	Progress  int     `json:"progress"`
	Remaining float64 `json:"remaining"`
}

// DashboardSummary aggregates the ledger and projects
type DashboardSummary struct {
	TotalInvestment float64             `json:"totalInvestment"`
	PendingAmount   float64             `json:"pendingAmount"`
	TotalProfit     float64             `json:"totalProfit"`
	CharityFund     float64             `json:"charityFund"`
	NetProfit       float64             `json:"netProfit"`
	Projects        []ProjectSummary    `json:"projects"`
	Pools           []PoolSummary       `json:"pools"`
	RecentNotices   []entities.Reminder `json:"recentNotices"`
}

// DashboardUsecase computes read-only aggregates
type DashboardUsecase struct {
	ws *Workspace
}

// NewDashboardUsecase creates a new dashboard usecase
func NewDashboardUsecase(ws *Workspace) *DashboardUsecase {
	return &DashboardUsecase{ws: ws}
}

// Summary computes the dashboard. Only approved investments count towards
// TotalInvestment; pending claims are reported separately.
func (u *DashboardUsecase) Summary(ctx context.Context, session *entities.Session) (*DashboardSummary, error) {
	var out *DashboardSummary
	var err error
	u.ws.Read(func(st *entities.AppState) {
		if _, err = resolveAccount(st, session); err != nil {
			return
		}
		out = summarize(st)
	})
	return out, err
}

// Pools lists the contribution pools with derived progress
func (u *DashboardUsecase) Pools(ctx context.Context) []PoolSummary {
	var out []PoolSummary
	u.ws.Read(func(st *entities.AppState) {
		out = poolSummaries(st.Pools)
	})
	return out
}

// Projects lists the projects
func (u *DashboardUsecase) Projects(ctx context.Context) []entities.Project {
	var out []entities.Project
	u.ws.Read(func(st *entities.AppState) {
		out = append([]entities.Project{}, st.Projects...)
	})
	return out
}

func summarize(st *entities.AppState) *DashboardSummary {
	s := &DashboardSummary{
		Projects: make([]ProjectSummary, 0, len(st.Projects)),
		Pools:    poolSummaries(st.Pools),
	}
	for _, inv := range st.Investments {
		switch inv.Status {
		case entities.InvestmentStatusApproved:
			s.TotalInvestment += inv.Amount
		case entities.InvestmentStatusPending:
			s.PendingAmount += inv.Amount
		}
	}
	for i := range st.Projects {
		p := &st.Projects[i]
		fund := p.CharityShare()
		s.TotalProfit += p.TotalProfit
		s.CharityFund += fund
		s.Projects = append(s.Projects, ProjectSummary{
			ID:            p.ID,
			ShortName:     strings.TrimSpace(strings.SplitN(p.Title, ":", 2)[0]),
			CurrentAmount: p.CurrentAmount,
			TotalProfit:   p.TotalProfit,
			CharityFund:   fund,
			Progress:      p.Progress,
		})
	}
	s.NetProfit = s.TotalProfit - s.CharityFund

	n := len(st.Reminders)
	if n > recentNoticeCount {
		n = recentNoticeCount
	}
	s.RecentNotices = append([]entities.Reminder{}, st.Reminders[:n]...)
	return s
}

func poolSummaries(pools []entities.Pool) []PoolSummary {
	out := make([]PoolSummary, 0, len(pools))
	for _, p := range pools {
		out = append(out, PoolSummary{Pool: p, Progress: p.Progress(), Remaining: p.Remaining()})
	}
	return out
}
