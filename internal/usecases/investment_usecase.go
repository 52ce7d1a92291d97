package usecases

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
	"udyokta.backend/pkg/logger"
	"udyokta.backend/pkg/metrics"
	"udyokta.backend/pkg/utils"
)

// InvestmentUsecase handles the investment ledger
type InvestmentUsecase struct {
	ws *Workspace
}

// NewInvestmentUsecase creates a new investment usecase
func NewInvestmentUsecase(ws *Workspace) *InvestmentUsecase {
	return &InvestmentUsecase{ws: ws}
}

// Submit records a pending investment claim for the session account
func (u *InvestmentUsecase) Submit(ctx context.Context, session *entities.Session, input *entities.SubmitInvestmentInput) (*entities.Investment, error) {
	var created entities.Investment
	err := u.ws.Mutate(ctx, func(st *entities.AppState) ([]string, error) {
		acc, err := resolveAccount(st, session)
		if err != nil {
			return nil, err
		}
		if !(input.Amount > 0) || math.IsInf(input.Amount, 1) {
			return nil, domainerrors.InvalidAmount()
		}
		if input.Amount > entities.MaxInvestmentAmount {
			return nil, domainerrors.Validation("amount", "amount exceeds the allowed maximum")
		}
		pi := entities.FindProject(st.Projects, input.ProjectID)
		if input.ProjectID == "" || pi < 0 {
			return nil, domainerrors.ProjectRequired()
		}
		month := strings.TrimSpace(input.Month)
		if month == "" {
			return nil, domainerrors.PeriodRequired()
		}
		if _, err := time.Parse(entities.PeriodLayout, month); err != nil {
			return nil, domainerrors.Validation("month", "month must be in YYYY-MM format")
		}

		created = entities.Investment{
			ID:            utils.NewID(),
			UserID:        acc.ID,
			UserName:      acc.Name,
			ProjectID:     st.Projects[pi].ID,
			ProjectTitle:  st.Projects[pi].Title,
			Amount:        input.Amount,
			Date:          now().UTC(),
			ScreenshotURL: input.ScreenshotURL,
			Status:        entities.InvestmentStatusPending,
			Month:         month,
		}
		st.Investments = append([]entities.Investment{created}, st.Investments...)
		return []string{entities.KeyInvestments}, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.InvestmentTransition(string(entities.InvestmentStatusPending))
	logger.Info(ctx, "Investment submitted",
		zap.String("investment_id", created.ID),
		zap.String("project_id", created.ProjectID),
		zap.Float64("amount", created.Amount),
	)
	return &created, nil
}

// Approve marks a pending investment approved and credits its project. The
// project and the ledger are persisted in one write, project first.
func (u *InvestmentUsecase) Approve(ctx context.Context, session *entities.Session, id string) (*entities.Investment, *entities.Project, error) {
	var inv entities.Investment
	var project entities.Project
	err := u.ws.Mutate(ctx, func(st *entities.AppState) ([]string, error) {
		i, actor, err := u.pending(st, session, id)
		if err != nil {
			return nil, err
		}
		pi := entities.FindProject(st.Projects, st.Investments[i].ProjectID)
		if pi < 0 {
			return nil, domainerrors.NotFound("project not found")
		}
		if !st.Projects[pi].CanCredit(st.Investments[i].Amount) {
			return nil, domainerrors.Validation("amount", "approval would overflow the project total")
		}

		resolve(&st.Investments[i], entities.InvestmentStatusApproved, actor.ID)
		st.Projects[pi].ApplyApproved(st.Investments[i].Amount)

		inv = st.Investments[i]
		project = st.Projects[pi]
		return []string{entities.KeyProjects, entities.KeyInvestments}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.InvestmentTransition(string(entities.InvestmentStatusApproved))
	logger.Info(ctx, "Investment approved",
		zap.String("investment_id", inv.ID),
		zap.String("project_id", project.ID),
		zap.Int("progress", project.Progress),
	)
	return &inv, &project, nil
}

// Reject marks a pending investment rejected. Projects are not touched.
func (u *InvestmentUsecase) Reject(ctx context.Context, session *entities.Session, id string) (*entities.Investment, error) {
	var inv entities.Investment
	err := u.ws.Mutate(ctx, func(st *entities.AppState) ([]string, error) {
		i, actor, err := u.pending(st, session, id)
		if err != nil {
			return nil, err
		}
		resolve(&st.Investments[i], entities.InvestmentStatusRejected, actor.ID)
		inv = st.Investments[i]
		return []string{entities.KeyInvestments}, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.InvestmentTransition(string(entities.InvestmentStatusRejected))
	logger.Info(ctx, "Investment rejected", zap.String("investment_id", inv.ID))
	return &inv, nil
}

func (u *InvestmentUsecase) pending(st *entities.AppState, session *entities.Session, id string) (int, *entities.Account, error) {
	actor, err := requireAdmin(st, session)
	if err != nil {
		return -1, nil, err
	}
	i := entities.FindInvestment(st.Investments, id)
	if i < 0 {
		return -1, nil, domainerrors.NotFound("investment not found")
	}
	if !st.Investments[i].IsPending() {
		return -1, nil, domainerrors.AlreadyResolved("investment is already " + st.Investments[i].Status.Label())
	}
	return i, actor, nil
}

func resolve(inv *entities.Investment, status entities.InvestmentStatus, by string) {
	inv.Status = status
	inv.ResolvedAt = null.TimeFrom(now().UTC())
	inv.ResolvedBy = null.StringFrom(by)
}

// List returns the ledger most-recent-first. Members only see their own
// investments; admins see all.
func (u *InvestmentUsecase) List(ctx context.Context, session *entities.Session, filter *entities.InvestmentFilter) ([]entities.Investment, utils.PaginationMeta, error) {
	var items []entities.Investment
	var err error
	u.ws.Read(func(st *entities.AppState) {
		var acc *entities.Account
		acc, err = resolveAccount(st, session)
		if err != nil {
			return
		}
		items = make([]entities.Investment, 0, len(st.Investments))
		for _, inv := range st.Investments {
			if !acc.Role.IsAdmin() && inv.UserID != acc.ID {
				continue
			}
			if filter.Status != "" && inv.Status != filter.Status {
				continue
			}
			if filter.ProjectID != "" && inv.ProjectID != filter.ProjectID {
				continue
			}
			items = append(items, inv)
		}
	})
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}

	page, meta := utils.Paginate(items, utils.NewPageRequest(filter.Page, filter.Limit))
	return page, meta, nil
}
