package usecases

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
	"udyokta.backend/pkg/logger"
	"udyokta.backend/pkg/metrics"
	"udyokta.backend/pkg/utils"
)

// NoticeUsecase handles notice broadcast and the urgent alert of each session
type NoticeUsecase struct {
	ws *Workspace
}

// NewNoticeUsecase creates a new notice usecase
func NewNoticeUsecase(ws *Workspace) *NoticeUsecase {
	return &NoticeUsecase{ws: ws}
}

// Broadcast prepends a notice. An urgent notice becomes the sender's active alert.
func (u *NoticeUsecase) Broadcast(ctx context.Context, session *entities.Session, input *entities.BroadcastInput) (*entities.Reminder, error) {
	title := strings.TrimSpace(input.Title)
	message := strings.TrimSpace(input.Message)
	category := input.Category
	if category == "" {
		category = entities.ReminderCategoryGeneral
	}

	var created entities.Reminder
	err := u.ws.Mutate(ctx, func(st *entities.AppState) ([]string, error) {
		actor, err := requireAdmin(st, session)
		if err != nil {
			return nil, err
		}
		if title == "" {
			return nil, domainerrors.Validation("title", "title is required")
		}
		if message == "" {
			return nil, domainerrors.Validation("message", "message is required")
		}
		if !category.Valid() {
			return nil, domainerrors.Validation("category", "unknown category")
		}

		created = entities.Reminder{
			ID:         utils.NewID(),
			Title:      title,
			Message:    message,
			Date:       now().UTC(),
			SenderName: actor.Name,
			Category:   category,
		}
		st.Reminders = append([]entities.Reminder{created}, st.Reminders...)
		return []string{entities.KeyReminders}, nil
	})
	if err != nil {
		return nil, err
	}

	if created.Category == entities.ReminderCategoryUrgent {
		session.SurfacedUrgentID = created.ID
		session.UrgentActive = true
	}

	metrics.NoticeBroadcast(string(created.Category))
	logger.Info(ctx, "Notice broadcast", zap.String("reminder_id", created.ID), zap.String("category", string(created.Category)))
	return &created, nil
}

// List returns every notice most-recent-first
func (u *NoticeUsecase) List(ctx context.Context) []entities.Reminder {
	var out []entities.Reminder
	u.ws.Read(func(st *entities.AppState) {
		out = append([]entities.Reminder{}, st.Reminders...)
	})
	return out
}

// ActiveUrgent returns the session's active urgent alert, surfacing a newer
// urgent notice first. Returns nil when nothing is active.
func (u *NoticeUsecase) ActiveUrgent(ctx context.Context, session *entities.Session) *entities.Reminder {
	var active *entities.Reminder
	u.ws.Read(func(st *entities.AppState) {
		observeUrgent(session, st.Reminders)
		if !session.UrgentActive {
			return
		}
		for i := range st.Reminders {
			if st.Reminders[i].ID == session.SurfacedUrgentID {
				r := st.Reminders[i]
				active = &r
				return
			}
		}
		session.UrgentActive = false
	})
	return active
}

// AcknowledgeUrgent dismisses the active alert of this session only
func (u *NoticeUsecase) AcknowledgeUrgent(ctx context.Context, session *entities.Session) {
	session.UrgentActive = false
}

// Reload re-reads the persisted state and forgets what the session surfaced,
// so the latest urgent notice becomes active again.
func (u *NoticeUsecase) Reload(ctx context.Context, session *entities.Session) (*entities.Reminder, error) {
	if err := u.ws.Load(ctx); err != nil {
		return nil, domainerrors.InternalError(err)
	}
	session.SurfacedUrgentID = ""
	session.UrgentActive = false
	return u.ActiveUrgent(ctx, session), nil
}
