package usecases

import (
	"context"

	"go.uber.org/zap"
	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
	"udyokta.backend/pkg/logger"
	"udyokta.backend/pkg/metrics"
)

// RoleUsecase applies role transitions and admin account management
type RoleUsecase struct {
	ws *Workspace
}

// NewRoleUsecase creates a new role usecase
func NewRoleUsecase(ws *Workspace) *RoleUsecase {
	return &RoleUsecase{ws: ws}
}

// ChangeRole applies a role transition issued by the super admin and returns
// the updated account collection.
//
// Handing over SUPER_ADMIN demotes the acting account to MEMBER in the same
// write. SUB_ADMIN is capped at MaxSubAdmins. MEMBER always succeeds.
func (u *RoleUsecase) ChangeRole(ctx context.Context, session *entities.Session, cmd entities.ChangeRoleCommand) ([]entities.Account, error) {
	var accounts []entities.Account
	err := u.ws.Mutate(ctx, func(st *entities.AppState) ([]string, error) {
		actor, err := resolveAccount(st, session)
		if err != nil {
			return nil, err
		}
		if actor.Role != entities.AccountRoleSuperAdmin {
			return nil, domainerrors.Forbidden("only the super admin can change roles")
		}
		if actor.ID == cmd.TargetID {
			return nil, domainerrors.Forbidden("cannot change your own role")
		}
		target := entities.FindAccount(st.Accounts, cmd.TargetID)
		if target < 0 {
			return nil, domainerrors.NotFound("account not found")
		}
		if !cmd.NewRole.Valid() {
			return nil, domainerrors.Validation("newRole", "unknown role")
		}

		switch cmd.NewRole {
		case entities.AccountRoleSuperAdmin:
			for i := range st.Accounts {
				if st.Accounts[i].Role == entities.AccountRoleSuperAdmin {
					st.Accounts[i].Role = entities.AccountRoleMember
				}
			}
		case entities.AccountRoleSubAdmin:
			if st.Accounts[target].Role != entities.AccountRoleSubAdmin &&
				entities.CountRole(st.Accounts, entities.AccountRoleSubAdmin) >= entities.MaxSubAdmins {
				return nil, domainerrors.RoleSlotFull("সাব-অ্যাডমিন স্লট পূর্ণ।")
			}
		}
		st.Accounts[target].Role = cmd.NewRole

		accounts = append([]entities.Account(nil), st.Accounts...)
		return []string{entities.KeyAccounts}, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RoleChange(string(cmd.NewRole))
	logger.Info(ctx, "Role changed",
		zap.String("actor_id", session.AccountID),
		zap.String("target_id", cmd.TargetID),
		zap.String("role", string(cmd.NewRole)),
	)
	return accounts, nil
}

// RemoveAccount deletes another member's account. Super admin only.
func (u *RoleUsecase) RemoveAccount(ctx context.Context, session *entities.Session, targetID string) error {
	err := u.ws.Mutate(ctx, func(st *entities.AppState) ([]string, error) {
		actor, err := resolveAccount(st, session)
		if err != nil {
			return nil, err
		}
		if actor.Role != entities.AccountRoleSuperAdmin {
			return nil, domainerrors.Forbidden("only the super admin can remove accounts")
		}
		if actor.ID == targetID {
			return nil, domainerrors.Forbidden("use resign to remove your own account")
		}
		i := entities.FindAccount(st.Accounts, targetID)
		if i < 0 {
			return nil, domainerrors.NotFound("account not found")
		}
		st.Accounts = append(st.Accounts[:i], st.Accounts[i+1:]...)
		return []string{entities.KeyAccounts}, nil
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, "Account removed", zap.String("target_id", targetID))
	return nil
}

// ListAccounts returns every account. Admins only.
func (u *RoleUsecase) ListAccounts(ctx context.Context, session *entities.Session) ([]entities.Account, error) {
	var accounts []entities.Account
	var err error
	u.ws.Read(func(st *entities.AppState) {
		if _, err = requireAdmin(st, session); err != nil {
			return
		}
		accounts = append([]entities.Account{}, st.Accounts...)
	})
	return accounts, err
}
