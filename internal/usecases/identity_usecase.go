package usecases

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
	"udyokta.backend/pkg/logger"
	"udyokta.backend/pkg/utils"
)

// SecretVerifier checks the shared system secret code
type SecretVerifier interface {
	Matches(code string) bool
}

// DefaultAvatarURL returns the placeholder avatar for an email.
func DefaultAvatarURL(email string) string {
	return "https://picsum.photos/seed/" + email + "/200"
}

// IdentityUsecase handles registration, login and self-service profile changes
type IdentityUsecase struct {
	ws     *Workspace
	secret SecretVerifier
}

// NewIdentityUsecase creates a new identity usecase
func NewIdentityUsecase(ws *Workspace, secret SecretVerifier) *IdentityUsecase {
	return &IdentityUsecase{ws: ws, secret: secret}
}

// Register creates an account with the requested role and signs the session into it
func (u *IdentityUsecase) Register(ctx context.Context, session *entities.Session, input *entities.RegisterInput) (*entities.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.Validation("name", "name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, domainerrors.Validation("email", "email is required")
	}
	role := input.Role
	if role == "" {
		role = entities.AccountRoleMember
	}
	if !role.Valid() {
		return nil, domainerrors.Validation("role", "unknown role")
	}

	var created entities.Account
	err := u.ws.Mutate(ctx, func(st *entities.AppState) ([]string, error) {
		if entities.FindAccountByEmail(st.Accounts, input.Email) >= 0 {
			return nil, domainerrors.DuplicateEmail()
		}
		switch role {
		case entities.AccountRoleSuperAdmin:
			if entities.CountRole(st.Accounts, role) >= entities.MaxSuperAdmins {
				return nil, domainerrors.RoleSlotFull("দুঃখিত! প্রধান অ্যাডমিন স্লট পূর্ণ।")
			}
		case entities.AccountRoleSubAdmin:
			if entities.CountRole(st.Accounts, role) >= entities.MaxSubAdmins {
				return nil, domainerrors.RoleSlotFull("সাব-অ্যাডমিন স্লট পূর্ণ।")
			}
		}
		if role != entities.AccountRoleMember && !u.secret.Matches(input.SecretCode) {
			return nil, domainerrors.InvalidSecretCode()
		}

		avatar := strings.TrimSpace(input.Avatar)
		if avatar == "" {
			avatar = DefaultAvatarURL(input.Email)
		}
		created = entities.Account{
			ID:     utils.NewID(),
			Name:   name,
			Email:  input.Email,
			Role:   role,
			Avatar: avatar,
		}
		st.Accounts = append(st.Accounts, created)
		return []string{entities.KeyAccounts}, nil
	})
	if err != nil {
		return nil, err
	}

	session.AccountID = created.ID
	u.ws.Read(func(st *entities.AppState) { observeUrgent(session, st.Reminders) })

	logger.Info(ctx, "Account registered", zap.String("account_id", created.ID), zap.String("role", string(created.Role)))
	return &created, nil
}

// Login signs the session into an existing account. Privileged accounts
// accept an empty secret code; a non-empty code must match.
func (u *IdentityUsecase) Login(ctx context.Context, session *entities.Session, input *entities.LoginInput) (*entities.Account, error) {
	var acc entities.Account
	var err error
	u.ws.Read(func(st *entities.AppState) {
		i := entities.FindAccountByEmail(st.Accounts, input.Email)
		if i < 0 {
			err = domainerrors.AccountNotFound()
			return
		}
		acc = st.Accounts[i]
		if acc.Role != entities.AccountRoleMember && input.SecretCode != "" && !u.secret.Matches(input.SecretCode) {
			err = domainerrors.InvalidSecretCode()
			return
		}
		session.AccountID = acc.ID
		observeUrgent(session, st.Reminders)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Account logged in", zap.String("account_id", acc.ID))
	return &acc, nil
}

// VerifyReset is the access-recovery gate. Privileged accounts must present
// the exact secret code; an empty code is rejected.
func (u *IdentityUsecase) VerifyReset(ctx context.Context, email, secretCode string) (*entities.Account, error) {
	var acc entities.Account
	var err error
	u.ws.Read(func(st *entities.AppState) {
		i := entities.FindAccountByEmail(st.Accounts, email)
		if i < 0 {
			err = domainerrors.AccountNotFound()
			return
		}
		acc = st.Accounts[i]
		if acc.Role != entities.AccountRoleMember && !u.secret.Matches(secretCode) {
			err = domainerrors.InvalidSecretCode()
		}
	})
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// Current re-resolves the session account
func (u *IdentityUsecase) Current(ctx context.Context, session *entities.Session) (*entities.Account, error) {
	var acc *entities.Account
	var err error
	u.ws.Read(func(st *entities.AppState) {
		acc, err = resolveAccount(st, session)
	})
	return acc, err
}

// UpdateProfile edits name, email or avatar of the given account. Role is never touched.
func (u *IdentityUsecase) UpdateProfile(ctx context.Context, session *entities.Session, accountID string, input *entities.ProfileUpdate) (*entities.Account, error) {
	var updated entities.Account
	err := u.ws.Mutate(ctx, func(st *entities.AppState) ([]string, error) {
		actor, err := resolveAccount(st, session)
		if err != nil {
			return nil, err
		}
		if actor.ID != accountID {
			return nil, domainerrors.Forbidden("only your own profile can be edited")
		}
		i := entities.FindAccount(st.Accounts, accountID)
		if i < 0 {
			return nil, domainerrors.NotFound("account not found")
		}
		acc := st.Accounts[i]

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return nil, domainerrors.Validation("name", "name is required")
			}
			acc.Name = name
		}
		if input.Email != nil {
			if strings.TrimSpace(*input.Email) == "" {
				return nil, domainerrors.Validation("email", "email is required")
			}
			if j := entities.FindAccountByEmail(st.Accounts, *input.Email); j >= 0 && j != i {
				return nil, domainerrors.DuplicateEmail()
			}
			acc.Email = *input.Email
		}
		if input.Avatar != nil {
			acc.Avatar = strings.TrimSpace(*input.Avatar)
		}

		st.Accounts[i] = acc
		updated = acc
		return []string{entities.KeyAccounts}, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Resign removes an account unconditionally. When it is the session's own
// account the session is signed out.
func (u *IdentityUsecase) Resign(ctx context.Context, session *entities.Session, accountID string) error {
	err := u.ws.Mutate(ctx, func(st *entities.AppState) ([]string, error) {
		i := entities.FindAccount(st.Accounts, accountID)
		if i < 0 {
			return nil, domainerrors.NotFound("account not found")
		}
		st.Accounts = append(st.Accounts[:i], st.Accounts[i+1:]...)
		return []string{entities.KeyAccounts}, nil
	})
	if err != nil {
		return err
	}

	if session.AccountID == accountID {
		session.Clear()
	}
	logger.Info(ctx, "Account resigned", zap.String("account_id", accountID))
	return nil
}

// Logout signs the session out
func (u *IdentityUsecase) Logout(ctx context.Context, session *entities.Session) {
	session.Clear()
}
