package usecases

import (
	"context"
	"strings"

	"github.com/volatiletech/null/v8"
	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
)

// SettingsUsecase handles branding and device settings
type SettingsUsecase struct {
	ws *Workspace
}

// NewSettingsUsecase creates a new settings usecase
func NewSettingsUsecase(ws *Workspace) *SettingsUsecase {
	return &SettingsUsecase{ws: ws}
}

// Get returns the current settings
func (u *SettingsUsecase) Get(ctx context.Context) entities.Settings {
	var s entities.Settings
	u.ws.Read(func(st *entities.AppState) { s = st.Settings })
	return s
}

// UpdateBranding sets the app name and, when given, the logo. Admins only.
func (u *SettingsUsecase) UpdateBranding(ctx context.Context, session *entities.Session, input *entities.BrandingInput) (*entities.Settings, error) {
	name := strings.TrimSpace(input.AppName)
	if name == "" {
		return nil, domainerrors.Validation("appName", "app name is required")
	}

	var out entities.Settings
	err := u.ws.Mutate(ctx, func(st *entities.AppState) ([]string, error) {
		if _, err := requireAdmin(st, session); err != nil {
			return nil, err
		}
		keys := []string{entities.KeyAppName}
		st.Settings.AppName = name
		if input.AppLogo != nil {
			if logo := strings.TrimSpace(*input.AppLogo); logo != "" {
				st.Settings.AppLogo = null.StringFrom(logo)
			} else {
				st.Settings.AppLogo = null.String{}
			}
			keys = append(keys, entities.KeyAppLogo)
		}
		out = st.Settings
		return keys, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetLogo removes the custom logo. Admins only.
func (u *SettingsUsecase) ResetLogo(ctx context.Context, session *entities.Session) (*entities.Settings, error) {
	var out entities.Settings
	err := u.ws.Mutate(ctx, func(st *entities.AppState) ([]string, error) {
		if _, err := requireAdmin(st, session); err != nil {
			return nil, err
		}
		st.Settings.AppLogo = null.String{}
		out = st.Settings
		return []string{entities.KeyAppLogo}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetTheme stores the theme preference
func (u *SettingsUsecase) SetTheme(ctx context.Context, theme entities.Theme) (*entities.Settings, error) {
	if theme != entities.ThemeDark && theme != entities.ThemeLight {
		return nil, domainerrors.Validation("theme", "theme must be dark or light")
	}
	var out entities.Settings
	err := u.ws.Mutate(ctx, func(st *entities.AppState) ([]string, error) {
		st.Settings.Theme = theme
		out = st.Settings
		return []string{entities.KeyTheme}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkPermissionsRequested records that the device permission prompt was shown
func (u *SettingsUsecase) MarkPermissionsRequested(ctx context.Context) (*entities.Settings, error) {
	var out entities.Settings
	err := u.ws.Mutate(ctx, func(st *entities.AppState) ([]string, error) {
		if st.Settings.PermissionsRequested {
			out = st.Settings
			return nil, nil
		}
		st.Settings.PermissionsRequested = true
		out = st.Settings
		return []string{entities.KeyPermissionsRequested}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
