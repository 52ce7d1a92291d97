package entities

import "github.com/volatiletech/null/v8"

// Theme represents the UI theme preference
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultAppName is used until an admin sets branding.
const DefaultAppName = "সাথী ভাই উদ্যোক্তা"

// Settings holds branding and device-level flags
type Settings struct {
	AppName              string      `json:"appName"`
	AppLogo              null.String `json:"appLogo,omitempty"`
	Theme                Theme       `json:"theme"`
	PermissionsRequested bool        `json:"permissionsRequested"`
}

// BrandingInput represents input for updating branding
type BrandingInput struct {
	AppName string  `json:"appName"`
	AppLogo *string `json:"appLogo"`
}
