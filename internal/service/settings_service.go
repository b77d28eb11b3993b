package service

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// MaxLogoBytes bounds an uploaded logo data URI.
const MaxLogoBytes = 2 << 20

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// SettingsService owns the theme and custom logo.
type SettingsService struct {
	mu         sync.RWMutex
	theme      domain.ThemeConfig
	logo       string
	mirror     *Mirror
	dispatcher events.Dispatcher
	activity   *ActivityService
}

// NewSettingsService creates the service with the default theme.
func NewSettingsService(mirror *Mirror, dispatcher events.Dispatcher, activity *ActivityService) *SettingsService {
	return &SettingsService{
		theme:      domain.DefaultTheme(),
		mirror:     mirror,
		dispatcher: dispatcher,
		activity:   activity,
	}
}

// Restore loads theme and logo from the mirror.
func (s *SettingsService) Restore(ctx context.Context) {
	var theme domain.ThemeConfig
	var logo string
	hasTheme := s.mirror.Load(ctx, repository.KeyThemeConfig, &theme)
	hasLogo := s.mirror.Load(ctx, repository.KeyCustomLogo, &logo)

	s.mu.Lock()
	defer s.mu.Unlock()
	if hasTheme && validateTheme(theme) == nil {
		s.theme = theme
	}
	if hasLogo && validateLogo(logo) == nil {
		s.logo = logo
	}
}

// Theme returns the current theme.
func (s *SettingsService) Theme(_ context.Context) domain.ThemeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// UpdateTheme replaces the theme.
func (s *SettingsService) UpdateTheme(ctx context.Context, theme domain.ThemeConfig) (domain.ThemeConfig, error) {
	if err := validateTheme(theme); err != nil {
		return domain.ThemeConfig{}, err
	}
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()

	s.mirror.SaveLatest(ctx, repository.KeyThemeConfig, func() any { return s.Theme(ctx) })
	s.activity.Record(ctx, domain.ActionThemeUpdate, "Appearance", "Primary "+theme.PrimaryColor+", font "+theme.FontFamily)
	s.publishEvent(ctx, events.New(events.EventThemeChanged, "", theme))
	return theme, nil
}

// ResetTheme restores the default theme.
func (s *SettingsService) ResetTheme(ctx context.Context) domain.ThemeConfig {
	theme := domain.DefaultTheme()
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()

	s.mirror.Remove(ctx, repository.KeyThemeConfig)
	s.activity.Record(ctx, domain.ActionThemeUpdate, "Appearance", "Reset to default")
	s.publishEvent(ctx, events.New(events.EventThemeChanged, "", theme))
	return theme
}

// Logo returns the custom logo data URI, or "" when none is set.
func (s *SettingsService) Logo(_ context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logo
}

// SetLogo stores a data:image URI.
func (s *SettingsService) SetLogo(ctx context.Context, dataURI string) error {
	dataURI = strings.TrimSpace(dataURI)
	if err := validateLogo(dataURI); err != nil {
		return err
	}
	s.mu.Lock()
	s.logo = dataURI
	s.mu.Unlock()

	s.mirror.SaveLatest(ctx, repository.KeyCustomLogo, func() any { return s.Logo(ctx) })
	s.activity.Record(ctx, domain.ActionLogoUpdate, "Branding", "Custom logo uploaded")
	s.publishEvent(ctx, events.New(events.EventLogoChanged, "", nil))
	return nil
}

// RemoveLogo clears the custom logo.
func (s *SettingsService) RemoveLogo(ctx context.Context) {
	s.mu.Lock()
	s.logo = ""
	s.mu.Unlock()

	s.mirror.Remove(ctx, repository.KeyCustomLogo)
	s.activity.Record(ctx, domain.ActionLogoUpdate, "Branding", "Custom logo removed")
	s.publishEvent(ctx, events.New(events.EventLogoChanged, "", nil))
}

func validateTheme(theme domain.ThemeConfig) error {
	details := map[string]any{}
	for field, value := range map[string]string{
		"primaryColor": theme.PrimaryColor,
		"sidebarColor": theme.SidebarColor,
		"bgColor":      theme.BgColor,
	} {
		if !hexColor.MatchString(value) {
			details[field] = "must be a hex color"
		}
	}
	if strings.TrimSpace(theme.FontFamily) == "" {
		details["fontFamily"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid theme", details)
	}
	return nil
}

func validateLogo(dataURI string) error {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return apperrors.NewValidationError("logo must be a data:image URI", nil)
	}
	if len(dataURI) > MaxLogoBytes {
		return apperrors.NewValidationError("logo too large", map[string]any{"max_bytes": MaxLogoBytes})
	}
	return nil
}

func (s *SettingsService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
