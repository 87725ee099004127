package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/modu-ai/settingsgen/pkg/models"
)

var (
	// ErrHeadless is returned when the wizard is started without a terminal.
	ErrHeadless = errors.New("ui: interactive wizard requires a terminal")

	// ErrCancelled is returned when the user aborts the wizard.
	ErrCancelled = errors.New("ui: wizard cancelled")
)

// ConfigAnswers holds the project settings collected by the config wizard.
type ConfigAnswers struct {
	Name         string
	Type         models.AppType
	Docroot      string
	DatabaseType models.DatabaseType
}

// ConfigWizard asks for the project settings settingsgen needs.
type ConfigWizard struct {
	theme        *Theme
	headless     *HeadlessManager
	validateName func(string) error
}

// NewConfigWizard creates a wizard. validateName, when set, checks the
// project name as it is typed.
func NewConfigWizard(theme *Theme, hm *HeadlessManager, validateName func(string) error) *ConfigWizard {
	return &ConfigWizard{theme: theme, headless: hm, validateName: validateName}
}

// Run asks each question in turn, starting from initial. Each question runs
// as its own form so a long option list never scrolls earlier answers away.
func (w *ConfigWizard) Run(ctx context.Context, initial ConfigAnswers) (*ConfigAnswers, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w.headless.IsHeadless() {
		return nil, ErrHeadless
	}

	answers := initial
	if answers.Type == "" {
		answers.Type = models.AppTypeDrupal
	}
	if answers.DatabaseType == "" {
		answers.DatabaseType = models.DatabaseMariaDB
	}

	theme := newWizardTheme(w.theme)
	for _, field := range w.fields(&answers) {
		form := huh.NewForm(huh.NewGroup(field)).
			WithTheme(theme).
			WithAccessible(false)
		if err := form.RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("wizard: %w", err)
		}
	}
	answers.Name = strings.TrimSpace(answers.Name)
	answers.Docroot = strings.TrimSpace(answers.Docroot)
	return &answers, nil
}

func (w *ConfigWizard) fields(a *ConfigAnswers) []huh.Field {
	name := huh.NewInput().
		Title("Project name").
		Description("Used for the site URL and to derive hash salts.").
		Placeholder("my-site").
		Value(&a.Name).
		Validate(func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				return errors.New("project name is required")
			}
			if w.validateName != nil {
				return w.validateName(s)
			}
			return nil
		})

	appOpts := make([]huh.Option[models.AppType], 0, len(models.AppTypes()))
	for _, t := range models.AppTypes() {
		label := string(t)
		if f := t.SettingsFile(); f != "" {
			label += " - " + f
		}
		appOpts = append(appOpts, huh.NewOption(label, t))
	}
	appType := huh.NewSelect[models.AppType]().
		Title("Project type").
		Options(appOpts...).
		Value(&a.Type)

	docroot := huh.NewInput().
		Title("Docroot").
		Description("Relative to the project root. Leave empty for the root itself.").
		Placeholder("web").
		Value(&a.Docroot).
		Validate(func(s string) error {
			s = strings.TrimSpace(s)
			if strings.HasPrefix(s, "/") || strings.Contains(s, "..") {
				return errors.New("docroot must be a relative path inside the project")
			}
			return nil
		})

	dbOpts := make([]huh.Option[models.DatabaseType], 0, len(models.DatabaseTypes()))
	for _, t := range models.DatabaseTypes() {
		dbOpts = append(dbOpts, huh.NewOption(string(t), t))
	}
	dbType := huh.NewSelect[models.DatabaseType]().
		Title("Database").
		Options(dbOpts...).
		Value(&a.DatabaseType)

	return []huh.Field{name, appType, docroot, dbType}
}

// newWizardTheme maps the palette onto a huh theme.
func newWizardTheme(theme *Theme) *huh.Theme {
	t := huh.ThemeBase()
	if theme.NoColor {
		return t
	}

	primary := lipgloss.Color(theme.Colors.Primary)
	secondary := lipgloss.Color(theme.Colors.Secondary)
	green := lipgloss.Color(theme.Colors.Success)
	red := lipgloss.Color(theme.Colors.Error)
	muted := lipgloss.Color(theme.Colors.Muted)
	border := lipgloss.Color(theme.Colors.Border)

	t.Focused.Base = t.Focused.Base.BorderForeground(border)
	t.Focused.Card = t.Focused.Base
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(red)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(red)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(primary).SetString("▸ ")
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(green)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(primary)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(muted)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(secondary)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Card = t.Blurred.Base

	return t
}
