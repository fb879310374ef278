// Package cli holds colored terminal output helpers and the interactive
// prompts used before the chat surface takes over the screen.
package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
)

var (
	// Colors for different types of output
	titleColor     = color.New(color.FgMagenta, color.Bold) // Bold magenta for titles
	separatorColor = color.New(color.FgHiBlack)             // Dark grey for separators
	infoColor      = color.New(color.FgCyan)                // Cyan for informational output
	warningColor   = color.New(color.FgYellow)              // Yellow for warnings
	errorColor     = color.New(color.FgRed)                 // Red for errors

	width = 80
)

// Separator printed to cli.
func Separator() {
	separator := strings.Repeat("-", width)
	separatorColor.Println(separator)
}

// Title printed to cli.
func Title(text string, args ...any) {
	title := "      " + fmt.Sprintf(text, args...) + "      "
	leftWidth := (width - len(title)) / 2
	if leftWidth < 0 {
		leftWidth = 0
	}
	separator1 := strings.Repeat("-", leftWidth)
	separator2 := strings.Repeat("-", max(width-len(title)-len(separator1), 0))
	output := fmt.Sprintf("%s%s%s", separator1, title, separator2)
	titleColor.Println(output)
}

// Info printed to cli.
func Info(text string, args ...any) {
	infoColor.Printf(text, args...)
}

// Warning printed to cli.
func Warning(text string, args ...any) {
	warningColor.Printf(text, args...)
}

// Error printed to cli.
func Error(text string, args ...any) {
	errorColor.Printf(text, args...)
}

// Credentials gathered from the user.
type Credentials struct {
	Email    string
	Password string
	Name     string
}

// PromptLogin asks for login credentials.
func PromptLogin() (*Credentials, error) {
	credentials := &Credentials{}
	questions := []*survey.Question{
		{
			Name:     "email",
			Prompt:   &survey.Input{Message: "Email:"},
			Validate: survey.Required,
		},
		{
			Name:     "password",
			Prompt:   &survey.Password{Message: "Password:"},
			Validate: survey.Required,
		},
	}
	if err := survey.Ask(questions, credentials); err != nil {
		return nil, err
	}
	return credentials, nil
}

// PromptRegister asks for registration details.
func PromptRegister() (*Credentials, error) {
	credentials := &Credentials{}
	questions := []*survey.Question{
		{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Display name:"},
			Validate: survey.Required,
		},
		{
			Name:     "email",
			Prompt:   &survey.Input{Message: "Email:"},
			Validate: survey.Required,
		},
		{
			Name:     "password",
			Prompt:   &survey.Password{Message: "Password:"},
			Validate: survey.MinLength(8),
		},
	}
	if err := survey.Ask(questions, credentials); err != nil {
		return nil, err
	}
	return credentials, nil
}

// QueryUser a yes/no question.
func QueryUser(question string) bool {
	surveyQuestion := &survey.Confirm{
		Message: question,
	}
	confirm := false
	survey.AskOne(surveyQuestion, &confirm)
	return confirm
}
