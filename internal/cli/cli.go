package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/buger/goterm"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

var (
	// Colors for different types of output
	userInputColor   = color.New(color.FgWhite)               // White for user input
	userCommandColor = color.New(color.FgGreen)               // Green for user commands
	botOutputColor   = color.New(color.FgCyan)                // Cyan for bot replies
	titleColor       = color.New(color.FgMagenta, color.Bold) // Bold magenta for titles
	separatorColor   = color.New(color.FgHiBlack)             // Dark grey for separators
	infoColor        = color.New(color.FgYellow)              // Yellow for status info
	promptColor      = color.New(color.FgHiBlue)              // Bright blue for prompts

	width = goterm.Width()
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
	separator1 := strings.Repeat("-", leftWidth)
	separator2 := strings.Repeat("-", width-len(title)-len(separator1))
	output := fmt.Sprintf("%s%s%s", separator1, title, separator2)
	titleColor.Println(output)
}

// UserInput printed to cli.
func UserInput(text string, args ...any) {
	userInputColor.Printf(text, args...)
}

// UserCommand printed to cli.
func UserCommand(text string, args ...any) {
	if len(args) == 0 {
		userCommandColor.Print(text)
		return
	}
	userCommandColor.Printf(text, args...)
}

// BotOutput printed to cli.
func BotOutput(text string, args ...any) {
	text = strings.ReplaceAll(text, "%", "%%")
	botOutputColor.Printf(text, args...)
}

// Info printed to cli.
func Info(text string, args ...any) {
	infoColor.Printf(text, args...)
}

// PromptUser for input.
func PromptUser() (string, error) {
	config := &readline.Config{
		Prompt:            promptColor.Sprint("> "),
		InterruptPrompt:   "^C",
		HistoryFile:       "/tmp/chatterbox.history",
		HistorySearchFold: true,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return "", err
	}
	defer rl.Close()
	return rl.Readline()
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

// QueryUserSecret prompts for a value that must not echo.
func QueryUserSecret(question string) (string, error) {
	surveyQuestion := &survey.Password{
		Message: question,
	}
	secret := ""
	err := survey.AskOne(surveyQuestion, &secret)
	return secret, err
}

// QueryUserInput prompts for a single line of input.
func QueryUserInput(question string) (string, error) {
	surveyQuestion := &survey.Input{
		Message: question,
	}
	input := ""
	err := survey.AskOne(surveyQuestion, &input)
	return input, err
}
