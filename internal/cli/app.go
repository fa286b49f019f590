package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"travel-tracker/internal/api"
	"travel-tracker/internal/config"
)

// App holds what every command handler needs
type App struct {
	businessAPI  api.BusinessAPI
	config       *config.Config
	errorHandler *ErrorHandler
	in           *bufio.Reader
	out          io.Writer
}

// NewApp creates a CLI application reading stdin and writing stdout
func NewApp(businessAPI api.BusinessAPI, cfg *config.Config) *App {
	return NewAppWithIO(businessAPI, cfg, os.Stdin, os.Stdout)
}

// NewAppWithIO creates a CLI application over the given streams
func NewAppWithIO(businessAPI api.BusinessAPI, cfg *config.Config, in io.Reader, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{
		businessAPI:  businessAPI,
		config:       cfg,
		errorHandler: NewErrorHandler(),
		in:           bufio.NewReader(in),
		out:          out,
	}
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...interface{}) {
	fmt.Fprintln(a.out, args...)
}

// readLine returns the next input line without its line ending. io.EOF is
// returned only when no text was read.
func (a *App) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}

// prompt shows label and reads one line
func (a *App) prompt(label string) (string, error) {
	a.printf("%s", label)
	return a.readLine()
}

// promptDefault keeps current when the answer is blank
func (a *App) promptDefault(label, current string) (string, error) {
	if current != "" {
		label = fmt.Sprintf("%s [%s]", label, current)
	}
	answer, err := a.prompt(label + ": ")
	if err != nil {
		return current, err
	}
	if strings.TrimSpace(answer) == "" {
		return current, nil
	}
	return strings.TrimSpace(answer), nil
}

// confirm asks a yes/no question that defaults to no
func (a *App) confirm(question string) (bool, error) {
	answer, err := a.prompt(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
