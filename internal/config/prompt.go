package config

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// PasswordPrompt asks the operator for a password, printing label first.
type PasswordPrompt func(label string) (string, error)

// TerminalPrompt reads a password from the controlling terminal without echo.
func TerminalPrompt(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}

	return string(b), nil
}
