package session

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// terminalPrompt reads a password from the terminal without echo.
func terminalPrompt(username string) (string, error) {
	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(password), nil
}
