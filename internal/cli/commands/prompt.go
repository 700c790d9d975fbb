package commands

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"syscall"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// promptEmail asks for an email address on an interactive terminal
func promptEmail() (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("email is required in non-interactive mode (use --email flag or RENTALHUB_EMAIL env var)")
	}

	prompt := promptui.Prompt{
		Label: "Email",
		Validate: func(input string) error {
			if _, err := mail.ParseAddress(input); err != nil {
				return errors.New("invalid email address")
			}
			return nil
		},
	}

	email, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("login cancelled: %w", err)
	}
	return email, nil
}

// promptText asks for a required free-form value
func promptText(label string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("%s is required in non-interactive mode", label)
	}

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if input == "" {
				return fmt.Errorf("%s is required", label)
			}
			return nil
		},
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return value, nil
}

// readPassword reads a password without echo
func readPassword() (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or RENTALHUB_PASSWORD env var)")
	}

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

// credentialsFromEnv fills empty values from the environment (useful for CI)
func credentialsFromEnv(email, password string) (string, string) {
	if email == "" {
		email = os.Getenv("RENTALHUB_EMAIL")
	}
	if password == "" {
		password = os.Getenv("RENTALHUB_PASSWORD")
	}
	return email, password
}
