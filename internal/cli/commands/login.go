package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rentalhub/rentalhub/internal/gateway"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your rental store account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set RENTALHUB_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set RENTALHUB_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, email, password string, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}

	email, password = credentialsFromEnv(email, password)
	if email == "" {
		if email, err = promptEmail(); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = readPassword(); err != nil {
			return err
		}
	}

	fmt.Fprintf(o.out, "Signing in as %s...\n", email)

	result, err := o.client.Login(ctx, gateway.Credentials{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := o.session().SignIn(ctx, result.UserID.String()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Fprintln(o.out, "✓ Login successful!")
	fmt.Fprintf(o.out, "  User ID: %s\n", result.UserID)
	return nil
}

// NewSignupCmd creates the signup command
func NewSignupCmd() *cobra.Command {
	var req gateway.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a rental store account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address (or set RENTALHUB_EMAIL)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (or set RENTALHUB_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&req.Street1, "street", "", "Street address")
	cmd.Flags().StringVar(&req.City, "city", "", "City")
	cmd.Flags().StringVar(&req.State, "state", "", "State")
	cmd.Flags().StringVar(&req.Zip, "zip", "", "Postal code")
	cmd.Flags().StringVar(&req.Country, "country", "", "Country")
	cmd.Flags().StringVar(&req.PhoneNo, "phone", "", "Phone number")

	return cmd
}

func runSignup(ctx context.Context, req gateway.SignupRequest, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}

	req.Email, req.Password = credentialsFromEnv(req.Email, req.Password)
	if req.Name == "" {
		if req.Name, err = promptText("Name"); err != nil {
			return err
		}
	}
	if req.Email == "" {
		if req.Email, err = promptEmail(); err != nil {
			return err
		}
	}
	if req.Password == "" {
		if req.Password, err = readPassword(); err != nil {
			return err
		}
	}

	result, err := o.client.Signup(ctx, req)
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	if err := o.session().SignIn(ctx, result.UserID.String()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Fprintln(o.out, "✓ Account created, you are signed in")
	fmt.Fprintf(o.out, "  User ID: %s\n", result.UserID)
	return nil
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context())
		},
	}
}

func runLogout(ctx context.Context, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}

	if err := o.session().SignOut(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	fmt.Fprintln(o.out, "✓ Signed out")
	return nil
}
