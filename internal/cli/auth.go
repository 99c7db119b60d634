package cli

import (
	"context"
	"errors"
	"fmt"

	"smart-poll/poll-cli/internal"
)

// credentialsInput mirrors the sign-in form rules: logins are word
// characters with at least 5, passwords at least 6.
type credentialsInput struct {
	Login    string `validate:"required,min=5,login_rules"`
	Password string `validate:"required,min=6"`
}

func (a *App) readCredentials() (credentialsInput, error) {
	login, err := a.prompt("login: ")
	if err != nil {
		return credentialsInput{}, err
	}
	password, err := a.prompt("password: ")
	if err != nil {
		return credentialsInput{}, err
	}

	input := credentialsInput{Login: login, Password: password}
	if err := internal.ValidateStruct(a.validate, input); err != nil {
		return credentialsInput{}, fmt.Errorf("login must be at least 5 word characters and password at least 6 characters")
	}
	return input, nil
}

func (a *App) runLogin(ctx context.Context) error {
	input, err := a.readCredentials()
	if err != nil {
		return err
	}

	if err := a.sessions.Login(ctx, input.Login, input.Password); err != nil {
		if errors.Is(err, internal.ErrInvalidCredentials) {
			return fmt.Errorf("invalid login or password")
		}
		return err
	}

	fmt.Fprintf(a.out, "signed in as %s\n", input.Login)
	return nil
}

func (a *App) runRegister(ctx context.Context) error {
	input, err := a.readCredentials()
	if err != nil {
		return err
	}

	if err := a.sessions.Register(ctx, input.Login, input.Password); err != nil {
		if errors.Is(err, internal.ErrLoginConflict) {
			return fmt.Errorf("login %q is already in use, pick another one", input.Login)
		}
		return err
	}

	fmt.Fprintf(a.out, "registered as %s; your polls and answers stay with this account\n", input.Login)
	return nil
}

func (a *App) runLogout() error {
	if err := a.sessions.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func (a *App) runWhoami(ctx context.Context) error {
	identity, err := a.sessions.Identity(ctx)
	if err != nil {
		return err
	}

	switch {
	case identity.Registered:
		fmt.Fprintf(a.out, "signed in as %s", identity.Login)
	default:
		fmt.Fprint(a.out, "anonymous session")
	}
	if identity.IsAdmin() {
		fmt.Fprint(a.out, " (admin)")
	}
	fmt.Fprintln(a.out)
	return nil
}
