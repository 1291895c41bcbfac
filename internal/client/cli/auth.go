package cli

import (
	"context"
	"errors"
	"fmt"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errLoggedIn = errors.New("already logged in, logout first")

type authFunc func(ctx context.Context, email, password string) (string, error)

func (a *App) Register(ctx context.Context, args []string) error {
	return a.authenticate(ctx, args, a.api.Register)
}

func (a *App) Login(ctx context.Context, args []string) error {
	return a.authenticate(ctx, args, a.api.Login)
}

// authenticate takes the email from args or prompts for it, then reads the
// password from the terminal. The password bytes are wiped afterwards.
func (a *App) authenticate(ctx context.Context, args []string, call authFunc) error {
	if a.isLoggedIn() {
		return errLoggedIn
	}

	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	stored, err := call(ctx, email, string(password))
	if err != nil {
		return err
	}

	a.email = stored
	fmt.Fprintf(a.out, "Logged in as %s\n", stored)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
