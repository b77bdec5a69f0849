package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/prepio/prepio-cli/internal/client/api"
	"github.com/prepio/prepio-cli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a name, email and password and creates a new
// account. A successful signup also logs the user in, the returned token is
// persisted before this method returns.
//
// The password byte slice is securely wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter your name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Signup(ctx, name, email, password); err != nil {
		if errors.Is(err, api.ErrConflict) {
			printlnFn("An account with that email already exists.")
			return err
		}
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	printlnFn("Success!")
	return nil
}

// Login prompts for credentials and authenticates against the server. On
// success the session token is persisted locally so the next start of the
// program resumes the session without a new login.
//
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, password); err != nil {
		switch {
		case errors.Is(err, api.ErrUnauthorized):
			printlnFn("Invalid email or password.")
		case errors.Is(err, api.ErrUnavailable):
			printlnFn("Server unavailable, try again later.")
			a.setMode(ModeOffline)
		default:
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	a.setMode(ModeOnline)
	log.Printf("Login successful")
	return nil
}

// WhoAmI shows the server-confirmed identity for the current session.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.requireAuth(ctx) {
		return nil
	}

	v := a.session.Refresh(ctx)
	if v.Err != nil {
		log.Printf("Could not verify identity: %s", v.Err.Error())
		return v.Err
	}
	if v.User == nil {
		printlnFn("Please login first.")
		return nil
	}

	printlnFn(fmt.Sprintf("%s <%s>", v.User.Name, v.User.Email))
	return nil
}

// Logout clears the persisted session token. Safe to call when already
// logged out.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out.")
	return nil
}
