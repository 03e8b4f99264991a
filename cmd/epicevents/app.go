package main

import (
	"context"
	"errors"
	"fmt"

	"epicevents.org/internal/audit"
	"epicevents.org/internal/auth"
	"epicevents.org/internal/cli"
	"epicevents.org/internal/command"
	"epicevents.org/internal/store"
)

// App wires the interactive session: token resolution, menus and the
// command engine.
type App struct {
	store   store.Store
	auth    *auth.Service
	engine  *command.Engine
	console *cli.Console
	audit   *audit.Recorder
}

func (a *App) Close() {
	a.store.Close()
}

var menuEntities = map[int]string{
	1: "employee",
	2: "client",
	3: "contract",
	4: "event",
}

const (
	choiceQuit   = 5
	choiceLogout = 6
)

// Run drives the program: authenticate, then loop between the start
// menu and the entity menus until the user quits.
func (a *App) Run(ctx context.Context) error {
	for {
		user, err := a.resolveOrLogin(ctx)
		if err != nil {
			return err
		}
		if user == nil {
			return nil
		}

		quit, err := a.startMenu(ctx, user)
		if err != nil || quit {
			return err
		}
	}
}

// resolveOrLogin resolves the persisted token, falling back to the
// interactive login. A nil user without error means the user gave up.
func (a *App) resolveOrLogin(ctx context.Context) (*store.Employee, error) {
	user, err := a.auth.ResolveUser(ctx)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, store.ErrNotFound) {
		user, err = a.auth.Login(ctx, a.console)
		if errors.Is(err, cli.ErrAborted) || errors.Is(err, auth.ErrTooManyAttempts) {
			return nil, nil
		}
		return user, err
	}
	return nil, err
}

// startMenu loops on the main menu. It reports quit=true when the user
// picked the quit entry; logout falls back to the caller's login loop.
func (a *App) startMenu(ctx context.Context, user *store.Employee) (quit bool, err error) {
	for {
		choice, err := a.console.StartMenu("Epic Events")
		if err != nil {
			return true, nil
		}
		switch {
		case choice == choiceQuit:
			return true, nil
		case choice == choiceLogout:
			if err := a.auth.Logout(); err != nil {
				return true, fmt.Errorf("logout: %w", err)
			}
			a.console.InfoMessage("logging out...")
			return false, nil
		default:
			entity, ok := menuEntities[choice]
			if !ok {
				continue
			}
			quit, err := a.entityMenu(ctx, user, entity)
			if err != nil || quit {
				return quit, err
			}
		}
	}
}

// entityMenu loops on one entity's menu, running the selected command
// and honoring its returned route.
func (a *App) entityMenu(ctx context.Context, user *store.Employee, entity string) (quit bool, err error) {
	options := cli.MenuForRole(user.Role, entity)
	if len(options) == 0 {
		a.console.PermissionDeniedMessage()
		return false, nil
	}

	for {
		choice, err := a.console.EntityMenu(entity, options)
		if err != nil {
			return true, nil
		}
		if choice < 1 || choice > len(options) {
			continue
		}
		option := options[choice-1]
		if option.Action == "" {
			return false, nil
		}

		route := a.runCommand(ctx, user, entity+"_"+option.Action)
		switch route {
		case command.RouteStart:
			return false, nil
		case command.RouteQuit:
			return true, nil
		}
		// RouteMenu: redisplay this menu.
	}
}

// runCommand executes one command, re-running it from scratch when it
// signals a retry (for example after a uniqueness conflict).
func (a *App) runCommand(ctx context.Context, user *store.Employee, name string) command.Route {
	for {
		rt := &command.Runtime{
			Ctx:     auth.ContextWithUser(ctx, user),
			User:    user,
			Store:   a.store,
			Console: a.console,
			Audit:   a.audit,
		}
		route, err := a.engine.Run(name, rt)
		if err != nil {
			a.console.ErrorMessage(err.Error())
			return command.RouteMenu
		}
		if route == command.RouteRetry {
			continue
		}
		return route
	}
}

// CreateEmployee prompts for one account and stores it. Used to
// bootstrap the system before anyone can log in.
func (a *App) CreateEmployee(ctx context.Context) error {
	a.console.DisplayInputTitle("Enter details to create an employee:")

	email, err := a.console.EmailInput("Email address", true)
	if err != nil {
		return err
	}
	password, err := a.console.PasswordInput("Password", true)
	if err != nil {
		return err
	}
	firstName, err := a.console.TextInput("First name", true)
	if err != nil {
		return err
	}
	lastName, err := a.console.TextInput("Last name", true)
	if err != nil {
		return err
	}
	role, err := a.console.ChoiceStrInput(
		[]string{"SA", "SU", "MA"}, "Role [SA]les, [SU]pport, [MA]nagement", true)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	employee := &store.Employee{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         store.Role(role),
	}
	if err := a.store.Employees().Create(ctx, employee); err != nil {
		if errors.Is(err, store.ErrConflict) {
			a.console.ExistsMessage("Email")
			return nil
		}
		return err
	}
	a.console.SuccessMessage("Employee", "created")
	return nil
}
