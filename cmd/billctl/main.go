package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/facturapp/billing-system/internal/client/guard"
	"github.com/facturapp/billing-system/internal/client/privilege"
	"github.com/facturapp/billing-system/internal/client/session"
	"github.com/facturapp/billing-system/internal/client/token"
	"github.com/facturapp/billing-system/internal/client/transport"
	"github.com/facturapp/billing-system/internal/core/domain"
	"github.com/facturapp/billing-system/internal/infrastructure/config"
	"github.com/facturapp/billing-system/pkg/logger"
)

// billctl drives the billing console from the terminal. It exercises the same
// session store, privilege cache, and guards the console UI is built on.
func main() {
	cfg := config.LoadConsole()
	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command, args := os.Args[1], os.Args[2:]

	sessionFile := cfg.SessionFile
	if sessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: resolve home dir: %v\n", err)
			os.Exit(1)
		}
		sessionFile = filepath.Join(home, ".config", "billctl", "session.json")
	}

	ctx := context.Background()

	backend := session.NewFileBackend(sessionFile)
	store := session.NewStore(ctx, backend, token.NewCodec(logger.Component("token")), logger.Component("session"))
	client := transport.NewClient(cfg.APIBaseURL, store, logger.Component("transport"))
	cache := privilege.NewCache(client, store, logger.Component("privileges"))

	app := &console{store: store, client: client, cache: cache}

	var err error
	switch command {
	case "login":
		err = app.login(ctx, args)
	case "logout":
		err = app.logout(ctx)
	case "whoami":
		err = app.whoami()
	case "can":
		err = app.can(ctx, args)
	case "privileges":
		err = app.privileges(ctx, args)
	case "help", "--help", "-h":
		printUsage()
	default:
		err = fmt.Errorf("unknown command: %s", command)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type console struct {
	store  *session.Store
	client *transport.Client
	cache  *privilege.Cache
}

func (a *console) login(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: billctl login <email> [password]")
	}
	email := args[0]

	var password string
	if len(args) > 1 {
		password = args[1]
	} else {
		fmt.Fprint(os.Stderr, "password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = string(raw)
	}

	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.store.Login(ctx, resp.Token, resp.TokenType, resp.User)
	sess := a.store.Current()
	fmt.Printf("logged in as %s (%s)\n", sess.DisplayName, sess.RoleName)
	return nil
}

func (a *console) logout(ctx context.Context) error {
	if !a.store.Current().Authenticated() {
		fmt.Println("not logged in")
		return nil
	}
	// Best effort: revoke server-side, always clear local state.
	if err := a.client.Logout(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: server logout failed: %v\n", err)
	}
	a.store.Logout(ctx)
	fmt.Println("logged out")
	return nil
}

func (a *console) whoami() error {
	gate := guard.NewAuthGate(a.store, nil)
	if gate.Check() == guard.DecisionRedirectLogin {
		return errors.New("not logged in — run: billctl login <email>")
	}

	sess := a.store.Current()
	fmt.Printf("user:  %s (id %s)\n", sess.DisplayName, sess.UserID)
	fmt.Printf("role:  %s (id %s)\n", sess.RoleName, sess.RoleID)
	fmt.Printf("token: %s…\n", truncate(sess.Token, 16))
	return nil
}

// can evaluates a permission requirement the way a guarded route would.
// With --any the requirement is satisfied by any one listed permission.
func (a *console) can(ctx context.Context, args []string) error {
	mode := guard.ModeAll
	names := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--any" {
			mode = guard.ModeAny
			continue
		}
		names = append(names, arg)
	}

	req, err := guard.NewRequirement(mode, names...)
	if err != nil {
		return err
	}

	sess := a.store.Current()
	if !sess.Authenticated() {
		return errors.New("not logged in — run: billctl login <email>")
	}

	a.cache.LoadFor(ctx, sess.RoleID)

	gate := guard.NewPermissionGate(a.cache, req)
	switch result := gate.Evaluate(); result.Outcome {
	case guard.OutcomeGranted:
		fmt.Println("granted")
	case guard.OutcomeDenied:
		fmt.Printf("denied — missing: %s\n", strings.Join(result.Missing, ", "))
		os.Exit(2)
	case guard.OutcomeUnavailable:
		return errors.New("privileges unavailable — is the API reachable?")
	case guard.OutcomeLoading:
		return errors.New("privileges still loading")
	}
	return nil
}

func (a *console) privileges(ctx context.Context, args []string) error {
	roleID := a.store.Current().RoleID
	if len(args) > 0 {
		roleID = args[0]
	}
	if roleID == "" {
		return errors.New("usage: billctl privileges <roleId>")
	}

	set, err := a.client.FetchPrivileges(ctx, roleID)
	if err != nil {
		return err
	}

	fmt.Printf("role %s (%s)\n", set.RoleName, set.RoleID)
	for _, name := range domain.PermissionNames {
		mark := " "
		if set.Allows(name) {
			mark = "x"
		}
		fmt.Printf("  [%s] %-16s %s\n", mark, name, domain.PermissionLabel(name))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func printUsage() {
	fmt.Fprint(os.Stderr, `billctl — billing console CLI

Usage:
  billctl login <email> [password]   authenticate and store the session
  billctl logout                     revoke the token and clear the session
  billctl whoami                     show the current session
  billctl can [--any] <perm>...      check permissions against the API
  billctl privileges [roleId]        print a role's permission matrix

Environment:
  BILLING_API_URL       API base URL (default http://localhost:8080)
  BILLING_SESSION_FILE  session snapshot path (default ~/.config/billctl/session.json)
`)
}
