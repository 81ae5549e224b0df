package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"holiday-planner/internal/config"
	"holiday-planner/internal/currency"
	"holiday-planner/internal/logger"
	"holiday-planner/internal/planner"
	"holiday-planner/internal/storage"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// app holds the flags and streams shared by every subcommand.
type app struct {
	usersPath string
	plansPath string
	username  string
	password  string
	currency  string
	verbose   bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    zerolog.Logger
	lines  *bufio.Scanner
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "planctl",
		Short:         "Holiday planning and budget tracker",
		Long:          "Plan holidays, track their budgets and review where the money goes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.usersPath, "users", "", "Credential file (default $USERS_PATH or users.json)")
	pf.StringVar(&a.plansPath, "plans", "", "Plan document (default $PLANS_PATH or holiday_plans.json)")
	pf.StringVarP(&a.username, "user", "u", "", "Username")
	pf.StringVarP(&a.password, "password", "P", "", "Password (prompted when omitted)")
	pf.StringVarP(&a.currency, "currency", "c", currency.Base, "Display currency ("+strings.Join(currency.Supported(), ", ")+")")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Log diagnostics to stderr")

	root.AddCommand(
		a.registerCmd(),
		a.addCmd(),
		a.listCmd(),
		a.removeCmd(),
		a.summaryCmd(),
	)
	return root
}

// init fills unset paths from the environment and validates the currency.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if a.usersPath == "" {
		a.usersPath = cfg.UsersPath
	}
	if a.plansPath == "" {
		a.plansPath = cfg.PlansPath
	}
	if a.verbose {
		a.log = logger.New(logger.Options{Level: "debug", Pretty: true, Output: a.stderr})
	}

	code, err := currency.Normalize(a.currency)
	if err != nil {
		return err
	}
	a.currency = code
	return nil
}

func (a *app) credentials() *storage.CredentialStore {
	return storage.NewCredentialStore(a.usersPath, a.log)
}

// login authenticates the --user account and opens its plans.
func (a *app) login() (*planner.Session, error) {
	if a.username == "" {
		return nil, fmt.Errorf("--user is required")
	}
	password, err := a.passwordOrPrompt("Password: ")
	if err != nil {
		return nil, err
	}
	if err := a.credentials().Authenticate(a.username, password); err != nil {
		return nil, err
	}
	a.log.Debug().Str("username", a.username).Str("plans", a.plansPath).Msg("authenticated")
	return planner.Open(storage.NewPlanFile(a.plansPath), a.username)
}

func (a *app) passwordOrPrompt(prompt string) (string, error) {
	if a.password != "" {
		return a.password, nil
	}
	return a.prompt(prompt)
}

// prompt reads one line without echo when stdin is a terminal.
func (a *app) prompt(prompt string) (string, error) {
	fmt.Fprint(a.stdout, prompt)
	defer fmt.Fprintln(a.stdout)

	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	if a.lines == nil {
		a.lines = bufio.NewScanner(a.stdin)
	}
	if a.lines.Scan() {
		return a.lines.Text(), nil
	}
	if err := a.lines.Err(); err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return "", fmt.Errorf("failed to read password: %w", io.EOF)
}
