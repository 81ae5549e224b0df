package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"holiday-planner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t     *testing.T
	users string
	plans string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	return &cli{t: t, users: filepath.Join(dir, "users.json"), plans: filepath.Join(dir, "holiday_plans.json")}
}

func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd := newRootCmd(strings.NewReader(stdin), stdout, stderr)
	cmd.SetArgs(append([]string{"--users", c.users, "--plans", c.plans}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run("", args...)
	require.NoError(c.t, err, out)
	return out
}

var idPattern = regexp.MustCompile(`\(id ([0-9a-f-]+)\)`)

func (c *cli) addParis() string {
	out := c.mustRun("add", "-u", "alice", "-P", "secret1",
		"--name", "Paris", "--start", "2024-06-01", "--end", "2024-06-05",
		"--travel", "500", "--accommodation", "300", "--experiences", "100", "--misc", "50")
	m := idPattern.FindStringSubmatch(out)
	require.Len(c.t, m, 2, out)
	return m[1]
}

func TestRegister(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("register", "-u", "alice", "-P", "secret1")
	assert.Contains(t, out, "Registration successful!")

	_, err := c.run("", "register", "-u", "alice", "-P", "other12")
	assert.ErrorIs(t, err, models.ErrDuplicateUser)

	_, err = c.run("", "register", "-u", "bob", "-P", "short")
	assert.ErrorIs(t, err, models.ErrWeakPassword)
}

func TestRegister_Prompted(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("secret1\nsecret1\n", "register", "-u", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Choose Password: ")
	assert.Contains(t, out, "Confirm Password: ")

	_, err = c.run("secret1\nsecret2\n", "register", "-u", "bob")
	assert.ErrorIs(t, err, models.ErrPasswordMismatch)
}

func TestAddListRemove(t *testing.T) {
	c := newCLI(t)
	c.mustRun("register", "-u", "alice", "-P", "secret1")

	id := c.addParis()

	out := c.mustRun("list", "-u", "alice", "-P", "secret1")
	assert.Contains(t, out, "Your Holiday Plans")
	assert.Contains(t, out, "Paris")
	assert.Contains(t, out, "5 days")
	assert.Contains(t, out, "$950.00")
	assert.Contains(t, out, id)

	out = c.mustRun("list", "-u", "alice", "-P", "secret1", "--currency", "gbp")
	assert.Contains(t, out, "£750.50")

	out = c.mustRun("remove", "-u", "alice", "-P", "secret1", id)
	assert.Contains(t, out, "Removed Paris")

	out = c.mustRun("remove", "-u", "alice", "-P", "secret1", id)
	assert.Contains(t, out, "No plan with id")

	out = c.mustRun("list", "-u", "alice", "-P", "secret1")
	assert.Contains(t, out, "No holiday plans added yet")
}

func TestAdd_PromptsForPassword(t *testing.T) {
	c := newCLI(t)
	c.mustRun("register", "-u", "alice", "-P", "secret1")

	out, err := c.run("secret1\n", "add", "-u", "alice",
		"--name", "Oslo", "--start", "2024-01-01", "--end", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "Oslo, 1 days")
}

func TestAdd_Rejected(t *testing.T) {
	c := newCLI(t)
	c.mustRun("register", "-u", "alice", "-P", "secret1")

	_, err := c.run("", "add", "-u", "alice", "-P", "secret1",
		"--name", "Bad", "--start", "2024-06-05", "--end", "2024-06-01")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = c.run("", "add", "-u", "alice", "-P", "secret1",
		"--name", "Bad", "--start", "June 1st", "--end", "2024-06-01")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = c.run("", "add", "-u", "alice", "-P", "secret1", "--name", "Bad", "--end", "2024-06-01")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, statErr := os.Stat(c.plans)
	assert.True(t, os.IsNotExist(statErr), "nothing should have been written")
}

func TestAuthenticationErrors(t *testing.T) {
	c := newCLI(t)
	c.mustRun("register", "-u", "alice", "-P", "secret1")

	_, err := c.run("", "list", "-u", "alice", "-P", "wrong12")
	assert.ErrorIs(t, err, models.ErrBadPassword)

	_, err = c.run("", "list", "-u", "carol", "-P", "secret1")
	assert.ErrorIs(t, err, models.ErrUnknownUser)

	_, err = c.run("", "list")
	assert.ErrorContains(t, err, "--user is required")
}

func TestSummary(t *testing.T) {
	c := newCLI(t)
	c.mustRun("register", "-u", "alice", "-P", "secret1")

	out := c.mustRun("summary", "-u", "alice", "-P", "secret1")
	assert.Contains(t, out, "No holiday plans added yet")

	c.addParis()
	c.mustRun("add", "-u", "alice", "-P", "secret1",
		"--name", "Rome", "--start", "2024-09-01", "--end", "2024-09-03", "--travel", "50")

	out = c.mustRun("summary", "-u", "alice", "-P", "secret1")
	assert.Contains(t, out, "Total Trips Planned")
	assert.Contains(t, out, "$1,000.00")
	assert.Contains(t, out, "Average Cost per Trip")
	assert.Contains(t, out, "$500.00")
	assert.Contains(t, out, "55.0%")
	assert.Contains(t, out, "Holiday Expenses Breakdown")
	assert.Contains(t, out, "Rome")
}

func TestUnknownCurrency(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "list", "-u", "alice", "-P", "secret1", "--currency", "EUR")
	assert.ErrorIs(t, err, models.ErrUnknownCurrency)
}

func TestPathsFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	users := filepath.Join(dir, "env_users.json")
	t.Setenv("USERS_PATH", users)

	cmd := newRootCmd(strings.NewReader(""), new(bytes.Buffer), new(bytes.Buffer))
	cmd.SetArgs([]string{"register", "-u", "alice", "-P", "secret1"})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, users)
}
