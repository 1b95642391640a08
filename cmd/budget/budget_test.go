package budget

import (
	"bytes"
	"os"
	"regexp"
	"testing"

	"fjacquet/budgetmaster/cmd/root"
	"fjacquet/budgetmaster/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	root.Cmd.AddCommand(Cmd)
	os.Exit(m.Run())
}

func setup(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	err := root.Execute(&out, args...)
	return out.String(), err
}

var addedID = regexp.MustCompile(`Added budget row (\S+)`)

func TestBudgetCommand_Lifecycle(t *testing.T) {
	setup(t)

	_, err := run("--seed", "--year", "2025", "budget", "reconcile")
	require.NoError(t, err)

	out, err := run("--year", "2025", "budget", "list", "--month", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Mars")
	assert.Contains(t, out, "Rent")
	assert.Contains(t, out, "01.03.2025", "rent falls due on the 1st")
	assert.Contains(t, out, "15.03.2025", "electricity falls due on the 15th")
	assert.NotContains(t, out, "Janvier")

	out, err = run("--year", "2025", "budget", "add", "--category", "Groceries", "--month", "Mars",
		"--desc", "Farmers market", "--actual", "42.50")
	require.NoError(t, err)
	m := addedID.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	id := m[1]

	out, err = run("--year", "2025", "budget", "update", id, "--planned", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated budget row")

	out, err = run("--year", "2025", "budget", "list", "--month", "mars")
	require.NoError(t, err)
	assert.Contains(t, out, "Farmers market")
	assert.Contains(t, out, "42.50")
	assert.Contains(t, out, "2.50")

	out, err = run("--year", "2025", "budget", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted budget row")

	_, err = run("--year", "2025", "budget", "delete", id)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestBudgetCommand_Reconcile(t *testing.T) {
	setup(t)

	_, err := run("--seed", "--year", "2025", "budget", "reconcile")
	require.NoError(t, err)

	out, err := run("--year", "2025", "budget", "reconcile")
	require.NoError(t, err)
	assert.Contains(t, out, "Reconciled 2025: 0 rows added")

	out, err = run("--year", "2026", "budget", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Rent", "moving to a new year materializes its recurring rows")
}

func TestBudgetCommand_Summary(t *testing.T) {
	setup(t)

	out, err := run("--seed", "--year", "2025", "budget", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Planned")
	assert.Contains(t, out, "Expense")
	assert.Contains(t, out, "Cashflow")
	assert.Contains(t, out, "Savings rate")
}

func TestBudgetCommand_Errors(t *testing.T) {
	setup(t)

	_, err := run("--seed", "--year", "2025", "budget", "reconcile")
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing month", args: []string{"budget", "add", "--category", "Rent"}},
		{name: "bad month", args: []string{"budget", "add", "--category", "Rent", "--month", "13"}},
		{name: "unknown category", args: []string{"budget", "add", "--category", "Travel", "--month", "1"}},
		{name: "bad amount", args: []string{"budget", "add", "--category", "Rent", "--month", "1", "--actual", "abc"}},
		{name: "unknown row", args: []string{"budget", "update", "zzzz", "--planned", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(append([]string{"--year", "2025"}, tt.args...)...)
			assert.Error(t, err)
		})
	}
}
