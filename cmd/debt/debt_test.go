package debt

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/budgetmaster/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	root.Cmd.AddCommand(Cmd)
	os.Exit(m.Run())
}

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	return dir
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	err := root.Execute(&out, args...)
	return out.String(), err
}

func TestDebtCommand_Lifecycle(t *testing.T) {
	dir := setup(t)

	out, err := run("--year", "2025", "debt", "add", "Visa", "--balance", "1200", "--rate", "12",
		"--payment", "200", "--start", "2025-01-01", "--type", "credit_card", "--day", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Added debt Visa")
	assert.Contains(t, out, "with category Visa")

	out, err = run("--year", "2025", "debt", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Visa")
	assert.Contains(t, out, "credit_card")
	assert.Contains(t, out, "1200.00")

	out, err = run("--year", "2025", "debt", "schedule", "visa")
	require.NoError(t, err)
	assert.Contains(t, out, "Cumulative interest")
	assert.Contains(t, out, "payments")
	assert.NotContains(t, out, "Not paid off")

	csvPath := filepath.Join(dir, "out", "visa.csv")
	out, err = run("--year", "2025", "debt", "schedule", "Visa", "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "written to")
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Remaining Balance")

	out, err = run("--year", "2025", "debt", "delete", "Visa")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted debt Visa")

	out, err = run("--year", "2025", "debt", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No debts found")
}

func TestDebtCommand_ScheduleNeverPaidOff(t *testing.T) {
	setup(t)

	_, err := run("debt", "add", "Mortgage", "--balance", "100000", "--rate", "12", "--payment", "500")
	require.NoError(t, err)

	out, err := run("debt", "schedule", "Mortgage")
	require.NoError(t, err)
	assert.Contains(t, out, "Not paid off within 60 months")
}

func TestDebtCommand_Errors(t *testing.T) {
	setup(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing payment", args: []string{"debt", "add", "Loan", "--balance", "100"}},
		{name: "bad balance", args: []string{"debt", "add", "Loan", "--balance", "x", "--payment", "10"}},
		{name: "bad type", args: []string{"debt", "add", "Loan", "--balance", "100", "--payment", "10", "--type", "lease"}},
		{name: "bad start", args: []string{"debt", "add", "Loan", "--balance", "100", "--payment", "10", "--start", "soon"}},
		{name: "unknown debt", args: []string{"debt", "schedule", "Nothing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(tt.args...)
			assert.Error(t, err)
		})
	}
}
