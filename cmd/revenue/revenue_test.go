package revenue

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

func run(args ...string) (string, error) {
	var out bytes.Buffer
	err := root.Execute(&out, args...)
	return out.String(), err
}

func TestRevenueCommand_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)

	out, err := run("--year", "2025", "revenue", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No revenues for 2025")

	out, err = run("--year", "2025", "revenue", "add", "--date", "15/03/2025", "--desc", "Bonus",
		"--source", "ACME", "--amount", "2500")
	require.NoError(t, err)
	m := regexp.MustCompile(`Added revenue Bonus \((\S+)\)`).FindStringSubmatch(out)
	require.Len(t, m, 2, out)

	_, err = run("--year", "2025", "revenue", "add", "--date", "2024-12-20", "--desc", "Old bonus", "--amount", "100")
	require.NoError(t, err)

	out, err = run("--year", "2025", "revenue", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03-15")
	assert.Contains(t, out, "ACME")
	assert.Contains(t, out, "2500.00")
	assert.NotContains(t, out, "Old bonus")

	out, err = run("--year", "2025", "revenue", "delete", m[1])
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted revenue")

	_, err = run("--year", "2025", "revenue", "delete", m[1])
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = run("revenue", "add", "--date", "2025-01-01", "--desc", "Gift", "--amount", "5", "--category", "Nothing")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
