package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const seedFile = "../../internal/repository/memory/testdata/seed.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Registered so the overrides written by setup are undone afterwards.
	t.Setenv("PORTAL_STORAGE_DRIVER", "")
	t.Setenv("PORTAL_STORAGE_SEED_FILE", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--storage", "memory", "--seed", seedFile, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestProteinArrayDataToStdout(t *testing.T) {
	out, err := execute(t, "protein-array", "data", "brca_tcga", "--genes", "AKT1", "--cases", "TCGA-A2-A04P-01,TCGA-A1-A0SD-01")
	require.NoError(t, err)
	assert.Equal(t, "ROW_ID\tTCGA-A2-A04P-01\tTCGA-A1-A0SD-01\nAKT_pS473\t-1.25\tNaN\n", out)
}

func TestProteinArrayInfoToStdout(t *testing.T) {
	out, err := execute(t, "rppa", "info", "acc_tcga")
	require.NoError(t, err)
	assert.Contains(t, out, "EGFR\tprotein_level\tEGFR\ttotal\n")
}

func TestProteinArrayDataToWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brca.xlsx")
	_, err := execute(t, "protein-array", "data", "brca_tcga", "--type", "phosphorylation", "--format", "xlsx", "-o", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	book, err := excelize.OpenReader(f)
	require.NoError(t, err)
	rows, err := book.GetRows("protein_array_data")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "AKT_pS473", rows[1][0])
}

func TestUnknownStudyFails(t *testing.T) {
	_, err := execute(t, "protein-array", "data", "nope")
	assert.ErrorContains(t, err, "study not found: nope")
}

func TestMigrateNeedsPostgres(t *testing.T) {
	_, err := execute(t, "migrate", "up")
	assert.ErrorContains(t, err, "postgres")
}
