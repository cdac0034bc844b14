package test

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GIScience/ohsome-filter-to-sql/internal/doctor"
	"github.com/GIScience/ohsome-filter-to-sql/test/testutil"
)

func openLibPQ(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("postgres", testutil.DSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// checkStatus indexes report results by check name.
func checkStatus(report *doctor.Report) map[string]doctor.Status {
	out := make(map[string]doctor.Status, len(report.Checks))
	for _, c := range report.Checks {
		out[c.Category+"/"+c.Name] = c.Status
	}
	return out
}

func TestDoctor_Contributions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := openLibPQ(t)

	report, err := doctor.New(db, "contributions").Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	report.Print(&buf, true)
	assert.False(t, report.HasErrors(), buf.String())
	assert.Zero(t, report.Warnings, buf.String())
	assert.Contains(t, buf.String(), "All 8 sample filters plan successfully")
}

func TestDoctor_View(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := openLibPQ(t)
	_, err := db.Exec(`CREATE VIEW latest AS SELECT * FROM contributions`)
	require.NoError(t, err)

	report, err := doctor.New(db, "public.latest").Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.HasErrors())

	status := checkStatus(report)
	assert.Equal(t, doctor.StatusPass, status["Table/exists"])
	assert.Equal(t, doctor.StatusPass, status["Indexes/tags"])
}

func TestDoctor_MissingTable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := openLibPQ(t)

	report, err := doctor.New(db, "missing_table").Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.HasErrors())
	assert.Equal(t, map[string]doctor.Status{
		"Server/version": doctor.StatusPass,
		"Table/exists":   doctor.StatusFail,
	}, checkStatus(report))
}

func TestDoctor_WrongLayout(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := openLibPQ(t)
	_, err := db.Exec(`CREATE TABLE nodes (osm_id bigint, osm_type text, tags text)`)
	require.NoError(t, err)

	report, err := doctor.New(db, "nodes").Run(context.Background())
	require.NoError(t, err)

	status := checkStatus(report)
	assert.Equal(t, doctor.StatusFail, status["Columns/present"])
	assert.Equal(t, doctor.StatusWarn, status["Columns/types"])
	assert.Equal(t, doctor.StatusWarn, status["Indexes/tags"])
	assert.Equal(t, doctor.StatusWarn, status["Data/rows"])
	assert.Equal(t, doctor.StatusFail, status["Filters/plan"])
	assert.NotContains(t, status, "Columns/geom_type")
	assert.Equal(t, 2, report.Errors)
}
