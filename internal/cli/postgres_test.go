package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestSQLState(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"pq", &pq.Error{Code: "42P01"}, "42P01"},
		{"pgconn", &pgconn.PgError{Code: "42703"}, "42703"},
		{"wrapped pq", fmt.Errorf("explain: %w", &pq.Error{Code: "08006"}), "08006"},
		{"wrapped pgconn", fmt.Errorf("explain: %w", &pgconn.PgError{Code: "28P01"}), "28P01"},
		{"plain", errors.New("boom"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SQLState(tt.err))
		})
	}
}

func TestDatabaseError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"connection failure", &pq.Error{Code: "08006"}, ExitDBConnect},
		{"bad password", &pgconn.PgError{Code: "28P01"}, ExitDBConnect},
		{"unknown database", &pq.Error{Code: "3D000"}, ExitDBConnect},
		{"missing table", &pq.Error{Code: "42P01"}, ExitConfig},
		{"missing column", &pgconn.PgError{Code: "42703"}, ExitConfig},
		{"syntax error", &pq.Error{Code: "42601"}, ExitGeneral},
		{"not a postgres error", errors.New("boom"), ExitGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DatabaseError("checking filter", tt.err)
			assert.Equal(t, tt.want, err.Code)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitGeneral, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitFilter, ExitCode(FilterError("translating filter", errors.New("bad"))))
	assert.Equal(t, ExitConfig, ExitCode(fmt.Errorf("wrapped: %w", ConfigError("loading configuration", nil))))
}

func TestExitError_Error(t *testing.T) {
	assert.Equal(t, "loading configuration", ConfigError("loading configuration", nil).Error())
	assert.Equal(t, "connecting to database: refused",
		DBConnectError("connecting to database", errors.New("refused")).Error())
}

func TestQuoteTable(t *testing.T) {
	assert.Equal(t, `"contributions"`, QuoteTable("contributions"))
	assert.Equal(t, `"history"."contributions"`, QuoteTable("history.contributions"))
	assert.Equal(t, `"odd""name"`, QuoteTable(`odd"name`))
}

func TestBindArgs(t *testing.T) {
	args := BindArgs([]any{`{"a":"b"}`, int64(1), []string{"x", "y"}, []int64{1, 2}, 2.5})

	assert.Len(t, args, 5)
	assert.Equal(t, `{"a":"b"}`, args[0])
	assert.Equal(t, int64(1), args[1])
	assert.IsType(t, &pq.StringArray{}, args[2])
	assert.IsType(t, &pq.Int64Array{}, args[3])
	assert.Equal(t, 2.5, args[4])
}
