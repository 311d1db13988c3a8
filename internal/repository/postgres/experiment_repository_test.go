package postgres

import (
	"strings"
	"testing"

	"splitHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds statements against the postgres dialect without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		DSN: "host=127.0.0.1 user=splithub dbname=splithub sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

// insertedLiteral renders a single-row INSERT and returns the literal
// written for column.
func insertedLiteral(t *testing.T, db *gorm.DB, value any, column string) string {
	t.Helper()

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return tx.Create(value)
	})

	values := strings.Index(sql, " VALUES ")
	require.Positive(t, values, sql)
	cols := strings.Split(between(sql[:values]), ",")
	vals := strings.Split(between(sql[values:]), ",")
	require.Len(t, vals, len(cols), sql)

	for i, col := range cols {
		if strings.Trim(strings.TrimSpace(col), `"`) == column {
			return strings.TrimSpace(vals[i])
		}
	}
	require.Failf(t, "column missing from insert", "%s not in %s", column, sql)
	return ""
}

func between(s string) string {
	open, closing := strings.Index(s, "("), strings.LastIndex(s, ")")
	if open < 0 || closing < open {
		return ""
	}
	return s[open+1 : closing]
}

func TestVariantInsertKeepsInactive(t *testing.T) {
	db := dryRunDB(t)

	inactive := &domain.Variant{ID: "b", ExperimentID: "exp-1", Name: "green", Active: false}
	assert.Equal(t, "false", insertedLiteral(t, db, inactive, "active"))

	active := &domain.Variant{ID: "a", ExperimentID: "exp-1", Name: "control", Active: true}
	assert.Equal(t, "true", insertedLiteral(t, db, active, "active"))
}
