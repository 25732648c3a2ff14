// Package storagetest runs repositories against go-sqlmock so tests can assert the SQL they emit.
package storagetest

import (
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/dbmetrics"
	"github.com/ajtaylor-dev/Pagevoo-sub002/pkg/txmanager"
)

// New returns a mocked tenant database, a transaction manager over it and the mock.
// Unmet expectations fail the test on cleanup.
func New(t *testing.T) (*dbmetrics.DB, *txmanager.TransactionManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	wrapped := dbmetrics.Wrap(db, nil, "tenant_test")
	return wrapped, txmanager.NewTransactionManager(wrapped), mock
}

// Exact matches the whole statement literally.
func Exact(query string) string {
	return "^" + regexp.QuoteMeta(query) + "$"
}

// Parts matches the literal fragments in order with anything in between.
// A trailing "$" fragment anchors the end of the statement.
func Parts(fragments ...string) string {
	anchored := len(fragments) > 0 && fragments[len(fragments)-1] == "$"
	if anchored {
		fragments = fragments[:len(fragments)-1]
	}

	quoted := make([]string, len(fragments))
	for i, f := range fragments {
		quoted[i] = regexp.QuoteMeta(f)
	}

	pattern := strings.Join(quoted, ".*")
	if anchored {
		pattern += "$"
	}
	return pattern
}
