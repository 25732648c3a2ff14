package psqlbuilder

import "github.com/Masterminds/squirrel"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select starts a SELECT with postgres placeholders.
func Select(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...)
}

// Insert starts an INSERT with postgres placeholders.
func Insert(table string) squirrel.InsertBuilder {
	return psql.Insert(table)
}

// Update starts an UPDATE with postgres placeholders.
func Update(table string) squirrel.UpdateBuilder {
	return psql.Update(table)
}

// Delete starts a DELETE with postgres placeholders.
func Delete(table string) squirrel.DeleteBuilder {
	return psql.Delete(table)
}
