// Package pilot_db persists device state in PostgreSQL through a small
// query builder over pgx. Queries are written with `$` placeholders which
// Build numbers in order, so builders can be composed without tracking
// argument positions by hand.
//
// Usage Example:
//
//	pins, err := pilot_db.Select("userio_pins", ctx, pool, pinFromRow).
//	    Select("id").Select("enabled").
//	    Where("enabled", "= $", true).
//	    SortAsc("id").
//	    QueryMany()
package pilot_db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Querier is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// FromTableFn reads the current row into val.
//
// Example:
//
//	func pinFromRow(row pgx.Rows, pin *Pin) error {
//	    return row.Scan(&pin.ID, &pin.Enabled)
//	}
type FromTableFn[T any] func(row pgx.Rows, val *T) error

type QueryBuilder[T any] struct {
	ctx        context.Context
	db         Querier
	operation  string
	from       string
	fields     []string
	set        []SetField
	conflict   []string
	where      []QueryWhere
	sort       []QuerySort
	limit      int
	conversion FromTableFn[T]
	warn       bool
}

func newBuilder[T any](operation string, table string, ctx context.Context, db Querier, conversion FromTableFn[T]) *QueryBuilder[T] {
	return &QueryBuilder[T]{
		ctx:        ctx,
		db:         db,
		operation:  operation,
		from:       table,
		fields:     []string{},
		set:        []SetField{},
		where:      []QueryWhere{},
		sort:       []QuerySort{},
		limit:      -1,
		conversion: conversion,
		warn:       true,
	}
}

// Select creates a SELECT query on table. Rows are converted with
// conversion in the order the fields were selected.
func Select[T any](table string, ctx context.Context, db Querier, conversion FromTableFn[T]) *QueryBuilder[T] {
	return newBuilder("SELECT", table, ctx, db, conversion)
}

// Insert creates an INSERT query. Use OnConflict to turn it into an upsert.
func Insert[T any](table string, ctx context.Context, db Querier, conversion FromTableFn[T]) *QueryBuilder[T] {
	return newBuilder("INSERT", table, ctx, db, conversion)
}

// Delete creates a DELETE query. A DELETE with no WHERE clause is refused
// unless Force is called.
func Delete[T any](table string, ctx context.Context, db Querier, conversion FromTableFn[T]) *QueryBuilder[T] {
	return newBuilder("DELETE", table, ctx, db, conversion)
}

func (b *QueryBuilder[T]) Select(field string) *QueryBuilder[T] {
	b.fields = append(b.fields, field)
	return b
}

// Set assigns a value to field for INSERT queries. Fields are written in
// the order they are set.
func (b *QueryBuilder[T]) Set(field string, value any) *QueryBuilder[T] {
	if b.operation != "INSERT" {
		log.Fatal("Attempted to set a field on a non-insert query. This is probably not what you want.")
	}
	for i := range b.set {
		if b.set[i].field == field {
			b.set[i].value = value
			return b
		}
	}
	b.set = append(b.set, SetField{field: field, value: value})
	return b
}

// OnConflict makes an INSERT update every other set field when a row with
// the same keys already exists.
func (b *QueryBuilder[T]) OnConflict(keys ...string) *QueryBuilder[T] {
	b.conflict = append(b.conflict, keys...)
	return b
}

// Where appends a condition. where is the operator part with a `$`
// placeholder for arg, for example "= $".
func (b *QueryBuilder[T]) Where(field string, where string, arg any) *QueryBuilder[T] {
	if len(b.where) > 0 {
		b.where = append(b.where, QueryWhere{where: " AND "})
	}
	b.where = append(b.where, QueryWhere{where: b.from + "." + field + " " + where, arg: arg})
	return b
}

func (b *QueryBuilder[T]) WhereEq(field string, arg any) *QueryBuilder[T] {
	return b.Where(field, "= $", arg)
}

func (b *QueryBuilder[T]) SortAsc(field string) *QueryBuilder[T] {
	b.sort = append(b.sort, QuerySort{field: field, order: "ASC"})
	return b
}

func (b *QueryBuilder[T]) Limit(num int) *QueryBuilder[T] {
	b.limit = num
	return b
}

func (b *QueryBuilder[T]) Force() *QueryBuilder[T] {
	b.warn = false
	return b
}

func (b *QueryBuilder[T]) selectToString() string {
	if len(b.fields) == 0 {
		return "*"
	}
	qualified := make([]string, len(b.fields))
	for i, field := range b.fields {
		qualified[i] = b.from + "." + field
	}
	return strings.Join(qualified, ", ")
}

func (b *QueryBuilder[T]) whereToString() (string, []any) {
	if len(b.where) == 0 {
		return "", nil
	}
	args := []any{}
	query := " WHERE "
	for _, w := range b.where {
		w.Build(&query, &args)
	}
	return query, args
}

func (b *QueryBuilder[T]) sortToString() string {
	if len(b.sort) == 0 {
		return ""
	}
	parts := make([]string, len(b.sort))
	for i, s := range b.sort {
		parts[i] = s.field + " " + s.order
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *QueryBuilder[T]) insertToString() (string, []any) {
	fields := make([]string, len(b.set))
	holders := make([]string, len(b.set))
	args := make([]any, len(b.set))
	for i, s := range b.set {
		fields[i] = s.field
		holders[i] = "$"
		args[i] = s.value
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", b.from, strings.Join(fields, ", "), strings.Join(holders, ", "))
	if len(b.conflict) > 0 {
		updates := []string{}
		for _, field := range fields {
			if !contains(b.conflict, field) {
				updates = append(updates, field+" = EXCLUDED."+field)
			}
		}
		if len(updates) == 0 {
			query += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", strings.Join(b.conflict, ", "))
		} else {
			query += fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", strings.Join(b.conflict, ", "), strings.Join(updates, ", "))
		}
	}
	return query, args
}

// Build renders the query with numbered placeholders and its arguments.
func (b QueryBuilder[T]) Build() (string, []any) {
	var query string
	var args []any
	switch b.operation {
	case "SELECT":
		whereQuery, whereArgs := b.whereToString()
		args = whereArgs
		query = fmt.Sprintf("SELECT %s FROM %s%s%s", b.selectToString(), b.from, whereQuery, b.sortToString())
		if b.limit > 0 {
			query += fmt.Sprintf(" LIMIT %v", b.limit)
		}
	case "INSERT":
		query, args = b.insertToString()
	case "DELETE":
		if b.warn && len(b.where) == 0 {
			log.Fatal("Attempted to run a query with no where clause. This is probably not what you want. Override with .Force()")
		}
		whereQuery, whereArgs := b.whereToString()
		args = whereArgs
		query = fmt.Sprintf("DELETE FROM %s%s", b.from, whereQuery)
	}

	var final strings.Builder
	argCt := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '$' {
			fmt.Fprintf(&final, "$%v", argCt)
			argCt++
		} else {
			final.WriteByte(query[i])
		}
	}
	if args == nil {
		args = []any{}
	}
	return final.String(), args
}

func (builder *QueryBuilder[T]) QueryMany() ([]T, *QueryBuilderError) {
	results := []T{}
	query, args := builder.Build()
	rows, err := builder.db.Query(builder.ctx, query, args...)
	if err != nil {
		return results, PostgresError(builder.from, err)
	}
	defer rows.Close()
	for rows.Next() {
		var value T
		if err := builder.conversion(rows, &value); err != nil {
			return results, PostgresError(builder.from, err)
		}
		results = append(results, value)
	}
	if rows.Err() != nil {
		return results, PostgresError(builder.from, rows.Err())
	}
	return results, nil
}

// Exec runs the query without reading rows.
func (builder *QueryBuilder[T]) Exec() *QueryBuilderError {
	query, args := builder.Build()
	if _, err := builder.db.Exec(builder.ctx, query, args...); err != nil {
		return PostgresError(builder.from, err)
	}
	return nil
}

type QueryBuilderError struct {
	table        string
	genericError error
}

func (e QueryBuilderError) Error() string {
	friendlyName := strings.ReplaceAll(e.table, "_", " ")
	friendlyName = cases.Title(language.English).String(friendlyName)
	return friendlyName + ": " + e.genericError.Error()
}

func (e *QueryBuilderError) Unwrap() error {
	return e.genericError
}

func (e *QueryBuilderError) Violates(code PostgresErrorCode) bool {
	var pgError *pgconn.PgError
	if errors.As(e.genericError, &pgError) {
		return pgError.Code == string(code)
	}
	return false
}

func PostgresError(table string, err error) *QueryBuilderError {
	return &QueryBuilderError{
		table:        table,
		genericError: err,
	}
}

type SetField struct {
	field string
	value any
}

type QueryWhere struct {
	where string
	arg   any
}

func (q QueryWhere) Build(query *string, args *[]any) {
	*query += q.where
	if q.arg != nil {
		*args = append(*args, q.arg)
	}
}

type QuerySort struct {
	field string
	order string
}

type PostgresErrorCode string

const (
	PostgresErrorCodeUniqueViolation     PostgresErrorCode = "23505"
	PostgresErrorCodeNotNullViolation    PostgresErrorCode = "23502"
	PostgresErrorCodeForeignKeyViolation PostgresErrorCode = "23503"
	PostgresErrorCodeCheckViolation      PostgresErrorCode = "23514"
)

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
