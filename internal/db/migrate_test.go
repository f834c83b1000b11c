package db

import (
	"context"
	"errors"
	"io/fs"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestListMigrationsSortsAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_add_index.sql": {Data: []byte("SELECT 2")},
		"0001_init.sql":      {Data: []byte("SELECT 1")},
		"README.md":          {Data: []byte("notes")},
		"nested/0003_x.sql":  {Data: []byte("SELECT 3")},
	}
	names, err := ListMigrations(fsys)
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	if len(names) != 2 || names[0] != "0001_init.sql" || names[1] != "0002_add_index.sql" {
		t.Fatalf("unexpected migrations: %v", names)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	names, err := ListMigrations(sub)
	if err != nil {
		t.Fatalf("list embedded migrations: %v", err)
	}
	if len(names) == 0 || names[0] != "0001_init.sql" {
		t.Fatalf("unexpected embedded migrations: %v", names)
	}
}

func TestParseVersion(t *testing.T) {
	if v, err := parseVersion("0007_messages.sql"); err != nil || v != 7 {
		t.Fatalf("parseVersion = %d, %v", v, err)
	}
	if _, err := parseVersion("init.sql"); err == nil {
		t.Fatal("expected error for unversioned file")
	}
}

func TestRunMigrationsAppliesPending(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer database.Close()

	fsys := fstest.MapFS{
		"0001_init.sql":  {Data: []byte("CREATE TABLE account (account_id SERIAL)")},
		"0002_index.sql": {Data: []byte("CREATE INDEX message_posted_by_idx ON message (posted_by)")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	existsQuery := regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)")

	mock.ExpectQuery(existsQuery).WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(existsQuery).WithArgs(2).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE INDEX message_posted_by_idx").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version) VALUES ($1)")).WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := runMigrations(context.Background(), database, fsys); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunMigrationsRollsBackOnFailure(t *testing.T) {
	database, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer database.Close()

	fsys := fstest.MapFS{"0001_init.sql": {Data: []byte("CREATE TABLE broken")}}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE broken").WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	if err := runMigrations(context.Background(), database, fsys); err == nil {
		t.Fatal("expected migration failure")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
