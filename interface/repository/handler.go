package repository

import (
	"database/sql"
	"errors"

	"github.com/behrang/sqlbatch"
)

var (
	BatchOptionNormal = sql.TxOptions{
		ReadOnly:  false,
		Isolation: sql.LevelReadCommitted,
	}

	BatchOptionNormalReadOnly = sql.TxOptions{
		ReadOnly:  true,
		Isolation: sql.LevelReadCommitted,
	}
)

// BatchHandler is a database handler that executes a batch of SQL commands.
type BatchHandler interface {
	Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error)
}

const sqlSchema = `
	create table if not exists memos (
		key         text primary key,
		memo        jsonb not null,
		update_time timestamptz not null default now()
	);

	create table if not exists messages (
		id          bigserial primary key,
		contract    text not null,
		src         text not null,
		dest        text not null,
		opcode      bigint not null,
		query_id    numeric(20, 0) not null,
		value       numeric(20, 0) not null,
		bounced     boolean not null,
		result      text not null,
		exit_code   bigint not null,
		error       text,
		handled_at  timestamptz not null
	);

	create index if not exists messages_query_id on messages (query_id);

	create table if not exists pool_snapshots (
		id          bigserial primary key,
		run_id      uuid not null,
		address     text not null,
		read_at     timestamptz not null,
		dom_balance numeric(20, 0) not null,
		ton_reserve numeric(20, 0) not null,
		available   numeric(20, 0) not null,
		snapshot    jsonb not null
	);

	create index if not exists pool_snapshots_address_read_at on pool_snapshots (address, read_at desc);
`

// Migrate creates the tables used by the repositories when they are missing.
func Migrate(db BatchHandler) error {
	_, err := db.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{Query: sqlSchema, Args: []interface{}{}},
	})
	return err
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
