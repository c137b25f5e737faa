package repository

import (
	"database/sql"
	"dominum/domain"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/behrang/sqlbatch"
	"github.com/stretchr/testify/require"
	"github.com/tonkeeper/tongo/tlb"
)

// fakeBatch records the commands and replays rows through their readers.
type fakeBatch struct {
	commands []sqlbatch.Command
	opts     *sql.TxOptions
	rows     [][]interface{}
	err      error
}

func (f *fakeBatch) Batch(opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {
	f.opts = opts
	f.commands = append(f.commands, commands...)
	if f.err != nil {
		return nil, f.err
	}

	results := make([]interface{}, len(commands))
	for i, command := range commands {
		switch {
		case command.ReadOne != nil:
			if len(f.rows) == 0 {
				return nil, sql.ErrNoRows
			}
			result, err := command.ReadOne(scanner(f.rows[0]))
			if err != nil {
				return nil, err
			}
			results[i] = result
		case command.ReadAll != nil:
			all := command.Init
			for _, row := range f.rows {
				var err error
				if all, err = command.ReadAll(all, scanner(row)); err != nil {
					return nil, err
				}
			}
			results[i] = all
		}
	}
	return results, nil
}

func scanner(row []interface{}) func(...interface{}) error {
	return func(dest ...interface{}) error {
		if len(dest) != len(row) {
			return fmt.Errorf("scanning %v columns into %v targets", len(row), len(dest))
		}
		for i, d := range dest {
			switch p := d.(type) {
			case *string:
				*p = row[i].(string)
			case *[]byte:
				*p = row[i].([]byte)
			case *uint32:
				*p = row[i].(uint32)
			case *uint64:
				*p = row[i].(uint64)
			case *bool:
				*p = row[i].(bool)
			case *time.Time:
				*p = row[i].(time.Time)
			case *sql.NullString:
				if row[i] != nil {
					*p = sql.NullString{String: row[i].(string), Valid: true}
				}
			default:
				return fmt.Errorf("unsupported scan target %T", d)
			}
		}
		return nil
	}
}

func TestMemoFindMissing(t *testing.T) {
	db := &fakeBatch{}
	memo, err := NewMemoRepository(db).Find("pool_reading:0:00")
	require.NoError(t, err)
	require.Nil(t, memo)
	require.Equal(t, &BatchOptionNormalReadOnly, db.opts)
}

func TestMemoUpsert(t *testing.T) {
	reading := &domain.PoolReadingMemo{DomBalance: 5, AvailableTon: 7, ReadAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	db := &fakeBatch{rows: [][]interface{}{{"k", []byte(reading.ToJson())}}}

	memo, err := NewMemoRepository(db).Upsert("k", reading)
	require.NoError(t, err)
	require.Equal(t, "k", memo.Key)
	require.JSONEq(t, reading.ToJson(), memo.Memo)

	require.Len(t, db.commands, 2)
	require.Equal(t, []interface{}{"k", reading.ToJson()}, db.commands[0].Args)
	require.EqualValues(t, 1, db.commands[0].Affect)
}

func TestMemoFindError(t *testing.T) {
	db := &fakeBatch{err: sql.ErrConnDone}
	_, err := NewMemoRepository(db).Find("k")
	require.ErrorIs(t, err, sql.ErrConnDone)
}

func TestMessageRecord(t *testing.T) {
	db := &fakeBatch{}
	handledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := NewMessageRepository(db).Record(domain.JournalEntry{
		Contract:  "treasury",
		Src:       "0:01",
		Dest:      "0:02",
		Opcode:    domain.OpTaxPayment,
		QueryId:   ^uint64(0),
		Value:     tlb.Grams(1_000),
		Result:    domain.ResultRejected,
		ExitCode:  76,
		Error:     "fee does not match",
		HandledAt: handledAt,
	})
	require.NoError(t, err)
	require.Len(t, db.commands, 1)

	args := db.commands[0].Args
	require.Len(t, args, 11)
	require.Equal(t, int64(domain.OpTaxPayment), args[3])
	require.Equal(t, "18446744073709551615", args[4])
	require.Equal(t, "1000", args[5])
	require.Equal(t, int64(76), args[8])
	require.Equal(t, sql.NullString{String: "fee does not match", Valid: true}, args[9])
	require.Equal(t, handledAt, args[10])
}

func TestMessageFindByQueryId(t *testing.T) {
	handledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	row := func(result string, errText interface{}) []interface{} {
		return []interface{}{
			"jetton_wallet", "0:01", "0:02", domain.OpTransfer, uint64(9), uint64(300), false,
			result, uint32(0), errText, handledAt,
		}
	}
	db := &fakeBatch{rows: [][]interface{}{
		row(domain.ResultAccepted, nil),
		row(domain.ResultRejected, "insufficient balance"),
	}}

	entries, err := NewMessageRepository(db).FindByQueryId(9)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, uint64(9), entries[0].QueryId)
	require.Equal(t, tlb.Grams(300), entries[0].Value)
	require.Empty(t, entries[0].Error)
	require.Equal(t, "insufficient balance", entries[1].Error)
	require.Equal(t, []interface{}{"9"}, db.commands[0].Args)
}

func TestMessageFindError(t *testing.T) {
	db := &fakeBatch{err: sql.ErrConnDone}
	entries, err := NewMessageRepository(db).FindRejected(10)
	require.ErrorIs(t, err, sql.ErrConnDone)
	require.Nil(t, entries)
}

func TestSnapshotRepository(t *testing.T) {
	snapshot := &domain.PoolSnapshot{
		RunId:          "5f0c6f0e-8d7e-4bb8-9a7e-4f2b1f3f0e11",
		ReadAt:         time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Address:        "EQ...",
		PriceTonPerDom: "0.005",
		Raw:            domain.PoolRaw{DomBalance: 400_000_000, TonReserve: 2_000_000_000, AvailableTon: 2_000_000_000},
	}

	db := &fakeBatch{}
	require.NoError(t, NewSnapshotRepository(db).Insert(snapshot))
	args := db.commands[0].Args
	require.Equal(t, "400000000", args[3])
	require.Equal(t, "2000000000", args[5])

	jstr, ok := args[6].([]byte)
	require.True(t, ok)
	var stored domain.PoolSnapshot
	require.NoError(t, json.Unmarshal(jstr, &stored))
	require.Equal(t, snapshot.Raw, stored.Raw)

	latest, err := NewSnapshotRepository(&fakeBatch{rows: [][]interface{}{{jstr}}}).FindLatest(snapshot.Address)
	require.NoError(t, err)
	require.Equal(t, snapshot.PriceTonPerDom, latest.PriceTonPerDom)

	missing, err := NewSnapshotRepository(&fakeBatch{}).FindLatest("EQ...")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestMigrate(t *testing.T) {
	db := &fakeBatch{}
	require.NoError(t, Migrate(db))
	require.Len(t, db.commands, 1)
	require.Contains(t, db.commands[0].Query, "create table if not exists pool_snapshots")
}
