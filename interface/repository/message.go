package repository

import (
	"database/sql"
	"dominum/domain"
	"strconv"

	"github.com/behrang/sqlbatch"
	"github.com/tonkeeper/tongo/tlb"
)

const (
	sqlMessageInsert = `
	insert into messages (
			contract, src, dest, opcode, query_id, value, bounced, result, exit_code, error, handled_at
		)
		values (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
`

	sqlMessageFindByQueryId = `
	select
		contract, src, dest, opcode, query_id, value, bounced, result, exit_code, error, handled_at
	from messages
	where query_id = $1
	order by id
`

	sqlMessageFindRejected = `
	select
		contract, src, dest, opcode, query_id, value, bounced, result, exit_code, error, handled_at
	from messages
	where result in ('rejected', 'bounced')
	order by id desc
	limit $1
`
)

// MessageRepository is the journal of handled contract messages.
type MessageRepository struct {
	batchHandler BatchHandler
}

func NewMessageRepository(db BatchHandler) *MessageRepository {
	return &MessageRepository{batchHandler: db}
}

func readAllMessages(all interface{}, scan func(...interface{}) error) (interface{}, error) {
	r := domain.JournalEntry{}
	var errText sql.NullString
	var value, queryId uint64
	err := scan(
		&r.Contract, &r.Src, &r.Dest, &r.Opcode, &queryId, &value,
		&r.Bounced, &r.Result, &r.ExitCode, &errText, &r.HandledAt,
	)
	list := all.([]domain.JournalEntry)
	if err != nil {
		return list, err
	}
	r.QueryId = queryId
	r.Value = tlb.Grams(value)
	r.Error = errText.String
	return append(list, r), nil
}

func (repo *MessageRepository) Record(entry domain.JournalEntry) error {
	var errText sql.NullString
	if entry.Error != "" {
		errText = sql.NullString{String: entry.Error, Valid: true}
	}
	_, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlMessageInsert,
			Args: []interface{}{
				entry.Contract, entry.Src, entry.Dest, int64(entry.Opcode),
				uint64Arg(entry.QueryId), uint64Arg(uint64(entry.Value)),
				entry.Bounced, entry.Result, int64(entry.ExitCode), errText, entry.HandledAt,
			},
			Affect: 1,
		},
	})
	return err
}

func (repo *MessageRepository) FindByQueryId(queryId uint64) ([]domain.JournalEntry, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlMessageFindByQueryId,
			Args:    []interface{}{uint64Arg(queryId)},
			Init:    make([]domain.JournalEntry, 0),
			ReadAll: readAllMessages,
		},
	})
	if err != nil {
		return nil, err
	}
	result, _ := results[0].([]domain.JournalEntry)
	return result, nil
}

func (repo *MessageRepository) FindRejected(limit int) ([]domain.JournalEntry, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlMessageFindRejected,
			Args:    []interface{}{limit},
			Init:    make([]domain.JournalEntry, 0),
			ReadAll: readAllMessages,
		},
	})
	if err != nil {
		return nil, err
	}
	result, _ := results[0].([]domain.JournalEntry)
	return result, nil
}

// uint64Arg passes values above MaxInt64 to a numeric column.
func uint64Arg(v uint64) string {
	return strconv.FormatUint(v, 10)
}
