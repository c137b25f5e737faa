package repository

import (
	"dominum/domain"
	"encoding/json"

	"github.com/behrang/sqlbatch"
)

const (
	sqlSnapshotInsert = `
	insert into pool_snapshots (
			run_id, address, read_at, dom_balance, ton_reserve, available, snapshot
		)
		values (
			$1, $2, $3, $4, $5, $6, $7::jsonb
		)
`

	sqlSnapshotFindLatest = `
	select
		snapshot
	from pool_snapshots
	where address = $1
	order by read_at desc
	limit 1
`
)

type SnapshotRepository struct {
	batchHandler BatchHandler
}

func NewSnapshotRepository(db BatchHandler) *SnapshotRepository {
	return &SnapshotRepository{batchHandler: db}
}

func readSnapshot(scan func(...interface{}) error) (interface{}, error) {
	r := domain.PoolSnapshot{}
	var jstr []byte
	if err := scan(&jstr); err != nil {
		return &r, err
	}
	err := json.Unmarshal(jstr, &r)
	return &r, err
}

func (repo *SnapshotRepository) Insert(snapshot *domain.PoolSnapshot) error {
	jstr, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	_, err = repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlSnapshotInsert,
			Args: []interface{}{
				snapshot.RunId, snapshot.Address, snapshot.ReadAt,
				uint64Arg(uint64(snapshot.Raw.DomBalance)),
				uint64Arg(uint64(snapshot.Raw.TonReserve)),
				uint64Arg(uint64(snapshot.Raw.AvailableTon)),
				jstr,
			},
			Affect: 1,
		},
	})
	return err
}

// FindLatest returns nil without error when the pool has no snapshot yet.
func (repo *SnapshotRepository) FindLatest(address string) (*domain.PoolSnapshot, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlSnapshotFindLatest,
			Args:    []interface{}{address},
			ReadOne: readSnapshot,
		},
	})
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	result, _ := results[0].(*domain.PoolSnapshot)
	return result, nil
}
