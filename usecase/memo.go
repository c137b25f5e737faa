package usecase

import (
	"dominum/domain"

	"github.com/tonkeeper/tongo"
)

const (
	PoolReadingMemoKey        = "pool_reading"
	MarketMakerReadingMemoKey = "market_maker_reading"
)

type MemoRepository interface {
	Find(key string) (*domain.Memo, error)
	Upsert(key string, memo domain.Memorable) (*domain.Memo, error)
}

type MemoInteractor struct {
	memoRepository MemoRepository
}

func NewMemoInteractor(memoRepository MemoRepository) *MemoInteractor {
	interactor := &MemoInteractor{
		memoRepository: memoRepository,
	}
	return interactor
}

func poolReadingKey(pool tongo.AccountID) string {
	return PoolReadingMemoKey + ":" + pool.ToRaw()
}

// GetPoolReading returns the last stored reading of pool, or nil.
func (interactor *MemoInteractor) GetPoolReading(pool tongo.AccountID) (*domain.PoolReadingMemo, error) {
	memo, err := interactor.memoRepository.Find(poolReadingKey(pool))
	if err != nil || memo == nil {
		return nil, err
	}

	var reading domain.PoolReadingMemo
	if err := reading.FromJson(memo.Memo); err != nil {
		return nil, err
	}
	return &reading, nil
}

func (interactor *MemoInteractor) SetPoolReading(pool tongo.AccountID, reading *domain.PoolReadingMemo) error {
	_, err := interactor.memoRepository.Upsert(poolReadingKey(pool), reading)
	return err
}

func (interactor *MemoInteractor) GetMarketMakerReading(marketMaker tongo.AccountID) (*domain.MarketMakerReadingMemo, error) {
	memo, err := interactor.memoRepository.Find(MarketMakerReadingMemoKey + ":" + marketMaker.ToRaw())
	if err != nil || memo == nil {
		return nil, err
	}

	var reading domain.MarketMakerReadingMemo
	if err := reading.FromJson(memo.Memo); err != nil {
		return nil, err
	}
	return &reading, nil
}

func (interactor *MemoInteractor) SetMarketMakerReading(marketMaker tongo.AccountID, reading *domain.MarketMakerReadingMemo) error {
	_, err := interactor.memoRepository.Upsert(MarketMakerReadingMemoKey+":"+marketMaker.ToRaw(), reading)
	return err
}
