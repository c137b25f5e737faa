package cmd

import (
	"dominum/domain"
	"dominum/infrastructure/dbhandler"
	"dominum/infrastructure/logger"
	"dominum/interface/repository"
	"dominum/usecase"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tonkeeper/tongo/liteapi"
	"github.com/tonkeeper/tongo/tlb"
	tgwallet "github.com/tonkeeper/tongo/wallet"
)

var log *slog.Logger
var dbHandler *dbhandler.DBHandler
var tongoClient *liteapi.Client

func defaultLogger() *slog.Logger {
	if log == nil {
		log = logger.New(domain.IsVerbose())
	}
	return log
}

// defaultDatabase opens postgres when service_db_uri is set, nil otherwise.
func defaultDatabase() (*dbhandler.DBHandler, error) {
	if dbHandler != nil || domain.GetDbUri() == "" {
		return dbHandler, nil
	}

	handler, err := dbhandler.Open(domain.GetDbUri(), defaultLogger())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := repository.Migrate(handler); err != nil {
		handler.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	dbHandler = handler
	return dbHandler, nil
}

func defaultTongoClient() (*liteapi.Client, error) {
	if tongoClient != nil {
		return tongoClient, nil
	}

	var err error
	switch strings.ToLower(domain.GetNetwork()) {
	case domain.MainNetwork:
		tongoClient, err = liteapi.NewClientWithDefaultMainnet()
	case domain.TestNetwork:
		tongoClient, err = liteapi.NewClientWithDefaultTestnet()
	default:
		return nil, domain.ErrorInvalidNetwork
	}
	if err != nil {
		return nil, fmt.Errorf("unable to create tongo client: %w", err)
	}
	return tongoClient, nil
}

func defaultAdminInteractor() (*usecase.AdminInteractor, error) {
	client, err := defaultTongoClient()
	if err != nil {
		return nil, err
	}

	key, err := domain.GetOperatorPrivateKey()
	if err != nil {
		return nil, err
	}
	operatorWallet, err := tgwallet.New(key, tgwallet.V4R2, 0, nil, client)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to operator wallet: %w", err)
	}

	messenger := usecase.NewMessengerInteractor(client, &operatorWallet, nil, defaultLogger())
	defaultLogger().Info("operator wallet",
		"address", messenger.Operator().ToHuman(true, domain.IsTestNet()))

	return usecase.NewAdminInteractor(messenger, nil, tlb.Grams(domain.GetAttachedTonValue())), nil
}
