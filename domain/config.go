package domain

import (
	"crypto/ed25519"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/wallet"
)

const (
	MainNetwork = "mainnet"
	TestNetwork = "testnet"
)

var (
	ErrorInvalidNetwork = fmt.Errorf("network must be equal to 'mainnet' or 'testnet' only")

	ErrorNoMnemonic          = fmt.Errorf("no mnemonic is defined")
	ErrorMnemonicConflict    = fmt.Errorf("only one of mnemonic or mnemonic_url must be defined")
	ErrorReadingMnemonicFile = fmt.Errorf("error in reading mnemonic file")

	ErrorInvalidPollInterval = fmt.Errorf("invalid time interval for poll process")
	ErrorInvalidDecimals     = fmt.Errorf("decimals must be between 0 and 18")

	ErrorInvalidGasPoolAddress  = fmt.Errorf("invalid gas pool address")
	ErrorInvalidGasProxyAddress = fmt.Errorf("invalid gas proxy address")
	ErrorInvalidIssuerAddress   = fmt.Errorf("invalid issuer address")
	ErrorInvalidRegistryAddress = fmt.Errorf("invalid registry address")
	ErrorInvalidMarketMaker     = fmt.Errorf("invalid market maker address")
	ErrorMissingAddress         = fmt.Errorf("address is not configured")
)

var (
	TrailingSlashRE = regexp.MustCompile("/+$")
)

var (
	dbUri   string
	network string
	verbose bool

	mnemonic     string
	mnemonic_url string

	gasPoolAddress   *tongo.AccountID
	gasProxyAddress  *tongo.AccountID
	issuerAddress    *tongo.AccountID
	registryAddress  *tongo.AccountID
	marketMaker      *tongo.AccountID
	outputFilePath   string
	metricsAddress   string
	pollInterval     time.Duration
	domDecimals      int
	tonDecimals      int
	attachedTonValue int64
)

func setDefaults() {
	viper.SetDefault("network", TestNetwork)
	viper.SetDefault("poll_interval", "30s")
	viper.SetDefault("output_file_path", "./data/latest.json")
	viper.SetDefault("metrics_address", ":9102")
	viper.SetDefault("dom_decimals", DomDecimals)
	viper.SetDefault("ton_decimals", TonDecimals)
	viper.SetDefault("attached_ton_value", 50_000_000)
}

func ReadConfig(filePath string) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Failed reading .env file: %v\n", err.Error())
	}

	setDefaults()
	viper.SetConfigFile(filePath)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("⚠️ Failed reading config file: %v\n", err.Error())
	}

	err := initializeVariables()
	if err != nil {
		log.Fatalf("Configuration error - %v\n", err.Error())
	}
}

// This method processes the configuration parameters and keeps the processed values
// in some variables for later accesses rapidly.
func initializeVariables() error {
	var err error

	// Database stuff
	dbUri = TrailingSlashRE.ReplaceAllString(viper.GetString("service_db_uri"), "")

	// Network stuff
	network = strings.TrimSpace(strings.ToLower(viper.GetString("network")))
	if network != MainNetwork && network != TestNetwork {
		return ErrorInvalidNetwork
	}
	verbose = viper.GetBool("verbose")

	// Contract addresses, all optional until a command needs them
	if gasPoolAddress, err = readAddress("gas_pool_address"); err != nil {
		return ErrorInvalidGasPoolAddress
	}
	if gasProxyAddress, err = readAddress("gas_proxy_address"); err != nil {
		return ErrorInvalidGasProxyAddress
	}
	if issuerAddress, err = readAddress("issuer_address"); err != nil {
		return ErrorInvalidIssuerAddress
	}
	if registryAddress, err = readAddress("registry_address"); err != nil {
		return ErrorInvalidRegistryAddress
	}
	if marketMaker, err = readAddress("market_maker_address"); err != nil {
		return ErrorInvalidMarketMaker
	}

	// Operator wallet stuff
	mnemonic = strings.TrimSpace(viper.GetString("mnemonic"))
	mnemonic_url = strings.TrimSpace(viper.GetString("mnemonic_url"))
	if mnemonic != "" && mnemonic_url != "" {
		return ErrorMnemonicConflict
	}
	attachedTonValue = viper.GetInt64("attached_ton_value")

	//---------------------------------------------------------------
	// monitor
	pollInterval, err = time.ParseDuration(viper.GetString("poll_interval"))
	if err != nil || pollInterval <= 0 {
		return ErrorInvalidPollInterval
	}
	outputFilePath = strings.TrimSpace(viper.GetString("output_file_path"))
	metricsAddress = strings.TrimSpace(viper.GetString("metrics_address"))

	domDecimals = viper.GetInt("dom_decimals")
	tonDecimals = viper.GetInt("ton_decimals")
	if domDecimals < 0 || domDecimals > 18 || tonDecimals < 0 || tonDecimals > 18 {
		return ErrorInvalidDecimals
	}

	return nil
}

func readAddress(key string) (*tongo.AccountID, error) {
	value := strings.TrimSpace(viper.GetString(key))
	if value == "" {
		return nil, nil
	}
	accid, err := tongo.AccountIDFromBase64Url(value)
	if err != nil {
		return nil, err
	}
	return &accid, nil
}

func readMnemonicFile(filePath string) (string, error) {

	fileContent, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("Failed to read mmnemonic file - %v\n", err.Error())
		return "", err
	}

	return strings.TrimSpace(string(fileContent)), nil
}

//-------------------------------------------------------------------
// Processed values

// GetOperatorPrivateKey is evaluated lazily, only the admin commands need a
// signing key.
func GetOperatorPrivateKey() (ed25519.PrivateKey, error) {
	if mnemonic == "" && mnemonic_url == "" {
		return nil, ErrorNoMnemonic
	}

	seed := mnemonic
	if mnemonic_url != "" {
		var err error
		seed, err = readMnemonicFile(mnemonic_url)
		if err != nil {
			return nil, ErrorReadingMnemonicFile
		}
	}

	return wallet.SeedToPrivateKey(seed)
}

func requireAddress(accid *tongo.AccountID, key string) (tongo.AccountID, error) {
	if accid == nil {
		return tongo.AccountID{}, fmt.Errorf("%w: %v", ErrorMissingAddress, key)
	}
	return *accid, nil
}

func GetGasPoolAddress() (tongo.AccountID, error) {
	return requireAddress(gasPoolAddress, "gas_pool_address")
}

func GetGasProxyAddress() (tongo.AccountID, error) {
	return requireAddress(gasProxyAddress, "gas_proxy_address")
}

func GetIssuerAddress() (tongo.AccountID, error) {
	return requireAddress(issuerAddress, "issuer_address")
}

func GetRegistryAddress() (tongo.AccountID, error) {
	return requireAddress(registryAddress, "registry_address")
}

// GetMarketMakerAddress returns nil when no market maker is monitored.
func GetMarketMakerAddress() *tongo.AccountID {
	if marketMaker == nil {
		return nil
	}
	accid := *marketMaker
	return &accid
}

//-------------------------------------------------------------------
// Normal configuration values

func GetDbUri() string {
	return dbUri
}

func GetNetwork() string {
	return network
}

func IsVerbose() bool {
	return verbose
}

func GetPollInterval() time.Duration {
	return pollInterval
}

func GetOutputFilePath() string {
	return outputFilePath
}

func GetMetricsAddress() string {
	return metricsAddress
}

func GetDomDecimals() int {
	return domDecimals
}

func GetTonDecimals() int {
	return tonDecimals
}

func GetAttachedTonValue() int64 {
	return attachedTonValue
}

// -------------------------------------------------------------------
// Evaluating values

func IsTestNet() bool {
	return network == TestNetwork
}
