package usecase

import (
	"context"
	"dominum/domain"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

var ErrorTimelockPending = errors.New("pool change requested, confirm after the timelock")

type GiverTargets struct {
	First  tongo.AccountID
	Second tongo.AccountID
}

type DeploymentConfig struct {
	Admin         tongo.AccountID
	Minter        tongo.AccountID
	RegistryOwner tongo.AccountID
	Targets       [domain.GiverCount]GiverTargets
	TargetLabels  [domain.GiverCount][2]string
	Shares        [domain.GiverCount]uint32
	WalletCode    []byte
	Content       domain.Content
}

// DefaultDeploymentConfig returns the reference settlement network with
// addresses derived from fixed labels.
func DefaultDeploymentConfig() DeploymentConfig {
	labels := [domain.GiverCount][2]string{
		{"allodium-frs", "allodium-foundation"},
		{"defi-bank", "defi-dual"},
		{"bank-dao", "dao-foundation"},
		{"bank-dominum", "dominum-foundation"},
	}
	cfg := DeploymentConfig{
		Admin:         domain.AddressFromSeed("admin"),
		Minter:        domain.AddressFromSeed("minter"),
		RegistryOwner: domain.AddressFromSeed("registry-owner"),
		TargetLabels:  labels,
		Shares:        domain.GiverShares,
		WalletCode:    []byte("dominum-jetton-wallet-v1"),
		Content:       domain.Content{Name: "Dominum", Symbol: "DOM", Decimals: domain.DomDecimals},
	}
	for k, pair := range labels {
		cfg.Targets[k] = GiverTargets{
			First:  domain.AddressFromSeed(pair[0]),
			Second: domain.AddressFromSeed(pair[1]),
		}
	}
	return cfg
}

// Deployment is a settlement network running on a Network.
type Deployment struct {
	Config   DeploymentConfig
	Template *domain.WalletTemplate

	Issuer       tongo.AccountID
	Registry     tongo.AccountID
	GasProxy     tongo.AccountID
	GasPool      tongo.AccountID
	Treasury     tongo.AccountID
	Givers       [domain.GiverCount]tongo.AccountID
	GiverWallets [domain.GiverCount]tongo.AccountID

	network *Network
	state   *StateInteractor
	log     *slog.Logger
	queryId uint64
}

type Deployer struct {
	network *Network
	log     *slog.Logger
}

func NewDeployer(network *Network, log *slog.Logger) *Deployer {
	return &Deployer{
		network: network,
		log:     log,
	}
}

// Deploy creates every contract, points the proxy at the pool through the
// timelock, commits the proxy wallet config and wires the givers. On a real
// clock the pool change cannot be confirmed in the same run, and Deploy
// returns the deployment together with ErrorTimelockPending.
func (d *Deployer) Deploy(ctx context.Context, cfg DeploymentConfig) (*Deployment, error) {
	dep := &Deployment{
		Config:   cfg,
		Issuer:   domain.AddressFromSeed("issuer"),
		Registry: domain.AddressFromSeed("giver-manager"),
		GasProxy: domain.AddressFromSeed("gas-proxy"),
		GasPool:  domain.AddressFromSeed("gas-pool"),
		Treasury: domain.AddressFromSeed("treasury"),
		network:  d.network,
		state:    NewStateInteractor(d.network),
		log:      d.log,
	}
	for k, name := range domain.GiverNames {
		dep.Givers[k] = domain.AddressFromSeed("giver-" + name)
	}
	dep.Template = &domain.WalletTemplate{
		Issuer:   dep.Issuer,
		GasProxy: dep.GasProxy,
		Treasury: dep.Treasury,
		Code:     cfg.WalletCode,
	}

	issuer, err := NewIssuer(IssuerConfig{
		Address:  dep.Issuer,
		Minter:   cfg.Minter,
		Template: dep.Template,
		Givers:   dep.Givers,
		Shares:   cfg.Shares,
		Content:  cfg.Content,
	})
	if err != nil {
		return nil, err
	}

	contracts := []Contract{
		NewTreasury(dep.Template),
		NewGasProxy(GasProxyConfig{Address: dep.GasProxy, Admin: cfg.Admin}),
		NewGasPool(GasPoolConfig{
			Address:  dep.GasPool,
			Admin:    cfg.Admin,
			Proxy:    dep.GasProxy,
			Treasury: dep.Treasury,
		}),
		NewGiverManager(dep.Registry, cfg.RegistryOwner, dep.Givers[:]),
		issuer,
	}
	for k := range dep.Givers {
		first, second := cfg.Targets[k].First, cfg.Targets[k].Second
		contracts = append(contracts, NewGiver(GiverConfig{
			Address:      dep.Givers[k],
			Manager:      dep.Registry,
			FirstTarget:  &first,
			SecondTarget: &second,
		}))
	}
	for _, contract := range contracts {
		if err := d.network.Deploy(contract); err != nil {
			return nil, err
		}
	}

	if err := dep.ConfigureWallet(ctx); err != nil {
		return nil, err
	}
	if err := dep.WireGivers(ctx); err != nil {
		return nil, err
	}
	if err := dep.RequestPool(ctx, dep.GasPool); err != nil {
		return nil, err
	}

	advancer, ok := d.network.Clock().(interface{ Advance(time.Duration) })
	if !ok {
		d.log.Warn("🟡 gas pool change is pending", "pool", dep.GasPool.ToRaw(), "timelock", domain.TimelockPeriod)
		return dep, ErrorTimelockPending
	}
	advancer.Advance(domain.TimelockPeriod + time.Second)
	if err := dep.ConfirmPool(ctx); err != nil {
		return nil, err
	}

	d.log.Info("🟢 settlement network deployed",
		"issuer", dep.Issuer.ToRaw(),
		"gas_proxy", dep.GasProxy.ToRaw(),
		"gas_pool", dep.GasPool.ToRaw())
	return dep, nil
}

func (dep *Deployment) nextQueryId() uint64 {
	dep.queryId++
	return dep.queryId
}

func (dep *Deployment) call(ctx context.Context, src, dest tongo.AccountID, body domain.Body, opts ...SendOption) error {
	env := Envelope{Src: src, Dest: dest, Body: body}
	for _, opt := range opts {
		opt(&env)
	}
	if err := dep.network.Call(ctx, env); err != nil {
		return fmt.Errorf("%v to %v: %w", domain.OpName(body.Opcode()), dest.ToRaw(), err)
	}
	return dep.network.Quiesce(ctx)
}

func (dep *Deployment) ConfigureWallet(ctx context.Context) error {
	return dep.call(ctx, dep.Config.Admin, dep.GasProxy, domain.SetProxyWalletConfig{
		QueryID:    dep.nextQueryId(),
		Master:     dep.Issuer,
		WalletCode: dep.Config.WalletCode,
	})
}

func (dep *Deployment) RequestPool(ctx context.Context, candidate tongo.AccountID) error {
	return dep.call(ctx, dep.Config.Admin, dep.GasProxy, domain.RequestChangePool{
		QueryID:   dep.nextQueryId(),
		Candidate: candidate,
	})
}

func (dep *Deployment) ConfirmPool(ctx context.Context) error {
	return dep.call(ctx, dep.Config.Admin, dep.GasProxy, domain.ConfirmChangePool{
		QueryID: dep.nextQueryId(),
	})
}

// WireGivers points every giver at its token account through the registry.
func (dep *Deployment) WireGivers(ctx context.Context) error {
	for k, giver := range dep.Givers {
		wallet, err := dep.Template.AddressOf(giver)
		if err != nil {
			return err
		}
		dep.GiverWallets[k] = wallet

		err = dep.call(ctx, dep.Config.RegistryOwner, dep.Registry, domain.SetGiverWallet{
			QueryID: dep.nextQueryId(),
			Giver:   giver,
			Wallet:  wallet,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (dep *Deployment) Mint(ctx context.Context, amount tlb.Grams) error {
	return dep.call(ctx, dep.Config.Minter, dep.Issuer, domain.Mint{
		QueryID: dep.nextQueryId(),
		Amount:  amount,
	})
}

// Transfer moves tokens from the owner's account. The owner's token
// account must exist.
func (dep *Deployment) Transfer(ctx context.Context, owner, destination tongo.AccountID, amount tlb.Grams) error {
	wallet, err := dep.Template.AddressOf(owner)
	if err != nil {
		return err
	}
	return dep.call(ctx, owner, wallet, domain.Transfer{
		QueryID:     dep.nextQueryId(),
		Amount:      amount,
		Destination: destination,
	})
}

func (dep *Deployment) TopUpReserve(ctx context.Context, from tongo.AccountID, value tlb.Grams) error {
	return dep.call(ctx, from, dep.GasProxy, domain.TopUpReserve{QueryID: dep.nextQueryId()}, WithValue(value))
}

func (dep *Deployment) State() *StateInteractor {
	return dep.state
}

func (dep *Deployment) labels() map[tongo.AccountID]string {
	labels := make(map[tongo.AccountID]string)
	for k, giver := range dep.Givers {
		labels[giver] = "giver-" + domain.GiverNames[k]
		labels[dep.Config.Targets[k].First] = dep.Config.TargetLabels[k][0]
		labels[dep.Config.Targets[k].Second] = dep.Config.TargetLabels[k][1]
	}
	return labels
}

// Report reads every ledger of the deployment. Call it at a quiescent point.
func (dep *Deployment) Report(ctx context.Context) (*domain.SettlementReport, error) {
	if err := dep.network.Quiesce(ctx); err != nil {
		return nil, err
	}

	report := &domain.SettlementReport{}

	supply, err := dep.state.TotalSupply(ctx, dep.Issuer)
	if err != nil {
		return nil, err
	}
	report.TotalSupply = supply

	labels := dep.labels()
	for _, addr := range dep.network.Contracts(KindJettonWallet) {
		wallet, err := dep.state.Wallet(ctx, addr)
		if err != nil {
			return nil, err
		}
		report.Holders = append(report.Holders, domain.HolderBalance{
			Label:   labels[wallet.Owner],
			Owner:   wallet.Owner,
			Wallet:  wallet.Address,
			Balance: wallet.Balance,
		})
		report.HoldersTotal += wallet.Balance
	}
	sort.Slice(report.Holders, func(i, j int) bool {
		return report.Holders[i].Wallet.ToRaw() < report.Holders[j].Wallet.ToRaw()
	})

	treasury, err := dep.state.Treasury(ctx, dep.Treasury)
	if err != nil {
		return nil, err
	}
	report.Treasury = treasury.Balance

	pool, err := dep.state.GasPool(ctx, dep.GasPool)
	if err != nil {
		return nil, err
	}
	report.GasPoolDom = pool.DomBalance
	report.GasPoolTon = pool.TonReserve

	return report, nil
}
