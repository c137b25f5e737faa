package usecase

import (
	"context"
	"dominum/domain"
	"dominum/interface/exporter"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

var (
	ErrorNoContract         = fmt.Errorf("no contract at destination")
	ErrorAlreadyDeployed    = fmt.Errorf("contract is already deployed")
	ErrorInitMismatch       = fmt.Errorf("state init does not match destination")
	ErrorNetworkClosed      = fmt.Errorf("network is closed")
	ErrorInvalidStateShape  = fmt.Errorf("invalid contract state")
	ErrorBouncedFromOutside = fmt.Errorf("bounced messages are only produced by the network")
)

// Contract is a single-threaded message processor. Receive must validate
// before it mutates: a returned error discards every message queued on ctx,
// and state changes made before the error are not rolled back.
type Contract interface {
	Address() tongo.AccountID
	Kind() string
	Receive(ctx *MessageContext, env Envelope) error
	Data() any
}

type Envelope struct {
	Src     tongo.AccountID
	Dest    tongo.AccountID
	Value   tlb.Grams
	Bounce  bool
	Bounced bool
	Body    domain.Body
	// Init deploys the destination when nothing lives there yet.
	Init Contract

	result chan error
}

type SendOption func(env *Envelope)

func WithBounce() SendOption {
	return func(env *Envelope) { env.Bounce = true }
}

func WithValue(value tlb.Grams) SendOption {
	return func(env *Envelope) { env.Value = value }
}

func WithInit(init Contract) SendOption {
	return func(env *Envelope) { env.Init = init }
}

// MessageContext is handed to a contract for the duration of one message.
type MessageContext struct {
	self   tongo.AccountID
	now    time.Time
	log    *slog.Logger
	outbox []Envelope
}

func (c *MessageContext) Now() time.Time {
	return c.now
}

func (c *MessageContext) Log() *slog.Logger {
	return c.log
}

func (c *MessageContext) Send(dest tongo.AccountID, body domain.Body, opts ...SendOption) {
	env := Envelope{Src: c.self, Dest: dest, Body: body}
	for _, opt := range opts {
		opt(&env)
	}
	c.outbox = append(c.outbox, env)
}

// Return hands a previously bounced body on to dest, still marked bounced.
func (c *MessageContext) Return(dest tongo.AccountID, body domain.Body, value tlb.Grams) {
	c.outbox = append(c.outbox, Envelope{Src: c.self, Dest: dest, Body: body, Value: value, Bounced: true})
}

// Journal receives the outcome of every handled message.
type Journal interface {
	Record(entry domain.JournalEntry) error
}

type NetworkConfig struct {
	Logger  *slog.Logger
	Clock   clockwork.Clock
	Journal Journal // optional
}

func (cfg *NetworkConfig) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return nil
}

// Network delivers messages between contracts. Every contract owns one
// goroutine and processes its inbox strictly one message at a time.
type Network struct {
	log     *slog.Logger
	clock   clockwork.Clock
	journal Journal

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	actors   map[tongo.AccountID]*actor
	inflight int
	idle     []chan struct{}
}

type actor struct {
	contract Contract

	mu     sync.Mutex
	queue  []item
	notify chan struct{}
}

type item struct {
	env *Envelope
	get chan any
}

func NewNetwork(cfg NetworkConfig) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Network{
		log:     cfg.Logger,
		clock:   cfg.Clock,
		journal: cfg.Journal,
		ctx:     ctx,
		cancel:  cancel,
		actors:  make(map[tongo.AccountID]*actor),
	}, nil
}

func (n *Network) Clock() clockwork.Clock {
	return n.clock
}

// Deploy registers a contract at its own address.
func (n *Network) Deploy(contract Contract) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.deployLocked(contract)
}

func (n *Network) deployLocked(contract Contract) error {
	if n.ctx.Err() != nil {
		return ErrorNetworkClosed
	}
	addr := contract.Address()
	if _, exist := n.actors[addr]; exist {
		return fmt.Errorf("%w: %v", ErrorAlreadyDeployed, addr.ToRaw())
	}

	a := &actor{
		contract: contract,
		notify:   make(chan struct{}, 1),
	}
	n.actors[addr] = a

	n.wg.Add(1)
	go n.run(a)

	n.log.Debug("contract deployed", "kind", contract.Kind(), "address", addr.ToRaw())
	return nil
}

func (n *Network) IsDeployed(addr tongo.AccountID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, exist := n.actors[addr]
	return exist
}

// Contracts lists the addresses of every deployed contract of kind.
func (n *Network) Contracts(kind string) []tongo.AccountID {
	n.mu.Lock()
	defer n.mu.Unlock()

	var result []tongo.AccountID
	for addr, a := range n.actors {
		if a.contract.Kind() == kind {
			result = append(result, addr)
		}
	}
	return result
}

// Send queues a message and returns immediately.
func (n *Network) Send(env Envelope) error {
	if err := n.accept(env); err != nil {
		return err
	}
	n.dispatch(env)
	return nil
}

// Call queues a message and waits until its destination has handled it. The
// returned error is the destination's rejection, if any. Messages emitted by
// the handler are not awaited; use Quiesce for that.
func (n *Network) Call(ctx context.Context, env Envelope) error {
	if err := n.accept(env); err != nil {
		return err
	}
	env.result = make(chan error, 1)
	n.dispatch(env)

	select {
	case err := <-env.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Quiesce blocks until no message is in flight.
func (n *Network) Quiesce(ctx context.Context) error {
	n.mu.Lock()
	if n.inflight == 0 {
		n.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	n.idle = append(n.idle, ch)
	n.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get runs the contract's get method between two messages.
func (n *Network) Get(ctx context.Context, addr tongo.AccountID) (any, error) {
	n.mu.Lock()
	a, exist := n.actors[addr]
	n.mu.Unlock()
	if !exist {
		return nil, fmt.Errorf("%w: %v", ErrorNoContract, addr.ToRaw())
	}

	reply := make(chan any, 1)
	a.push(item{get: reply})

	select {
	case data := <-reply:
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-n.ctx.Done():
		return nil, ErrorNetworkClosed
	}
}

func (n *Network) Close() {
	n.cancel()
	n.wg.Wait()
}

// accept guards the entry points used by parties outside the network.
func (n *Network) accept(env Envelope) error {
	if env.Bounced {
		n.log.Warn("🔴 external bounced message refused",
			"src", env.Src.ToRaw(),
			"dest", env.Dest.ToRaw(),
			"op", domain.OpName(env.Body.Opcode()))
		return ErrorBouncedFromOutside
	}
	return nil
}

func (n *Network) dispatch(env Envelope) {
	n.mu.Lock()
	a, exist := n.actors[env.Dest]
	if !exist && env.Init != nil {
		if env.Init.Address() != env.Dest {
			n.mu.Unlock()
			n.finish(env, ErrorInitMismatch, domain.ResultDropped, "")
			return
		}
		if err := n.deployLocked(env.Init); err == nil {
			a, exist = n.actors[env.Dest], true
		}
	}
	if !exist {
		n.mu.Unlock()
		n.log.Debug("message dropped, no contract at destination", "dest", env.Dest.ToRaw(), "op", domain.OpName(env.Body.Opcode()))
		n.finish(env, ErrorNoContract, domain.ResultDropped, "")
		return
	}
	n.inflight++
	n.mu.Unlock()

	a.push(item{env: &env})
}

func (n *Network) run(a *actor) {
	defer n.wg.Done()

	for {
		select {
		case <-n.ctx.Done():
			return
		case <-a.notify:
		}

		for {
			it, ok := a.pop()
			if !ok {
				break
			}
			if it.get != nil {
				it.get <- a.contract.Data()
				continue
			}
			n.handle(a, it.env)
		}
	}
}

func (n *Network) handle(a *actor, env *Envelope) {
	kind := a.contract.Kind()
	mctx := &MessageContext{
		self: a.contract.Address(),
		now:  n.clock.Now(),
		log:  n.log.With("contract", kind),
	}

	err := a.contract.Receive(mctx, *env)

	result := domain.ResultAccepted
	if err != nil {
		result = domain.ResultRejected
		n.log.Warn("🔴 message rejected",
			"contract", kind,
			"op", domain.OpName(env.Body.Opcode()),
			"query_id", env.Body.QueryId(),
			"code", domain.ExitCode(err),
			"error", err)

		if env.Bounce && !env.Bounced {
			result = domain.ResultBounced
			n.dispatch(Envelope{
				Src:     env.Dest,
				Dest:    env.Src,
				Value:   env.Value,
				Bounced: true,
				Body:    env.Body,
			})
		}
	} else {
		for _, out := range mctx.outbox {
			n.dispatch(out)
		}
	}

	n.finish(*env, err, result, kind)

	n.mu.Lock()
	n.inflight--
	if n.inflight == 0 {
		for _, ch := range n.idle {
			close(ch)
		}
		n.idle = nil
	}
	n.mu.Unlock()
}

func (n *Network) finish(env Envelope, err error, result string, kind string) {
	if env.result != nil {
		env.result <- err
	}

	if kind == "" {
		kind = "none"
	}
	exporter.IncMessage(kind, domain.OpName(env.Body.Opcode()), result, string(domain.Classify(err)))

	if n.journal == nil {
		return
	}
	entry := domain.JournalEntry{
		Contract:  kind,
		Src:       env.Src.ToRaw(),
		Dest:      env.Dest.ToRaw(),
		Opcode:    env.Body.Opcode(),
		QueryId:   env.Body.QueryId(),
		Value:     env.Value,
		Bounced:   env.Bounced,
		Result:    result,
		ExitCode:  domain.ExitCode(err),
		HandledAt: n.clock.Now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if jerr := n.journal.Record(entry); jerr != nil {
		exporter.IncErrorCount()
		n.log.Error("🔴 recording message", "error", jerr)
	}
}

func (a *actor) push(it item) {
	a.mu.Lock()
	a.queue = append(a.queue, it)
	a.mu.Unlock()

	select {
	case a.notify <- struct{}{}:
	default:
	}
}

func (a *actor) pop() (item, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.queue) == 0 {
		return item{}, false
	}
	it := a.queue[0]
	a.queue[0] = item{}
	a.queue = a.queue[1:]
	return it, true
}
