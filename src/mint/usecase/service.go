package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/MMN3003/minter/src/config"
	"github.com/MMN3003/minter/src/logger"
	"github.com/MMN3003/minter/src/mint/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var _ domain.MintUsecase = (*Service)(nil)

// Both payment rails and the faucet token use 18 decimals.
const tokenDecimals = 18

type Options struct {
	UnitPrice        *big.Int
	ApprovalAmount   *big.Int
	GasFallbackLimit uint64
	GasMarginPercent uint64
	ResumeDelay      time.Duration
}

func OptionsFromConfig(cfg config.MintConfig) Options {
	return Options{
		UnitPrice:        ToWei(cfg.UnitPrice),
		ApprovalAmount:   ToWei(cfg.ApprovalAmount),
		GasFallbackLimit: cfg.GasFallbackLimit,
		GasMarginPercent: cfg.GasMarginPercent,
		ResumeDelay:      cfg.ApprovalResumeWait,
	}
}

func ToWei(d decimal.Decimal) *big.Int { return d.Shift(tokenDecimals).BigInt() }

func FromWei(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -tokenDecimals)
}

type inFlight int

const (
	flagMint inFlight = iota
	flagApprove
	flagFaucet
)

func flagFor(kind domain.TxKind) inFlight {
	switch kind {
	case domain.TxApprove:
		return flagApprove
	case domain.TxFaucetMint:
		return flagFaucet
	default:
		return flagMint
	}
}

type Service struct {
	gateway domain.ChainGateway
	logger  *logger.Logger
	opts    Options
	now     func() time.Time

	mu        sync.Mutex
	listeners []domain.ConfirmationListener
	observers []domain.TransitionObserver
	txs       map[uuid.UUID]*domain.TransactionState
	approval  domain.ApprovalState
	balances  domain.Balances
	flags     map[inFlight]bool

	// receipt watchers outlive the request that submitted the transaction
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewService(gateway domain.ChainGateway, logg *logger.Logger, opts Options) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		gateway: gateway,
		logger:  logg,
		opts:    opts,
		now:     time.Now,
		txs:     make(map[uuid.UUID]*domain.TransactionState),
		flags:   make(map[inFlight]bool),
		ctx:     ctx,
		cancel:  cancel,
	}
	return s
}

func (s *Service) AddConfirmationListener(l domain.ConfirmationListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Service) AddObserver(o domain.TransitionObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Wait blocks until every receipt watcher, including chained mints, is done.
func (s *Service) Wait() { s.wg.Wait() }

// Close stops watching receipts. Broadcast transactions are not affected.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Service) MintWithNativeToken(ctx context.Context, quantity int64) (*domain.MintResult, error) {
	owner, err := s.preflight(quantity)
	if err != nil {
		return nil, err
	}
	if !s.acquire(flagMint) {
		return nil, ErrMintInProgress
	}

	value := s.TotalPrice(quantity)
	s.logger.Infof("Minting %d token(s) for %s with native value %s wei", quantity, owner.Hex(), value)

	return s.submit(ctx, domain.TxMintNative, quantity, domain.ContractCall{
		Contract: domain.ContractNFT,
		Method:   "mintNative",
		Args:     []interface{}{big.NewInt(quantity)},
		Value:    value,
	}), nil
}

func (s *Service) MintWithFungibleToken(ctx context.Context, quantity int64) (*domain.MintResult, error) {
	owner, err := s.preflight(quantity)
	if err != nil {
		return nil, err
	}
	if !s.acquire(flagMint) {
		return nil, ErrMintInProgress
	}

	cost := s.TotalPrice(quantity)
	balance, err := s.gateway.TokenBalance(ctx, owner)
	if err != nil {
		s.release(flagMint)
		s.logger.Errorf("TokenBalance err: %v", err)
		return &domain.MintResult{Outcome: domain.OutcomeFailed, Message: truncateMessage(err.Error())}, nil
	}
	s.setTokenBalance(balance)

	if balance.Cmp(cost) < 0 {
		s.release(flagMint)
		return &domain.MintResult{
			Outcome: domain.OutcomeInsufficientBalance,
			Message: fmt.Sprintf("Insufficient token balance: need %s, have %s",
				FromWei(cost).StringFixed(4), FromWei(balance).StringFixed(4)),
		}, nil
	}

	allowance, err := s.gateway.Allowance(ctx, owner, s.gateway.SpenderAddress())
	if err != nil {
		s.release(flagMint)
		s.logger.Errorf("Allowance err: %v", err)
		return &domain.MintResult{Outcome: domain.OutcomeFailed, Message: truncateMessage(err.Error())}, nil
	}

	if allowance.Cmp(cost) < 0 {
		s.setGranted(false)
		s.logger.Infof("Allowance %s below cost %s, requesting approval before minting %d", allowance, cost, quantity)
		// the mint slot stays held until the chained mint is submitted
		res, err := s.approve(ctx, &quantity)
		if err != nil || res.Outcome != domain.OutcomeApprovalRequested {
			s.release(flagMint)
		}
		return res, err
	}

	s.setGranted(true)
	return s.submit(ctx, domain.TxMintERC20, quantity, erc20MintCall(quantity)), nil
}

func (s *Service) ApproveSpending(ctx context.Context) (*domain.MintResult, error) {
	if s.gateway.Account() == (common.Address{}) {
		return nil, ErrWalletNotConnected
	}
	return s.approve(ctx, nil)
}

func (s *Service) approve(ctx context.Context, pending *int64) (*domain.MintResult, error) {
	if !s.acquire(flagApprove) {
		return nil, ErrMintInProgress
	}
	if pending != nil {
		q := *pending
		s.mu.Lock()
		s.approval.PendingMintQuantity = &q
		s.mu.Unlock()
	}

	res := s.submit(ctx, domain.TxApprove, 0, domain.ContractCall{
		Contract: domain.ContractToken,
		Method:   "approve",
		Args:     []interface{}{s.gateway.SpenderAddress(), new(big.Int).Set(s.opts.ApprovalAmount)},
	})

	switch {
	case pending == nil:
	case res.Outcome == domain.OutcomeSubmitted:
		res.Outcome = domain.OutcomeApprovalRequested
		res.Message = fmt.Sprintf("Approval submitted; minting %d token(s) once it confirms", *pending)
	default:
		s.takePending()
	}
	return res, nil
}

func (s *Service) MintTestTokens(ctx context.Context, amount decimal.Decimal) (*domain.MintResult, error) {
	if s.gateway.Account() == (common.Address{}) {
		return nil, ErrWalletNotConnected
	}
	if !amount.IsPositive() || !amount.IsInteger() {
		return nil, ErrInvalidAmount
	}
	if !s.acquire(flagFaucet) {
		return nil, ErrMintInProgress
	}

	quantity := int64(math.MaxInt64)
	if amount.LessThanOrEqual(decimal.NewFromInt(math.MaxInt64)) {
		quantity = amount.IntPart()
	}
	return s.submit(ctx, domain.TxFaucetMint, quantity, domain.ContractCall{
		Contract: domain.ContractToken,
		Method:   "mint",
		Args:     []interface{}{ToWei(amount)},
	}), nil
}

func (s *Service) Transaction(id uuid.UUID) (*domain.TransactionState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return nil, false
	}
	cp := *tx
	return &cp, true
}

// Acknowledge discards a transaction once the UI has shown its terminal phase.
func (s *Service) Acknowledge(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return ErrTransactionNotFound
	}
	if !tx.Phase.Terminal() {
		return ErrTransactionNotFinal
	}
	delete(s.txs, id)
	return nil
}

func (s *Service) Status(ctx context.Context) (*domain.Status, error) {
	owner := s.gateway.Account()
	if owner == (common.Address{}) {
		return nil, ErrWalletNotConnected
	}
	if err := s.RefreshBalances(ctx); err != nil {
		s.logger.Errorf("RefreshBalances err: %v", err)
	}
	if err := s.RefreshApproval(ctx); err != nil {
		s.logger.Errorf("RefreshApproval err: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st := &domain.Status{
		Account:   owner,
		Approval:  s.approval,
		Balances:  s.balances,
		Minting:   s.flags[flagMint],
		Approving: s.flags[flagApprove],
		Faucet:    s.flags[flagFaucet],
		Active:    make([]domain.TransactionState, 0, len(s.txs)),
	}
	for _, tx := range s.txs {
		st.Active = append(st.Active, *tx)
	}
	sort.Slice(st.Active, func(i, j int) bool { return st.Active[i].CreatedAt.Before(st.Active[j].CreatedAt) })
	return st, nil
}

// RefreshBalances re-reads native and fungible balances of the connected account.
func (s *Service) RefreshBalances(ctx context.Context) error {
	owner := s.gateway.Account()
	native, nativeErr := s.gateway.NativeBalance(ctx, owner)
	token, tokenErr := s.gateway.TokenBalance(ctx, owner)

	s.mu.Lock()
	if nativeErr == nil {
		s.balances.Native = native
	}
	if tokenErr == nil {
		s.balances.Token = token
	}
	s.balances.UpdatedAt = s.now()
	s.mu.Unlock()

	var errs []error
	if nativeErr != nil {
		errs = append(errs, fmt.Errorf("native balance: %w", nativeErr))
	}
	if tokenErr != nil {
		errs = append(errs, fmt.Errorf("token balance: %w", tokenErr))
	}
	return errors.Join(errs...)
}

// RefreshApproval reads the on-chain allowance; approval counts as granted
// when it covers at least one token.
func (s *Service) RefreshApproval(ctx context.Context) error {
	owner := s.gateway.Account()
	allowance, err := s.gateway.Allowance(ctx, owner, s.gateway.SpenderAddress())
	if err != nil {
		return err
	}
	s.setGranted(allowance.Cmp(s.opts.UnitPrice) >= 0)
	return nil
}

func (s *Service) Approval() domain.ApprovalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.approval
	if a.PendingMintQuantity != nil {
		q := *a.PendingMintQuantity
		a.PendingMintQuantity = &q
	}
	return a
}

// ---------- LIFECYCLE ----------

func (s *Service) submit(ctx context.Context, kind domain.TxKind, quantity int64, call domain.ContractCall) *domain.MintResult {
	gas := s.gasLimit(ctx, call)
	amount := ""
	if kind == domain.TxFaucetMint {
		amount = FromWei(call.Args[0].(*big.Int)).String()
	}
	id := s.track(kind, quantity, amount)

	hash, err := s.gateway.Submit(ctx, call, gas)
	if err != nil {
		s.release(flagFor(kind))
		if isWalletRejection(err) {
			s.logger.Infof("%s cancelled by wallet: %v", kind, err)
			return &domain.MintResult{
				Outcome:     domain.OutcomeCancelled,
				Transaction: s.transition(id, domain.PhaseRejected, "", nil),
				Message:     "You rejected the transaction",
			}
		}
		s.logger.Errorf("%s submission err: %v", kind, err)
		msg := truncateMessage(err.Error())
		return &domain.MintResult{
			Outcome:     domain.OutcomeFailed,
			Transaction: s.transition(id, domain.PhaseFailed, msg, nil),
			Message:     msg,
		}
	}

	st := s.transition(id, domain.PhaseSubmitted, "", &hash)
	s.wg.Add(1)
	go s.watch(id, kind, hash)
	return &domain.MintResult{Outcome: domain.OutcomeSubmitted, Transaction: st}
}

func (s *Service) watch(id uuid.UUID, kind domain.TxKind, hash common.Hash) {
	defer s.wg.Done()
	s.transition(id, domain.PhaseConfirming, "", nil)

	receipt, err := s.gateway.WaitReceipt(s.ctx, hash)
	if err == nil && receipt.Status != types.ReceiptStatusSuccessful {
		err = errTransactionReverted
	}
	if err != nil {
		s.logger.Errorf("%s %s failed: %v", kind, hash.Hex(), err)
		if kind == domain.TxApprove && s.takePending() != nil {
			s.release(flagMint)
		}
		s.release(flagFor(kind))
		s.transition(id, domain.PhaseFailed, truncateMessage(err.Error()), nil)
		return
	}

	st := s.transition(id, domain.PhaseConfirmed, "", nil)
	s.release(flagFor(kind))
	if st != nil {
		s.onConfirmed(*st)
	}
}

func (s *Service) onConfirmed(tx domain.TransactionState) {
	switch {
	case tx.Kind == domain.TxApprove:
		s.setGranted(true)
		if pending := s.takePending(); pending != nil {
			s.resumePendingMint(*pending)
		}
	case tx.Kind == domain.TxFaucetMint:
		if err := s.RefreshBalances(s.ctx); err != nil {
			s.logger.Errorf("RefreshBalances err: %v", err)
		}
	case tx.Kind.IsMint():
		if err := s.RefreshBalances(s.ctx); err != nil {
			s.logger.Errorf("RefreshBalances err: %v", err)
		}
		owner := s.gateway.Account()
		s.mu.Lock()
		listeners := append([]domain.ConfirmationListener(nil), s.listeners...)
		s.mu.Unlock()
		for _, l := range listeners {
			l.OnMintConfirmed(s.ctx, owner, tx)
		}
	}
}

// resumePendingMint submits the mint that was waiting on an approval. The
// caller already holds the mint slot. The delay keeps the two wallet
// submissions from racing on the nonce.
func (s *Service) resumePendingMint(quantity int64) {
	if s.opts.ResumeDelay > 0 {
		t := time.NewTimer(s.opts.ResumeDelay)
		defer t.Stop()
		select {
		case <-s.ctx.Done():
			s.release(flagMint)
			s.logger.Infof("Pending mint of %d dropped: shutting down", quantity)
			return
		case <-t.C:
		}
	}
	res := s.submit(s.ctx, domain.TxMintERC20, quantity, erc20MintCall(quantity))
	s.logger.Infof("Resumed mint of %d after approval: %s", quantity, res.Outcome)
}

func (s *Service) gasLimit(ctx context.Context, call domain.ContractCall) uint64 {
	est, err := s.gateway.EstimateGas(ctx, call)
	if err != nil || est == 0 {
		s.logger.Debugf("gas estimation for %s failed, using fallback %d: %v", call.Method, s.opts.GasFallbackLimit, err)
		return s.opts.GasFallbackLimit
	}
	return withMargin(est, s.opts.GasMarginPercent)
}

func withMargin(gas, percent uint64) uint64 {
	return gas * (100 + percent) / 100
}

// ---------- STATE HELPERS ----------

func (s *Service) preflight(quantity int64) (common.Address, error) {
	owner := s.gateway.Account()
	if owner == (common.Address{}) {
		return owner, ErrWalletNotConnected
	}
	if quantity <= 0 {
		return owner, ErrInvalidQuantity
	}
	return owner, nil
}

// TotalPrice is unit price times quantity, in wei.
func (s *Service) TotalPrice(quantity int64) *big.Int {
	return new(big.Int).Mul(s.opts.UnitPrice, big.NewInt(quantity))
}

func (s *Service) acquire(f inFlight) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flags[f] {
		return false
	}
	s.flags[f] = true
	return true
}

func (s *Service) release(f inFlight) {
	s.mu.Lock()
	s.flags[f] = false
	s.mu.Unlock()
}

func (s *Service) setGranted(granted bool) {
	s.mu.Lock()
	s.approval.Granted = granted
	s.mu.Unlock()
}

func (s *Service) takePending() *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.approval.PendingMintQuantity
	s.approval.PendingMintQuantity = nil
	return p
}

func (s *Service) setTokenBalance(v *big.Int) {
	s.mu.Lock()
	s.balances.Token = v
	s.balances.UpdatedAt = s.now()
	s.mu.Unlock()
}

func (s *Service) track(kind domain.TxKind, quantity int64, amount string) uuid.UUID {
	now := s.now()
	tx := &domain.TransactionState{
		ID:        uuid.New(),
		Kind:      kind,
		Phase:     domain.PhaseIdle,
		Quantity:  quantity,
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	s.txs[tx.ID] = tx
	s.mu.Unlock()
	return tx.ID
}

func (s *Service) transition(id uuid.UUID, next domain.Phase, msg string, hash *common.Hash) *domain.TransactionState {
	s.mu.Lock()
	tx, ok := s.txs[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	if !tx.Phase.CanTransition(next) {
		s.logger.Errorf("illegal transition %s -> %s for %s", tx.Phase, next, id)
		cp := *tx
		s.mu.Unlock()
		return &cp
	}
	tx.Phase = next
	tx.ErrorMessage = msg
	if hash != nil {
		h := *hash
		tx.Hash = &h
	}
	tx.UpdatedAt = s.now()
	snapshot := *tx
	observers := append([]domain.TransitionObserver(nil), s.observers...)
	s.mu.Unlock()

	n := notificationFor(snapshot)
	for _, o := range observers {
		o.OnTransition(snapshot, n)
	}
	return &snapshot
}

func erc20MintCall(quantity int64) domain.ContractCall {
	return domain.ContractCall{
		Contract: domain.ContractNFT,
		Method:   "mintWithERC20",
		Args:     []interface{}{big.NewInt(quantity)},
	}
}
