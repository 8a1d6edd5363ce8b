// Package walletpoller implements the Wallet Polling Loop (C7, spec §4.7):
// per-wallet pagination from a high-water-mark ledger index, dispatching
// each transaction through the classifier, metadata analyzer and lifecycle
// machine in strict ascending ledger-index order.
package walletpoller

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xrplwallet/indexer/internal/classify"
	"github.com/xrplwallet/indexer/internal/domain"
	"github.com/xrplwallet/indexer/internal/lifecycle"
	"github.com/xrplwallet/indexer/internal/metadata"
	"github.com/xrplwallet/indexer/internal/rpcclient"
	"github.com/xrplwallet/indexer/internal/storage"
	"github.com/xrplwallet/indexer/internal/xrplwire"
)

// DefaultPageLimit is the account_tx page size (spec §4.7 step 2).
const DefaultPageLimit = 400

// Poller drives one wallet's pagination cycle.
type Poller struct {
	rpc       *rpcclient.Client
	store     storage.Store
	lifecycle *lifecycle.Machine
	logger    *zap.Logger
	pageLimit int
	fromLedgerFloor int64
	sourceTag *int64
}

// New builds a Poller.
func New(rpc *rpcclient.Client, store storage.Store, machine *lifecycle.Machine, logger *zap.Logger, fromLedgerFloor int64, sourceTag *int64) *Poller {
	return &Poller{
		rpc:             rpc,
		store:           store,
		lifecycle:       machine,
		logger:          logger,
		pageLimit:       DefaultPageLimit,
		fromLedgerFloor: fromLedgerFloor,
		sourceTag:       sourceTag,
	}
}

// walletSet adapts a single user's wallet list to classify.WalletSet.
type walletSet struct {
	user domain.UserConfig
}

func (w walletSet) OwnsAddress(addr string) bool { return w.user.OwnsAddress(addr) }

// PollWallet processes one (user, wallet) pair per spec §4.7. It returns the
// new high-water-mark ledger index reached.
func (p *Poller) PollWallet(ctx context.Context, user domain.UserConfig, wallet string) (int64, error) {
	fromLedger := p.fromLedgerFloor
	if persisted, ok, err := p.store.GetLatestLedgerIndex(ctx, user.ID, wallet); err != nil {
		return fromLedger, fmt.Errorf("walletpoller: get_latest_ledger_index: %w", err)
	} else if ok && persisted > fromLedger {
		fromLedger = persisted
	}

	wallets := walletSet{user: user}

	var marker *xrplwire.AccountTxMarker
	for {
		select {
		case <-ctx.Done():
			return fromLedger, ctx.Err()
		default:
		}

		result, err := p.rpc.AccountTx(ctx, rpcclient.AccountTxRequest{
			Account:        wallet,
			LedgerIndexMin: fromLedger,
			Forward:        true,
			Limit:          p.pageLimit,
			Marker:         marker,
		})
		if err != nil {
			return fromLedger, fmt.Errorf("walletpoller: account_tx: %w", err)
		}

		for _, wireTx := range result.Transactions {
			if wireTx.Hash == "" {
				continue
			}
			if err := p.processTransaction(ctx, wireTx, user, wallets); err != nil {
				return fromLedger, err
			}
			if wireTx.LedgerIndex > fromLedger {
				fromLedger = wireTx.LedgerIndex
			}
		}

		if result.Marker == nil || len(result.Transactions) < 2 {
			break
		}
		marker = result.Marker
	}

	return fromLedger, nil
}

func (p *Poller) processTransaction(ctx context.Context, wireTx xrplwire.Transaction, user domain.UserConfig, wallets classify.WalletSet) error {
	analyzed := metadata.Analyze(wireTx, p.logger)

	tx := domain.Transaction{
		Hash:              wireTx.Hash,
		LedgerIndex:       wireTx.LedgerIndex,
		Timestamp:         epochTime(wireTx.TxJSON.Date),
		Account:           string(wireTx.TxJSON.Account),
		Destination:       string(wireTx.TxJSON.Destination),
		TransactionType:   wireTx.TxJSON.TransactionType,
		TransactionResult: wireTx.Meta.TransactionResult,
		Sequence:          wireTx.TxJSON.Sequence,
		OfferSequence:     wireTx.TxJSON.OfferSequence,
		SourceTag:         wireTx.TxJSON.SourceTag,
		FeeNative:         analyzed.FeeNative,
		BalanceChanges:    analyzed.BalanceChanges,
		OfferNodes:        analyzed.OfferNodes,
	}

	if p.sourceTag != nil {
		if tx.SourceTag != nil && *tx.SourceTag == *p.sourceTag {
			tx.TagMatched = true
		}
		if wireTx.TxJSON.TagSource != nil && *wireTx.TxJSON.TagSource == *p.sourceTag {
			tx.TagMatched = true
		}
	}

	if raw, ok := decodeCurrencyField(wireTx.TxJSON.TakerGets); ok {
		tx.TakerGets = &raw
	}
	if raw, ok := decodeCurrencyField(wireTx.TxJSON.TakerPays); ok {
		tx.TakerPays = &raw
	}
	if raw, ok := decodeCurrencyField(wireTx.TxJSON.Amount); ok {
		tx.Amount = &raw
	}

	if !analyzed.Valid {
		tx.Nature = domain.NatureOther
	} else {
		tx.Nature = classify.Classify(tx, wireTx.TxJSON.TransactionType, wireTx.Meta.TransactionResult, wallets)
	}

	if err := p.store.PutTransaction(ctx, tx, user.ID); err != nil {
		return fmt.Errorf("walletpoller: put_transaction: %w", err)
	}

	if err := p.lifecycle.Apply(ctx, tx, user.ID); err != nil {
		p.logger.Error("lifecycle apply failed", zap.String("hash", tx.Hash), zap.Error(err))
		return fmt.Errorf("walletpoller: lifecycle apply: %w", err)
	}

	return nil
}
