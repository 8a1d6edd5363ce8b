// Package domain holds the normalized entities described in spec §3: the
// shapes every other component (classifier, trade extractor, lifecycle
// machine, reconciler, storage) passes between each other. Nothing in this
// package touches the ledger node or the store directly.
package domain

import (
	"time"

	"github.com/xrplwallet/indexer/internal/amount"
)

// Nature is the classifier's output category for a transaction (spec §3/§4.3).
type Nature string

const (
	NatureDeposit         Nature = "deposit"
	NatureWithdrawal      Nature = "withdrawal"
	NatureInternalTransfer Nature = "internal_transfer"
	NatureMarketTrade     Nature = "market_trade"
	NatureOfferOpen       Nature = "offer_open"
	NatureOfferFilled     Nature = "offer_filled"
	NatureOfferCancel     Nature = "offer_cancel"
	NatureOther           Nature = "other"
)

// BalanceChange is the signed per-currency delta for one account touched by
// a transaction (spec §3, produced by C2).
type BalanceChange struct {
	Account  string
	Balances []SignedAmount
}

// SignedAmount carries a currency/issuer pair with a signed decimal value;
// unlike amount.Amount (which is sign-free), callers here need the sign to
// tell a credit from a debit.
type SignedAmount struct {
	Currency string
	Issuer   string
	Value    amount.Amount // Value.Value holds the magnitude; Sign holds the direction
	Sign     int           // +1 credit, -1 debit, 0 zero
}

// Magnitude returns the unsigned Amount for this change.
func (s SignedAmount) Magnitude() amount.Amount {
	return amount.Amount{Currency: s.Currency, Issuer: s.Issuer, Value: s.Value.Value}
}

// OfferNodeKind mirrors xrplwire.NodeKind without requiring every consumer
// of domain types to import the wire package.
type OfferNodeKind int

const (
	OfferNodeCreated OfferNodeKind = iota
	OfferNodeModified
	OfferNodeDeleted
)

// OfferNode is the subset of AffectedNodes tagged with LedgerEntryType=Offer,
// carrying only what the classifier/trade-extractor/lifecycle machine need
// (spec §4.2 offer_nodes output).
type OfferNode struct {
	Kind          OfferNodeKind
	Account       string
	Sequence      uint32
	PreviousTxnID string

	// Original (pre-transaction) remaining amounts, when known.
	PreviousTakerGets *amount.Amount
	PreviousTakerPays *amount.Amount

	// Remaining amounts after the transaction, read from FinalFields (or
	// NewFields for a CreatedNode). A DeletedNode carries them in its
	// FinalFields; when absent, callers treat that as zero remaining.
	FinalTakerGets *amount.Amount
	FinalTakerPays *amount.Amount
}

// Trade is the maker-side record of one matched slice (spec §3/§4.4).
type Trade struct {
	Hash                  string
	LedgerIndex           int64
	Timestamp             time.Time
	TakerAddress          string
	MakerAddress          string
	SoldAmount            amount.Amount
	BoughtAmount          amount.Amount
	RelatedOfferSequence  *uint32
	RelatedOfferHash      *string
	UserID                *string
	FeeNative             amount.Amount
}

// Transaction is the raw payload enriched with derived fields (spec §3).
type Transaction struct {
	Hash          string
	LedgerIndex   int64
	Timestamp     time.Time
	Account       string
	Destination   string
	TransactionType string
	TransactionResult string
	Sequence      uint32
	OfferSequence uint32
	SourceTag     *int64

	FeeNative      amount.Amount
	BalanceChanges []BalanceChange
	OfferNodes     []OfferNode
	Nature         Nature
	Trades         []Trade

	TakerGets *amount.Amount
	TakerPays *amount.Amount
	Amount    *amount.Amount

	TagMatched   bool
	TradingPair  *string
}

// OfferStatus is the lifecycle status of an Offer entity (spec §3).
type OfferStatus string

const (
	OfferOpen             OfferStatus = "OPEN"
	OfferPartiallyFilled  OfferStatus = "PARTIALLY_FILLED"
	OfferFilled           OfferStatus = "FILLED"
	OfferCanceled         OfferStatus = "CANCELED"
)

// ResolutionMethod distinguishes an offer closed by an observed transaction
// from one inferred gone by the reconciler (spec §3/§4.6).
type ResolutionMethod string

const (
	ResolutionDirect   ResolutionMethod = "direct"
	ResolutionInferred ResolutionMethod = "inferred"
)

// Offer is the order-lifecycle entity, keyed by the creating transaction
// hash (spec §3).
type Offer struct {
	Hash               string
	Account            string
	Sequence           uint32
	UserID             string
	CreatedLedgerIndex int64
	LastCheckedLedger  int64
	ResolvedLedgerIndex *int64

	TakerGets amount.Amount
	TakerPays amount.Amount

	FilledGets *amount.Amount
	FilledPays *amount.Amount

	Status OfferStatus

	CreatedDate  time.Time
	ResolvedDate *time.Time

	CancelTxHash *string

	Trades []Trade

	CreateFeeNative amount.Amount
	CancelFeeNative *amount.Amount

	ResolutionMethod ResolutionMethod
}

// DepositWithdrawal is an immutable ledger-movement record (spec §3).
type DepositWithdrawal struct {
	Hash        string
	LedgerIndex int64
	Timestamp   time.Time
	FromAddress string
	ToAddress   string
	Amount      amount.Amount
	Type        Nature // one of deposit/withdrawal/internal_transfer
	UserID      string
	FeeNative   amount.Amount
}

// UserConfig is the set of wallets a user owns (spec §3).
type UserConfig struct {
	ID      string
	Wallets []string
}

// OwnsAddress reports whether addr is one of the user's wallets.
func (u UserConfig) OwnsAddress(addr string) bool {
	for _, w := range u.Wallets {
		if w == addr {
			return true
		}
	}
	return false
}
