// Package xrplwire defines the on-the-wire shapes returned by the ledger
// node's account_tx, account_offers and tx JSON-RPC methods (see spec §6).
// It is deliberately dumb: no classification or balance-delta logic lives
// here, only decoding the raw node response into typed Go values.
package xrplwire

import (
	"encoding/json"
	"fmt"

	xrpltypes "github.com/Peersyst/xrpl-go/xrpl/transaction/types"
)

// RippleEpochOffset is the number of seconds between the Unix epoch and the
// ripple epoch (2000-01-01T00:00:00Z), per spec §6.
const RippleEpochOffset int64 = 946684800

// LedgerEntryType enumerates the AffectedNodes entry types this indexer
// cares about. Unknown types decode fine but are ignored by the analyzer.
type LedgerEntryType string

const (
	EntryTypeOffer       LedgerEntryType = "Offer"
	EntryTypeAccountRoot LedgerEntryType = "AccountRoot"
	EntryTypeRippleState LedgerEntryType = "RippleState"
)

// NodeKind tags which of CreatedNode/ModifiedNode/DeletedNode a wire node was.
type NodeKind int

const (
	NodeCreated NodeKind = iota
	NodeModified
	NodeDeleted
)

func (k NodeKind) String() string {
	switch k {
	case NodeCreated:
		return "CreatedNode"
	case NodeModified:
		return "ModifiedNode"
	case NodeDeleted:
		return "DeletedNode"
	default:
		return "UnknownNode"
	}
}

// AffectedNode is the tagged-union decode of one entry in meta.AffectedNodes.
// The source data wraps the actual payload under exactly one of
// "CreatedNode"/"ModifiedNode"/"DeletedNode"; UnmarshalJSON flattens that
// into a single Kind-tagged struct instead of an untyped map, per spec §9.
type AffectedNode struct {
	Kind              NodeKind
	LedgerEntryType   LedgerEntryType
	LedgerIndex       string
	FinalFields       map[string]json.RawMessage
	PreviousFields    map[string]json.RawMessage
	NewFields         map[string]json.RawMessage
	PreviousTxnID     string
	PreviousTxnLgrSeq uint32
}

type rawNodeBody struct {
	LedgerEntryType   LedgerEntryType            `json:"LedgerEntryType"`
	LedgerIndex       string                     `json:"LedgerIndex"`
	FinalFields       map[string]json.RawMessage `json:"FinalFields"`
	PreviousFields    map[string]json.RawMessage `json:"PreviousFields"`
	NewFields         map[string]json.RawMessage `json:"NewFields"`
	PreviousTxnID     string                     `json:"PreviousTxnID"`
	PreviousTxnLgrSeq uint32                     `json:"PreviousTxnLgrSeq"`
}

// UnmarshalJSON decodes whichever of the three wrapper keys is present.
func (n *AffectedNode) UnmarshalJSON(data []byte) error {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}

	var kind NodeKind
	var body json.RawMessage
	switch {
	case wrapper["CreatedNode"] != nil:
		kind, body = NodeCreated, wrapper["CreatedNode"]
	case wrapper["ModifiedNode"] != nil:
		kind, body = NodeModified, wrapper["ModifiedNode"]
	case wrapper["DeletedNode"] != nil:
		kind, body = NodeDeleted, wrapper["DeletedNode"]
	default:
		return fmt.Errorf("xrplwire: affected node has none of CreatedNode/ModifiedNode/DeletedNode")
	}

	var raw rawNodeBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return err
	}

	*n = AffectedNode{
		Kind:              kind,
		LedgerEntryType:   raw.LedgerEntryType,
		LedgerIndex:       raw.LedgerIndex,
		FinalFields:       raw.FinalFields,
		PreviousFields:    raw.PreviousFields,
		NewFields:         raw.NewFields,
		PreviousTxnID:     raw.PreviousTxnID,
		PreviousTxnLgrSeq: raw.PreviousTxnLgrSeq,
	}
	return nil
}

// field reads a field out of FinalFields, falling back to NewFields (set on
// CreatedNode) when absent.
func (n *AffectedNode) field(name string) (json.RawMessage, bool) {
	if v, ok := n.FinalFields[name]; ok {
		return v, true
	}
	if v, ok := n.NewFields[name]; ok {
		return v, true
	}
	return nil, false
}

// Account returns the owning account of an Offer node, if present.
func (n *AffectedNode) Account() (xrpltypes.Address, bool) {
	raw, ok := n.field("Account")
	if !ok {
		return "", false
	}
	var addr xrpltypes.Address
	if err := json.Unmarshal(raw, &addr); err != nil {
		return "", false
	}
	return addr, true
}

// Sequence returns the OfferCreate sequence recorded on an Offer node.
func (n *AffectedNode) Sequence() (uint32, bool) {
	raw, ok := n.field("Sequence")
	if !ok {
		return 0, false
	}
	var seq uint32
	if err := json.Unmarshal(raw, &seq); err != nil {
		return 0, false
	}
	return seq, true
}

// CurrencyAmountField decodes a TakerGets/TakerPays-shaped field from
// FinalFields or PreviousFields.
func CurrencyAmountField(fields map[string]json.RawMessage, name string) (xrpltypes.CurrencyAmount, bool) {
	raw, ok := fields[name]
	if !ok {
		return nil, false
	}
	amt, err := xrpltypes.UnmarshalCurrencyAmount(raw)
	if err != nil {
		return nil, false
	}
	return amt, true
}

// TxJSON carries the top-level transaction fields the analyzer and
// classifier need. Only fields referenced by spec §4.2/§4.3 are modeled;
// every other field is ignored when decoding.
type TxJSON struct {
	Account        xrpltypes.Address     `json:"Account"`
	Destination    xrpltypes.Address     `json:"Destination,omitempty"`
	Fee            string                `json:"Fee"`
	TransactionType string               `json:"TransactionType"`
	Sequence       uint32                `json:"Sequence"`
	Date           int64                 `json:"date"`
	OfferSequence  uint32                `json:"OfferSequence,omitempty"`
	TakerGets      json.RawMessage       `json:"TakerGets,omitempty"`
	TakerPays      json.RawMessage       `json:"TakerPays,omitempty"`
	Amount         json.RawMessage       `json:"Amount,omitempty"`
	SourceTag      *int64                `json:"SourceTag,omitempty"`
	TagSource      *int64                `json:"TagSource,omitempty"`
}

// Meta is the decoded transaction metadata blob. Per spec §4.2, metadata can
// legitimately be absent or an unexpanded string placeholder; String holds
// that raw form so callers can detect it without a second decode pass.
type Meta struct {
	AffectedNodes     []AffectedNode
	TransactionResult string
	String            string
	valid             bool
}

// UnmarshalJSON accepts either an object (the normal case) or a bare JSON
// string (the "unexpanded metadata" failure mode spec §4.2 documents).
func (m *Meta) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		m.String = asString
		m.valid = false
		return nil
	}

	var obj struct {
		AffectedNodes     []AffectedNode `json:"AffectedNodes"`
		TransactionResult string         `json:"TransactionResult"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	m.AffectedNodes = obj.AffectedNodes
	m.TransactionResult = obj.TransactionResult
	m.valid = true
	return nil
}

// Valid reports whether metadata decoded as a proper object (not a string
// placeholder, not absent).
func (m *Meta) Valid() bool {
	return m != nil && m.valid
}

// Transaction is one entry returned by account_tx. The node is tolerant of
// both "meta"/"metaData" and "tx_json"/"tx" wrappers (spec §6); UnmarshalJSON
// below normalizes both before this struct is populated.
type Transaction struct {
	Hash        string  `json:"hash"`
	LedgerIndex int64   `json:"ledger_index"`
	Validated   bool    `json:"validated"`
	TxJSON      TxJSON  `json:"tx_json"`
	Meta        Meta    `json:"meta"`
}

type transactionAlias Transaction

// rawTransaction mirrors the node's actual field names before normalization.
type rawTransaction struct {
	Hash        string          `json:"hash"`
	LedgerIndex int64           `json:"ledger_index"`
	Validated   bool            `json:"validated"`
	TxJSON      json.RawMessage `json:"tx_json"`
	Tx          json.RawMessage `json:"tx"`
	Meta        json.RawMessage `json:"meta"`
	MetaData    json.RawMessage `json:"metaData"`
}

// UnmarshalJSON tolerates both "tx_json"/"tx" and "meta"/"metaData" keys.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw rawTransaction
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	txBody := raw.TxJSON
	if txBody == nil {
		txBody = raw.Tx
	}
	metaBody := raw.Meta
	if metaBody == nil {
		metaBody = raw.MetaData
	}

	alias := transactionAlias{
		Hash:        raw.Hash,
		LedgerIndex: raw.LedgerIndex,
		Validated:   raw.Validated,
	}
	if txBody != nil {
		if err := json.Unmarshal(txBody, &alias.TxJSON); err != nil {
			return fmt.Errorf("xrplwire: decoding tx_json: %w", err)
		}
	}
	if metaBody != nil {
		if err := json.Unmarshal(metaBody, &alias.Meta); err != nil {
			return fmt.Errorf("xrplwire: decoding meta: %w", err)
		}
	} else {
		alias.Meta.valid = false
	}

	*t = Transaction(alias)
	return nil
}

// RippleTimeToUnix converts a ripple-epoch-seconds timestamp (as carried in
// tx_json.date) into a Unix timestamp, per spec §6.
func RippleTimeToUnix(rippleSeconds int64) int64 {
	return rippleSeconds + RippleEpochOffset
}

// AccountOffer is one entry of account_offers' "offers" array.
type AccountOffer struct {
	Sequence uint32          `json:"seq"`
	Flags    uint32          `json:"flags"`
	TakerGets json.RawMessage `json:"taker_gets"`
	TakerPays json.RawMessage `json:"taker_pays"`
}

// AccountOffersResult is the decoded account_offers response.
type AccountOffersResult struct {
	Account           xrpltypes.Address `json:"account"`
	Offers            []AccountOffer    `json:"offers"`
	LedgerCurrentIndex int64            `json:"ledger_current_index"`
}

// AccountTxMarker is the opaque pagination cursor returned by account_tx.
type AccountTxMarker struct {
	Ledger int64 `json:"ledger"`
	Seq    int64 `json:"seq"`
}

// AccountTxResult is the decoded account_tx response.
type AccountTxResult struct {
	Transactions []Transaction    `json:"transactions"`
	Marker       *AccountTxMarker `json:"marker,omitempty"`
}
