// Package model defines domain models for chain activity ingestion.
package model

import "time"

// EventKind discriminates the raw chain event variants a transaction can carry.
type EventKind string

const (
	// KindPrint is an application-level payload emitted by a contract.
	KindPrint EventKind = "print"
	// KindNFTTransfer is an NFT mint or transfer event.
	KindNFTTransfer EventKind = "nft-transfer"
	// KindSTXTransfer is a native token transfer event.
	KindSTXTransfer EventKind = "stx-transfer"
)

// Event is one typed event attached to a transaction. Data is either an
// already-decoded structure or a hex string that still needs tuple decoding.
type Event struct {
	Kind EventKind
	Data any
}

// Transaction groups the events emitted by a single chain transaction.
type Transaction struct {
	TxID   string
	Events []Event
}

// Block scopes transactions to a height for rollback handling. Blocks are
// ephemeral: built fresh per ingested payload and never persisted standalone.
type Block struct {
	Height       uint64
	Hash         string
	Timestamp    time.Time
	Transactions []Transaction
}
