// Package chainhook normalizes the webhook payload shapes delivered by the
// chain-event notification vendor into one canonical block list.
//
// The vendor has shipped several top-level layouts over time: a direct
// apply-block list, the same list nested under "event", a single inline
// transaction, and a bare contract-log record. Each shape is detected by a
// predicate and extracted by a matching builder; the first matching rule
// wins and the order of the rules is part of the contract.
package chainhook

import (
	"strings"
	"time"

	"github.com/pulseboardhq/pulseboard-backend/internal/model"
	"github.com/pulseboardhq/pulseboard-backend/internal/utils"
)

// Result is the outcome of shape resolution. An empty Blocks slice means no
// recognizable shape was found, which is a no-op rather than an error.
type Result struct {
	Blocks   []model.Block
	Rollback []model.Block
}

// Normalize resolves one vendor payload into ordered blocks plus the
// rollback list. now supplies the fallback timestamp for synthetic blocks.
func Normalize(payload map[string]any, now time.Time) Result {
	return Result{
		Blocks:   resolveBlocks(payload, now),
		Rollback: rollbackBlocks(payload),
	}
}

func resolveBlocks(payload map[string]any, now time.Time) []model.Block {
	if list, ok := utils.AsSlice(payload["apply"]); ok {
		return parseBlocks(list)
	}

	event, ok := utils.AsMap(payload["event"])
	if !ok {
		return nil
	}
	if list, ok := utils.AsSlice(event["apply"]); ok {
		return parseBlocks(list)
	}
	if list, ok := utils.AsSlice(event["blocks"]); ok {
		return parseBlocks(list)
	}
	if hasInlineTransaction(event) {
		return []model.Block{syntheticBlock(event, parseTransaction(event), now)}
	}
	if log, ok := contractLog(event); ok {
		tx := model.Transaction{
			TxID:   transactionID(log),
			Events: []model.Event{{Kind: model.KindPrint, Data: log}},
		}
		return []model.Block{syntheticBlock(event, tx, now)}
	}
	return nil
}

// rollbackBlocks is checked independently of the apply shape: the rollback
// list may ride on the top level or nested under "event".
func rollbackBlocks(payload map[string]any) []model.Block {
	if list, ok := utils.AsSlice(payload["rollback"]); ok {
		return parseBlocks(list)
	}
	if event, ok := utils.AsMap(payload["event"]); ok {
		if list, ok := utils.AsSlice(event["rollback"]); ok {
			return parseBlocks(list)
		}
	}
	return nil
}

func hasInlineTransaction(event map[string]any) bool {
	return transactionID(event) != ""
}

func contractLog(event map[string]any) (map[string]any, bool) {
	if log, ok := utils.AsMap(event["contract_log"]); ok {
		return log, true
	}
	if log, ok := utils.AsMap(event["contract_event"]); ok {
		return log, true
	}
	return nil, false
}

// syntheticBlock wraps a single transaction in a block derived from whatever
// partial block fields the event carries. The hash defaults to empty and the
// timestamp to ingestion wall-clock time.
func syntheticBlock(event map[string]any, tx model.Transaction, now time.Time) model.Block {
	block := model.Block{
		Height:       utils.AsUint64(event["block_height"]),
		Hash:         utils.AsString(event["block_hash"]),
		Timestamp:    now,
		Transactions: []model.Transaction{tx},
	}
	if ts := utils.AsUint64(event["timestamp"]); ts > 0 {
		block.Timestamp = time.Unix(int64(ts), 0).UTC()
	}
	return block
}

func parseBlocks(list []any) []model.Block {
	blocks := make([]model.Block, 0, len(list))
	for _, entry := range list {
		if block, ok := parseBlock(entry); ok {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func parseBlock(v any) (model.Block, bool) {
	m, ok := utils.AsMap(v)
	if !ok {
		return model.Block{}, false
	}

	block := model.Block{
		Height: utils.AsUint64(m["block_height"]),
		Hash:   utils.AsString(m["block_hash"]),
	}
	if id, ok := utils.AsMap(m["block_identifier"]); ok {
		block.Height = utils.AsUint64(id["index"])
		block.Hash = utils.AsString(id["hash"])
	}
	if ts := utils.AsUint64(m["timestamp"]); ts > 0 {
		block.Timestamp = time.Unix(int64(ts), 0).UTC()
	}

	txs, _ := utils.AsSlice(m["transactions"])
	block.Transactions = make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if parsed, ok := utils.AsMap(tx); ok {
			block.Transactions = append(block.Transactions, parseTransaction(parsed))
		}
	}
	return block, true
}

func parseTransaction(m map[string]any) model.Transaction {
	tx := model.Transaction{TxID: transactionID(m)}

	events, ok := utils.AsSlice(m["events"])
	if !ok {
		if meta, found := utils.AsMap(m["metadata"]); found {
			if receipt, found := utils.AsMap(meta["receipt"]); found {
				events, _ = utils.AsSlice(receipt["events"])
			}
		}
	}

	tx.Events = make([]model.Event, 0, len(events))
	for _, entry := range events {
		event, ok := utils.AsMap(entry)
		if !ok {
			continue
		}
		tx.Events = append(tx.Events, model.Event{
			Kind: normalizeKind(utils.AsString(event["type"])),
			Data: event["data"],
		})
	}
	return tx
}

func transactionID(m map[string]any) string {
	if id, ok := utils.AsMap(m["transaction_identifier"]); ok {
		if hash := utils.AsString(id["hash"]); hash != "" {
			return hash
		}
	}
	if id := utils.AsString(m["tx_id"]); id != "" {
		return id
	}
	return utils.AsString(m["txid"])
}

// normalizeKind maps the vendor's event type spellings onto the three kinds
// the tracker understands. Unrecognized kinds pass through lowercased and
// are dropped later during classification.
func normalizeKind(raw string) model.EventKind {
	kind := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(kind, "print"), strings.Contains(kind, "smartcontract"), strings.Contains(kind, "smart_contract"):
		return model.KindPrint
	case strings.Contains(kind, "nft"):
		return model.KindNFTTransfer
	case strings.Contains(kind, "stx"):
		return model.KindSTXTransfer
	default:
		return model.EventKind(kind)
	}
}
