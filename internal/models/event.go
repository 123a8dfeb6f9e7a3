package models

// LedgerEvent is the message published to the transactions topic after a
// ledger operation commits.
type LedgerEvent struct {
	EventID   string `json:"event_id"`  // EventID is a unique identifier for the published event.
	UserID    int64  `json:"user_id"`   // UserID is the account the record belongs to.
	Operation string `json:"operation"` // Operation is the transaction type, e.g. "CREDIT" or "SEND".
	Amount    string `json:"amount"`    // Amount is the record amount as a fixed-point string.
	Timestamp int64  `json:"timestamp"` // Timestamp is the Unix timestamp (in seconds) of the record.
}
