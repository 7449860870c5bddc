package service

import "gorm.io/gorm"

// TxRunner wraps database transaction control so services stay testable
// with mocked repositories. Every purchase mutation runs inside one
// transaction: header write, lot writes, dues adjustment and the audit row
// commit or roll back together.
type TxRunner interface {
	Do(fn func(tx *gorm.DB) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db}
}

func (r *gormTxRunner) Do(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// Broadcaster publishes events to connected clients. Implemented by the
// websocket hub; a no-op implementation is used in tests.
type Broadcaster interface {
	Publish(event interface{})
}

// DocumentStore removes stored purchase document files. The save side lives
// at the HTTP boundary (multipart handling); services only ever discard.
type DocumentStore interface {
	Remove(name string) error
}
