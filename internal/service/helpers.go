package service

import (
	"context"

	"gorm.io/gorm"
)

// Background job queues consumed by the worker pool.
const (
	QueueConstancia = "jobs:constancia"
	QueueEmail      = "jobs:email"
)

// JobEnqueuer pushes a job onto a Redis queue. The worker Dispatcher is the
// production implementation; unit tests use an in-memory recorder.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, queue string, payload any) error
}

// VerificacionLauncher starts the automatic bank-confirmation poller for a
// freshly created digital payment. Implemented by verificacion.Manager.
type VerificacionLauncher interface {
	Lanzar(verificacionID string)
}

// runTx runs fn inside a transaction when a real DB handle is present.
// Unit tests wire repositories with a nil handle and fn runs directly, so
// service logic is testable without a database.
func runTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.Transaction(fn)
}
