package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds the transaction applying a single event.
	DefaultTransactionTimeout = 10 * time.Second

	// BillingCursorID names the cursor of the billing event stream.
	BillingCursorID = "billing"

	// ReconcilePageSize is how many accounts a reconciliation report lists per page.
	ReconcilePageSize = 1000
)
