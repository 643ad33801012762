/*
Package ledger moves money between wallet balances.

Every mutating operation follows the same template:

	idempotency check → resolve wallets → validate → lock → mutate → record → commit

Balance rows are locked in ascending ID order inside a single unit of work,
so two operations touching the same pair of balances can never deadlock,
whichever direction the money flows. Either every balance change and every
transaction record of an operation commits, or none do.

Usage:

	svc := ledger.NewService(walletRepo, resolver, publisher, ledger.Config{}, metrics, logger)

	tx, err := svc.Fund(ctx, ledger.OperationRequest{
	    UserID:         userID,
	    Currency:       models.CurrencyNGN,
	    Amount:         decimal.RequireFromString("1000"),
	    IdempotencyKey: "fund-7f3a",
	})

Idempotency:

Re-submitting a request with a key already recorded for the user returns the
original transaction and changes nothing. When two submissions race, the unique
index on (user_id, idempotency_key) picks the winner and the loser returns the
winner's record.

Transfers:

A transfer writes two records, <key>_OUT on the sender and <key>_IN on the
receiver, linked only by the key suffix and counterparty metadata. The sender's
OUT record is returned.

Errors:

All failures are *errors.DomainError values with stable codes. Validation
errors are returned before any lock is taken; INSUFFICIENT_BALANCE is confirmed
under lock; LOCK_TIMEOUT and FX_PROVIDER_UNAVAILABLE are retryable with the
same key.
*/
package ledger
