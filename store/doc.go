// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds every SQL statement the services run.

# Queries and Transactions

Queries wraps either the connection pool or a transaction, so the same
methods serve both:

	st := store.New(conn, dialect)
	s, err := st.GetSurvey(ctx, id)

	err = st.WithTx(ctx, func(tx *store.Queries) error {
		s, err := tx.LockSurvey(ctx, id)
		...
		return tx.RecomputeCounters(ctx, id, now)
	})

Inside WithTx, use only the tx argument. SQLite runs on a single
connection, so touching the Store from inside a transaction deadlocks.

# Errors

Missing rows come back as *models.NotFoundError. Driver failures come back
as *models.PersistenceError carrying the operation name.

# Placeholders

Statements use $N placeholders, which lib/pq and modernc.org/sqlite both accept.
*/
package store
