// Package repositories implements SQLite persistence for OAuth tokens and search history.
//
// Key Implementations:
//   - [TokenRepository] : one OAuth token per service, upserted on login and on refresh
//   - [RunRepository] : completed sweeps with their concerts in result order
//
// Writes that touch more than one table run in a single transaction. Only the transaction handle is used
// inside it, so an in-memory database limited to one connection never deadlocks.
package repositories
