// Package reconcile provides the batch create-or-update engine used by the catalog
// bulk endpoints and the import command.
//
// A batch of candidate records, each carrying an external identifier and a set of
// field values, is matched against a Store keyed by that identifier. Every record
// lands in exactly one of three buckets:
//
//   - Created: no stored record matched and creation passed validation.
//   - Updated: a stored record matched and the partial update passed validation.
//   - Failed: the identifier was missing, validation failed, or the store errored.
//
// # Processing
//
// Records are processed sequentially in input order and each bucket keeps that
// order. A failing record never aborts the batch. A record that matched on lookup
// but vanished before the update (Store.Update returns ErrNotFound) falls through
// to creation. The lookup and the write are separate store calls, so concurrent
// writers against the same store may race between them.
//
// # Outcome
//
// The Outcome of a BatchResult is a pure function of which buckets are non-empty.
// Callers map it to a response status and decide which response keys to emit.
//
// # Dual-key resolution
//
// Resolve looks an entity up by external identifier first and falls back to the
// internal numeric id, returning a *NotFoundError naming the token on a double miss.
//
// # Usage
//
//	r := reconcile.New[*models.Video]()
//	result := r.Reconcile(ctx, records, store)
//	switch result.Outcome() {
//	case reconcile.OutcomeTotalFailure:
//	    // 400
//	}
package reconcile
