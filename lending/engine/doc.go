// Package engine is the lending facade used by transports and collaborators.
//
// Each operation generates identifiers, reads the time from the injected clock,
// runs the matching command or query handler within the operation timeout
// and returns the resulting typed state. Mutations are read back with strong consistency,
// the plain read operations use eventual consistency and may lag behind.
//
// Typical use:
//
//	e := engine.New(eventStore, engine.WithPolicy(cfg.LendingPolicy()), engine.WithClaimIssuer(issuer))
//	loan, err := e.Borrow(ctx, bookID, memberID)
//	if errors.Is(err, core.ErrNoCopiesAvailable) {
//		reservation, err := e.Reserve(ctx, bookID, memberID)
//	}
package engine
