/*
Package resilience provides the circuit breaker that guards layout persistence.

Each desktop writes through a breaker so a failing storage backend (full
disk, locked SQLite file) is tried a few times and then skipped. Sessions
keep working from memory until the backend recovers.

# Usage

	breaker := resilience.New("layout", resilience.Settings{
		Timeout: 10 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	err := breaker.Do(func() error {
		return store.Set(ctx, key, value)
	})
	if resilience.IsRejection(err) {
		// backend is being skipped
	}

# States

	Closed --[ReadyToTrip]-> Open --[Timeout]-> Half-Open --[MaxRequests successes]-> Closed
	                                               |
	                                           [failure]
	                                               v
	                                              Open
*/
package resilience
