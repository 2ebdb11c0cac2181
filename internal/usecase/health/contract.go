package health

import "context"

// DBPinger checks vector store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks an external provider's availability (embedding or
// generation API).
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}

// StoragePinger checks object storage availability.
type StoragePinger interface {
	Ping(ctx context.Context) error
}
