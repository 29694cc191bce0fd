package entity

import "github.com/fanlift/webhook-service/internal/domain/provider"

// ProviderFailureCount is one row of the failed-events-by-provider aggregate
type ProviderFailureCount struct {
	Provider provider.ProviderType `json:"provider"`
	Count    int64                 `json:"count"`
}

// SweepSummary reports what a single sweep cycle did
type SweepSummary struct {
	Scanned      int `json:"scanned"`
	Due          int `json:"due"`
	Requeued     int `json:"requeued"`
	DeadLettered int `json:"dead_lettered"`
	Reclaimed    int `json:"reclaimed"`
	Skipped      int `json:"skipped"`
}
