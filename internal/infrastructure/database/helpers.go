package database

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Close releases every connection of the pool. Safe to call more than once.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	log.Info().Msg("[DATABASE] closing connection pool")
	db.Pool.Close()
	db.Pool = nil
	return nil
}

// PoolStats is a point-in-time snapshot of the pool, exposed by /health.
type PoolStats struct {
	TotalConns      int32         `json:"totalConns"`
	IdleConns       int32         `json:"idleConns"`
	AcquiredConns   int32         `json:"acquiredConns"`
	MaxConns        int32         `json:"maxConns"`
	AcquireCount    int64         `json:"acquireCount"`
	AvgAcquireDelay time.Duration `json:"avgAcquireDelay"`
}

// Stats returns nil when the pool is not connected
func (db *PostgresDB) Stats() *PoolStats {
	if db.Pool == nil {
		return nil
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		TotalConns:      raw.TotalConns(),
		IdleConns:       raw.IdleConns(),
		AcquiredConns:   raw.AcquiredConns(),
		MaxConns:        raw.MaxConns(),
		AcquireCount:    raw.AcquireCount(),
		AvgAcquireDelay: calculateAvgDuration(raw.AcquireDuration(), raw.AcquireCount()),
	}
}

func calculateAvgDuration(totalDuration time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return totalDuration / time.Duration(count)
}
