package cleanup

import (
	"context"
	"log"
	"time"

	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/models"
)

// Sweeper periodically deletes guest accounts older than their TTL. Their
// tasks, subtasks, contacts and profiles go with them through the foreign
// key cascades, and the auth middleware rejects their tokens from then on.
type Sweeper struct {
	interval time.Duration
	ttl      time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewSweeper(interval time.Duration, ttl time.Duration) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		interval: interval,
		ttl:      ttl,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs an immediate sweep and then keeps sweeping on the interval
// until Stop is called.
func (s *Sweeper) Start() {
	log.Printf("Starting guest cleanup sweeper (interval %s, TTL %s)", s.interval, s.ttl)

	go func() {
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// Stop shuts the sweeper down
func (s *Sweeper) Stop() {
	log.Println("Stopping guest cleanup sweeper...")
	s.cancel()
}

func (s *Sweeper) sweep() {
	purged, err := s.PurgeExpiredGuests()

	if err != nil {
		log.Printf("Guest cleanup failed: %v", err)
		return
	}

	if purged > 0 {
		log.Printf("Purged %d expired guest accounts", purged)
	}
}

// PurgeExpiredGuests deletes every guest account created before the TTL
// cutoff and returns how many were removed.
func (s *Sweeper) PurgeExpiredGuests() (int64, error) {
	cutoff := time.Now().Add(-s.ttl)

	result := db.DB.Where("is_guest = ? AND created_at < ?", true, cutoff).Delete(&models.User{})

	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// Global sweeper instance
var globalSweeper *Sweeper

// Initialize creates and starts the global sweeper
func Initialize(interval time.Duration, ttl time.Duration) {
	globalSweeper = NewSweeper(interval, ttl)
	globalSweeper.Start()
}

// Shutdown stops the global sweeper
func Shutdown() {
	if globalSweeper != nil {
		globalSweeper.Stop()
	}
}
