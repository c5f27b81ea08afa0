package services

import (
	"context"
	"log"

	"campus-identity/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	revokedRepo repositories.RevokedTokenRepository
	cron        *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(revokedRepo repositories.RevokedTokenRepository) *CronService {
	return &CronService{
		revokedRepo: revokedRepo,
		cron:        cron.New(),
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() {
	// Ledger sweep at 03:00 daily: a refresh token past its own expiry can
	// never be presented again, so its blacklist entry is dead weight.
	s.cron.AddFunc("0 3 * * *", s.purgeExpiredRevokedTokens)

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) purgeExpiredRevokedTokens() {
	n, err := s.revokedRepo.DeleteExpired(context.Background())
	if err != nil {
		log.Printf("❌ Revoked token cleanup error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("✅ Purged %d expired revoked tokens", n)
	}
}
