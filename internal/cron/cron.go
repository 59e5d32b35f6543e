package cron

import (
	"context"
	"log"
	"time"

	"github.com/ledgerline/ledgerline-backend/internal/repository"
	"github.com/robfig/cron/v3"
)

// How long an expired invitation stays visible before the purge removes it.
const expiredInvitationRetention = 30 * 24 * time.Hour

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron    *cron.Cron
	invRepo repository.InvitationRepository
}

// NewScheduler creates a new scheduler
func NewScheduler(invRepo repository.InvitationRepository) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		invRepo: invRepo,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every day at 3 AM - purge long-expired invitations
	s.cron.AddFunc("0 3 * * *", func() {
		log.Println("[Cron] Running expired invitation purge...")
		s.purgeExpiredInvitations()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

// purgeExpiredInvitations deletes invitations whose expiry passed more than
// the retention window ago. Recently expired invitations are kept so admins
// still see them listed with an expired status.
func (s *Scheduler) purgeExpiredInvitations() {
	ctx := context.Background()

	cutoff := time.Now().Add(-expiredInvitationRetention)
	deleted, err := s.invRepo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		log.Printf("[Cron] Error purging expired invitations: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[Cron] Purged %d expired invitations", deleted)
	}
}

// ManualTrigger allows manual triggering of scheduled checks (for testing)
func (s *Scheduler) ManualTrigger(checkType string) {
	switch checkType {
	case "invitation_purge", "all":
		s.purgeExpiredInvitations()
	}
}
