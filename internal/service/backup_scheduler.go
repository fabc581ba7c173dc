package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/backup"
	"github.com/Scriprto/steal-brainrot-shop/internal/model"
)

// Backuper uploads a copy of the durable record.
type Backuper interface {
	Backup(ctx context.Context, state *model.State) (backup.Object, error)
}

// BackupScheduler periodically uploads a snapshot of the shop.
type BackupScheduler struct {
	shop      *Shop
	backups   Backuper
	interval  time.Duration
	ticker    *time.Ticker
	stopCh    chan struct{}
	stopOnce  sync.Once
	isRunning bool
	mu        sync.Mutex
}

// NewBackupScheduler creates a scheduler. interval <= 0 defaults to one hour.
func NewBackupScheduler(shop *Shop, backups Backuper, interval time.Duration) *BackupScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &BackupScheduler{
		shop:     shop,
		backups:  backups,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the backup loop.
func (s *BackupScheduler) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.ticker = time.NewTicker(s.interval)
	s.mu.Unlock()

	log.Printf("[BackupScheduler] Started - Interval: %v", s.interval)
	go s.run()
}

func (s *BackupScheduler) run() {
	for {
		select {
		case <-s.ticker.C:
			if _, err := s.RunNow(); err != nil {
				log.Printf("[BackupScheduler] Error during backup: %v", err)
			}
		case <-s.stopCh:
			log.Printf("[BackupScheduler] Stopped")
			return
		}
	}
}

// Stop stops the backup loop. It is safe to call more than once.
func (s *BackupScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
		s.isRunning = false
	})
}

// RunNow uploads a snapshot immediately.
func (s *BackupScheduler) RunNow() (backup.Object, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	return s.backups.Backup(ctx, s.shop.Snapshot())
}
