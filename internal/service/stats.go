package service

import (
	"context"
	"runtime"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"
)

// Stats gathers store and process statistics for admins.
func (s *Shop) Stats(ctx context.Context) (map[string]interface{}, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	stats := make(map[string]interface{})
	stats["namespace"] = s.namespace
	stats["server_time"] = s.now().Format(time.RFC3339)

	s.mu.Lock()
	byStatus := map[model.ChatStatus]int{model.ChatOpen: 0, model.ChatClaimed: 0, model.ChatCompleted: 0}
	for _, c := range s.state.Chats {
		byStatus[c.Status]++
	}
	var stock int
	for _, it := range s.state.Items {
		stock += it.Stock
	}
	stats["catalog"] = map[string]interface{}{
		"items":           len(s.state.Items),
		"units_in_stock":  stock,
		"inventory_value": s.state.InventoryValue().String(),
	}
	stats["users"] = len(s.state.Users)
	stats["orders"] = len(s.state.Orders)
	stats["chats"] = map[string]interface{}{
		"total":     len(s.state.Chats),
		"open":      byStatus[model.ChatOpen],
		"claimed":   byStatus[model.ChatClaimed],
		"completed": byStatus[model.ChatCompleted],
	}
	s.mu.Unlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":   float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":     float64(memStats.Sys) / 1024 / 1024,
		"num_gc":     memStats.NumGC,
		"goroutines": runtime.NumGoroutine(),
	}

	if storeStats, err := s.repo.GetStats(ctx); err == nil {
		storeStats["status"] = "connected"
		stats["store"] = storeStats
	} else {
		stats["store"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	}
	return stats, nil
}

// Activity lists the activity log, newest first.
func (s *Shop) Activity(ctx context.Context, limit, offset int) ([]model.Activity, int64, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, 0, err
	}
	if s.activity == nil {
		return []model.Activity{}, 0, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.activity.List(ctx, limit, offset)
}
