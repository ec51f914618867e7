package job

import (
	"Converse/internal/api/config"
	"Converse/internal/pkg/mongo"
	"context"
	log "log/slog"
	"time"
)

// NotificationCleanJob 定期清理超过留存期的已读通知，未读的永远保留
type NotificationCleanJob struct {
	notifyRepo mongo.NotificationRepo
}

func NewNotificationCleanJob(notifyRepo mongo.NotificationRepo) *NotificationCleanJob {
	return &NotificationCleanJob{notifyRepo: notifyRepo}
}

func (s *NotificationCleanJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	retentionDays := config.Cfg.Notification.RetentionDays
	if retentionDays <= 0 {
		retentionDays = 30
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	log.Info("start notification cleanup job", "cutoff", cutoff)
	deleted, err := s.notifyRepo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		log.Error("notification cleanup failed", "err", err)
		return
	}
	log.Info("notification cleanup finished", "deleted", deleted)
}
