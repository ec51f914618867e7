package cron

import (
	"Converse/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine    *cron.Cron
	notifyJob *job.NotificationCleanJob
}

func NewCronManager(notifyJob *job.NotificationCleanJob) *Manager {
	return &Manager{
		engine:    cron.New(cron.WithSeconds()),
		notifyJob: notifyJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("@daily", s.notifyJob); err != nil {
		return err
	}
	return nil
}

// JobCount 已注册的任务数
func (s *Manager) JobCount() int {
	return len(s.engine.Entries())
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
