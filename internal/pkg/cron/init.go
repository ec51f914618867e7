package cron

import log "log/slog"

func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	log.Info("Cron Jobs started", "jobs", mgr.JobCount())
	return nil
}
