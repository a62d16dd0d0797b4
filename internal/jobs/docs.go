// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for ride dispatch.
//
// # Available Jobs
//
// 1. DispatchPendingOrdersJob - Runs every five seconds to retry the driver search for orders still waiting
// 2. RegistryMetricsJob - Runs every fifteen seconds to export the online driver count as a gauge
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(dispatchHandler, registry, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The dispatch job treats "no driver available" as a normal outcome; orders stay queued
// - The metrics job logs sampling failures and keeps the previous gauge value
// - Failed job starts will stop any already running jobs
package jobs
