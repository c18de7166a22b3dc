package main

import "os"
import "os/signal"
import "runtime/pprof"
import "syscall"

import "go.uber.org/zap"

// startProfile collects a CPU profile into default.pgo. The profile is
// flushed by the returned stop function or, if the run is interrupted, on
// SIGINT or SIGTERM before exiting with status 130.
func startProfile(logger *zap.Logger) (stop func()) {
	f, err := os.Create("default.pgo")
	if err != nil {
		logger.Warn("Cannot create profile", zap.Error(err))
		return func() {}
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		logger.Warn("Cannot start profile", zap.Error(err))
		f.Close()
		return func() {}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	finish := func() {
		pprof.StopCPUProfile()
		f.Close()
	}

	go func() {
		select {
		case <-sigChan:
			finish()
			logger.Sync()
			os.Exit(130)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
		finish()
		logger.Info("Wrote CPU profile", zap.String("path", "default.pgo"))
	}
}
