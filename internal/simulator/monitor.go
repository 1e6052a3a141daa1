package simulator

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"smartenergy/internal/logger"
)

// StartMonitor records the monitor as running and flips the policy flag on.
// Returns false when a loop is already active.
func (s *Store) StartMonitor(interval time.Duration, stop func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.monitor.running {
		return false
	}
	s.monitor = monitorState{
		running:   true,
		interval:  interval,
		startedAt: s.now().UTC(),
		stop:      stop,
	}
	s.auto.MonitorEnabled = true
	return true
}

// StopMonitor cancels the loop and clears the policy flag. Safe to call when
// nothing is running.
func (s *Store) StopMonitor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.monitor.stop != nil {
		s.monitor.stop()
	}
	s.monitor = monitorState{}
	s.auto.MonitorEnabled = false
}

// MonitorStatus reports the loop state for /auto/monitor/status.
func (s *Store) MonitorStatus() gin.H {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := gin.H{
		"ok":      true,
		"running": s.monitor.running,
	}
	if s.monitor.running {
		status["interval"] = int(s.monitor.interval.Seconds())
		status["started_at"] = s.monitor.startedAt.Format(time.RFC3339)
		status["checks"] = s.monitor.checks
		status["last_temp"] = s.monitor.lastTemp
		status["last_action"] = s.monitor.lastAct
	}
	return status
}

// RunMonitor ticks until ctx is canceled: each tick it samples the simulated
// outdoor temperature and applies the decide rule to the air conditioners.
func (s *Store) RunMonitor(ctx context.Context, tick time.Duration, log *logger.Logger) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			temp := outdoorTemperature(s.newRNG(nil), now, now.Hour())
			action, _ := s.Decide(temp)

			s.mu.Lock()
			s.monitor.checks++
			s.monitor.lastTemp = temp
			s.monitor.lastAct = action
			s.mu.Unlock()

			log.Debugw("monitor check", "temp", temp, "action", action)
		}
	}
}
