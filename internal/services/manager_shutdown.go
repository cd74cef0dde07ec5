package services

import (
	"context"
)

// Shutdown stops taking campaigns, lets in-flight dispatches drain for at most
// the configured drain timeout, then stops the server and releases stores and
// connections in reverse order of creation. The collaborators keep serving
// during the drain since an all-in-one process dispatches to itself.
func (m *Manager) Shutdown(ctx context.Context) {
	m.stopOnce.Do(func() { m.shutdown(ctx) })
}

func (m *Manager) shutdown(ctx context.Context) {
	m.draining.Store(true)
	if m.server != nil {
		m.server.SetServing("", false)
	}

	if m.orch != nil {
		m.server.SetServing(crmServiceName, false)
		dctx, cancel := context.WithTimeout(ctx, m.cfg.CRM.DrainTimeout)
		m.logger.Info("Waiting for campaign dispatches to finish...")
		if err := m.orch.Supervisor().Shutdown(dctx); err != nil {
			m.logger.Warn("Campaign dispatches cancelled", "error", err)
		}
		cancel()
	}

	if m.server != nil {
		if err := m.server.Stop(ctx); err != nil {
			m.logger.Error("Error stopping server", "error", err)
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("Timeout waiting for background tasks")
	}

	for i := len(m.closers) - 1; i >= 0; i-- {
		c := m.closers[i]
		if err := c.c.Close(); err != nil {
			m.logger.Error("Error closing "+c.name, "error", err)
		}
	}
	m.logger.Info("Services stopped")
}
