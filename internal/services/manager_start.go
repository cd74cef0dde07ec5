package services

import (
	"context"
	"errors"
)

// Start serves every initialized service until ctx is done or Shutdown is
// called. It does not block; fatal server errors arrive on Err.
func (m *Manager) Start(ctx context.Context) error {
	if m.server == nil {
		return errors.New("services: Start called before Init")
	}

	for _, name := range m.serving {
		m.server.SetServing(name, true)
	}
	// The overall status answers /healthz.
	m.server.SetServing("", true)

	if m.limiter != nil {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.limiter.RunSweeper(ctx)
		}()
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.server.Start(ctx); err != nil {
			m.logger.Error("Server stopped", "error", err)
			select {
			case m.errCh <- err:
			default:
			}
		}
	}()

	m.logger.Info("Services started", "services", m.serving)
	return nil
}
