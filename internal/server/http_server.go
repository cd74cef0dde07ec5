package server

import (
	"errors"
	"fmt"
	"net/http"
)

func (s *serverImpl) initHTTPServer() {
	s.httpServer = &http.Server{
		Addr:         s.cfg.HTTPAddr(),
		Handler:      Chain(s.httpMux, s.recoveryMiddleware, s.loggingMiddleware),
		ReadTimeout:  s.cfg.HTTPReadTimeout,
		WriteTimeout: s.cfg.HTTPWriteTimeout,
		IdleTimeout:  s.cfg.HTTPIdleTimeout,
	}
}

func (s *serverImpl) runHTTPServer(errChan chan<- error) {
	var err error
	if s.httpLis != nil {
		s.logger.Info("Starting HTTP server", "addr", s.httpLis.Addr().String())
		err = s.httpServer.Serve(s.httpLis)
	} else {
		s.logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)
		err = s.httpServer.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		errChan <- fmt.Errorf("http server error: %w", err)
	}
}
