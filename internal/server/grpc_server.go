package server

import (
	"fmt"
	"net"
)

func (s *serverImpl) runGRPCServer(errChan chan<- error) {
	lis := s.grpcLis
	if lis == nil {
		var err error
		lis, err = net.Listen("tcp", s.cfg.GRPCAddr())
		if err != nil {
			errChan <- fmt.Errorf("grpc listen error: %w", err)
			return
		}
	}
	s.logger.Info("Starting gRPC server", "addr", lis.Addr().String())
	if err := s.grpcServer.Serve(lis); err != nil {
		errChan <- fmt.Errorf("grpc server error: %w", err)
	}
}
