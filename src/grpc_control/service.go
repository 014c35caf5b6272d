package grpc_control

import (
	"context"
	"encoding/json"
	"fmt"
	"net"

	"portfolio-viewer/src/interfaces"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ControlService implements the PortfolioControlServer interface
type ControlService struct {
	UnimplementedPortfolioControlServer
	Portfolio interfaces.IPortfolioView
	Logger    *logger.Logger
}

// NewControlService creates a new instance of ControlService
func NewControlService(portfolio interfaces.IPortfolioView, log *logger.Logger) *ControlService {
	return &ControlService{
		Portfolio: portfolio,
		Logger:    log,
	}
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetState(ctx context.Context, req *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	return EncodeView(s.Portfolio.State())
}

// -----------------------------------------------------------------------------

// Load blocks until the triggered load has published its final view.
func (s *ControlService) Load(ctx context.Context, req *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	done := s.Portfolio.Load(ctx)
	select {
	case <-done:
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	}

	view := s.Portfolio.State()
	s.Logger.Info("gRPC: Load finished in state %s", view.Kind())
	return EncodeView(view)
}

// -----------------------------------------------------------------------------

func (s *ControlService) Search(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	query := req.GetValue()
	if !s.Portfolio.Search(query) {
		return nil, status.Errorf(codes.FailedPrecondition, "portfolio is %s, search needs content", s.Portfolio.State().Kind())
	}
	return EncodeView(s.Portfolio.State())
}

// -----------------------------------------------------------------------------
// Conversion
// -----------------------------------------------------------------------------

// EncodeView carries a view over the wire in its JSON shape.
func EncodeView(view models.PortfolioView) (*wrapperspb.BytesValue, error) {
	data, err := json.Marshal(view)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode view: %v", err)
	}
	return wrapperspb.Bytes(data), nil
}

// -----------------------------------------------------------------------------

// DecodeView is the inverse of EncodeView.
func DecodeView(b *wrapperspb.BytesValue) (models.PortfolioView, error) {
	return models.UnmarshalView(b.GetValue())
}

// -----------------------------------------------------------------------------
// Server
// -----------------------------------------------------------------------------

// ControlServer runs the control service on its own listener.
type ControlServer struct {
	Config  *models.MConfig
	Logger  *logger.Logger
	Service *ControlService
	grpc    *grpc.Server
}

func NewControlServer(cfg *models.MConfig, portfolio interfaces.IPortfolioView, log *logger.Logger) *ControlServer {
	grpcServer := grpc.NewServer()
	service := NewControlService(portfolio, log)
	RegisterPortfolioControlServer(grpcServer, service)

	return &ControlServer{
		Config:  cfg,
		Logger:  log,
		Service: service,
		grpc:    grpcServer,
	}
}

// -----------------------------------------------------------------------------

func (c *ControlServer) Start() error {
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", c.Config.GrpcHost, c.Config.GrpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}
	return c.Serve(lis)
}

// -----------------------------------------------------------------------------

func (c *ControlServer) Serve(lis net.Listener) error {
	c.Logger.Info("Starting gRPC Control Server on %s", lis.Addr())
	if err := c.grpc.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (c *ControlServer) Stop() error {
	c.grpc.GracefulStop()
	return nil
}
