package profile

import (
	"log/slog"

	"rolodex/internal/profile/handler"
	"rolodex/internal/profile/service"
	"rolodex/internal/profile/store"
)

// Service exposes profile orchestration.
type Service = service.Service

// Handler wires HTTP endpoints to the profile service.
type Handler = handler.Handler

// NewService constructs the profile service with required dependencies.
func NewService(profiles store.Store, logger *slog.Logger, opts ...service.Option) *Service {
	return service.New(profiles, logger, opts...)
}

// NewHandler constructs an HTTP handler for the profile routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
