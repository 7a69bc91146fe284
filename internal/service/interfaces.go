package service

import (
	"context"

	"github.com/alexanderramin/toil/internal/contract"
	"github.com/alexanderramin/toil/internal/domain"
)

type SessionService interface {
	ClockIn(ctx context.Context, req contract.ClockInRequest) (*contract.ClockInResponse, error)
	ClockOut(ctx context.Context, req contract.ClockOutRequest) (*contract.ClockOutResponse, error)
	// Current returns the newest open session, or nil when none is running.
	Current(ctx context.Context) (*domain.Session, error)
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	List(ctx context.Context, req contract.ListSessionsRequest) ([]*domain.Session, error)
	Create(ctx context.Context, req contract.CreateSessionRequest) (*contract.CreateSessionResponse, error)
	Update(ctx context.Context, id string, req contract.UpdateSessionRequest) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

type SettingsService interface {
	// Get returns the stored settings, saving the defaults on first use.
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, patch domain.SettingsPatch) (*domain.Settings, error)
}

type SummaryService interface {
	Summary(ctx context.Context, req contract.SummaryRequest) (*contract.SummaryResponse, error)
}

type ReportService interface {
	Render(ctx context.Context, req contract.ReportRequest) (*contract.ReportResponse, error)
}
