package service

import (
	"context"
	"time"

	"github.com/alexanderramin/toil/internal/contract"
	"github.com/alexanderramin/toil/internal/domain"
	"github.com/alexanderramin/toil/internal/repository"
	"github.com/alexanderramin/toil/internal/toil"
)

type summaryService struct {
	sessions repository.SessionRepo
	settings SettingsService
	opts     Options
	observer UseCaseObserver
}

func NewSummaryService(
	sessions repository.SessionRepo,
	settings SettingsService,
	opts Options,
	observers ...UseCaseObserver,
) SummaryService {
	return &summaryService{
		sessions: sessions,
		settings: settings,
		opts:     opts.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Summary aggregates every session whose start falls on a local date inside
// the range. Missing bounds default to the fortnight ending today.
func (s *summaryService) Summary(ctx context.Context, req contract.SummaryRequest) (resp *contract.SummaryResponse, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "summary", time.Now(), fields, &err)

	loc := s.opts.Location
	now := s.opts.now(req.Now)
	to := domain.CoalesceStr(req.To, toil.DateString(now, loc))
	from := domain.CoalesceStr(req.From, shiftLocalDate(now, -(contract.DefaultSummaryDays-1), loc))
	fields["from"], fields["to"] = from, to

	start, end, err := localRange(from, to, loc)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessions.ListStartedBetween(ctx, start, end, false)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	flat := make([]domain.Session, 0, len(sessions))
	for _, sess := range sessions {
		flat = append(flat, *sess)
	}
	period := toil.Summarize(toil.DailyTotals(flat, *settings, loc))
	fields["sessions"] = len(sessions)
	fields["days"] = len(period.Days)

	return &contract.SummaryResponse{
		From:     from,
		To:       to,
		Zone:     loc.String(),
		Settings: *settings,
		Period:   period,
	}, nil
}
