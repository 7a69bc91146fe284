package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/toil/internal/db"
	"github.com/alexanderramin/toil/internal/domain"
	"github.com/alexanderramin/toil/internal/repository"
)

type settingsService struct {
	uow      db.UnitOfWork
	opts     Options
	observer UseCaseObserver
}

func NewSettingsService(uow db.UnitOfWork, opts Options, observers ...UseCaseObserver) SettingsService {
	return &settingsService{
		uow:      uow,
		opts:     opts.withDefaults(),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *settingsService) Get(ctx context.Context) (settings *domain.Settings, err error) {
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		settings, err = loadOrCreateSettings(ctx, repository.NewSQLiteSettingsRepo(tx), s.opts.now(nil))
		return err
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, patch domain.SettingsPatch) (settings *domain.Settings, err error) {
	defer observe(ctx, s.observer, "update-settings", time.Now(), nil, &err)

	if err = patch.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteSettingsRepo(tx)
		now := s.opts.now(nil)

		current, err := loadOrCreateSettings(ctx, repo, now)
		if err != nil {
			return err
		}
		current.Apply(patch, now)
		if err := repo.Upsert(ctx, current); err != nil {
			return err
		}
		settings = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func loadOrCreateSettings(ctx context.Context, repo repository.SettingsRepo, now time.Time) (*domain.Settings, error) {
	current, err := repo.Get(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	defaults := domain.DefaultSettings(now)
	if err := repo.Upsert(ctx, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}
