package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/bookkeeping-ledger/internal/domain/account"
	"github.com/bookkeeping-ledger/internal/domain/ledger"
	"github.com/bookkeeping-ledger/internal/domain/report"
)

// ReportingServiceImpl implements the ReportingService interface.
// Projections are read-only and independent per account, so by-reason
// queries and statements fan out over a shared worker pool.
type ReportingServiceImpl struct {
	accountRepo account.Repository
	ledgerRepo  ledger.Repository
	pool        *ants.Pool
	logger      *slog.Logger
}

// NewReportingService creates a new reporting service with a worker pool of
// the given size
func NewReportingService(logger *slog.Logger, accountRepo account.Repository, ledgerRepo ledger.Repository, poolSize int) (*ReportingServiceImpl, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	return &ReportingServiceImpl{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		pool:        pool,
		logger:      logger,
	}, nil
}

// Release shuts down the worker pool
func (s *ReportingServiceImpl) Release() {
	s.pool.Release()
}

// ProjectAccount replays the journal into a T-account for one account.
// An empty reason means no reason filter.
func (s *ReportingServiceImpl) ProjectAccount(ctx context.Context, accountID uuid.UUID, reason string) (*report.TAccount, error) {
	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	lines, err := s.ledgerRepo.LinesByAccount(ctx, accountID, reason)
	if err != nil {
		return nil, err
	}

	return report.BuildTAccount(acc, lines), nil
}

// ProjectByReason projects every account touched by transactions with the
// given reason, in parallel on the worker pool. Accounts left with no
// matching entries after filtering are omitted; no matches at all yields an
// empty slice.
func (s *ReportingServiceImpl) ProjectByReason(ctx context.Context, reason string) ([]*report.TAccount, error) {
	ids, err := s.ledgerRepo.AccountIDsByReason(ctx, reason)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*report.TAccount{}, nil
	}

	views := make([]*report.TAccount, len(ids))
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		i, id := i, id
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			views[i], errs[i] = s.ProjectAccount(ctx, id, reason)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	results := make([]*report.TAccount, 0, len(views))
	for _, v := range views {
		if v != nil && len(v.Entries) > 0 {
			results = append(results, v)
		}
	}

	return results, nil
}

// GenerateStatement aggregates account balances by type over the date range.
// The range check only decides whether the statement short-circuits to zero;
// the balances themselves are each account's all-time final balance via the
// unfiltered projection, matching how the books have always been reported.
func (s *ReportingServiceImpl) GenerateStatement(ctx context.Context, start, end time.Time) (report.FinancialStatement, error) {
	exists, err := s.ledgerRepo.ExistsInDateRange(ctx, start, end)
	if err != nil {
		return report.FinancialStatement{}, err
	}
	if !exists {
		return report.ZeroStatement(start, end), nil
	}

	accounts, err := s.accountRepo.ListAll(ctx)
	if err != nil {
		return report.FinancialStatement{}, err
	}

	balances := make([]report.AccountBalance, len(accounts))
	errs := make([]error, len(accounts))

	var wg sync.WaitGroup
	for i, acc := range accounts {
		i, acc := i, acc
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			lines, err := s.ledgerRepo.LinesByAccount(ctx, acc.ID, "")
			if err != nil {
				errs[i] = err
				return
			}
			view := report.BuildTAccount(acc, lines)
			balances[i] = report.AccountBalance{Type: acc.Type, FinalBalance: view.FinalBalance}
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return report.FinancialStatement{}, err
	}

	return report.BuildStatement(start, end, balances), nil
}

// GenerateSummary returns the income-statement slice for the date range
func (s *ReportingServiceImpl) GenerateSummary(ctx context.Context, start, end time.Time) (report.ResultsSummary, error) {
	stmt, err := s.GenerateStatement(ctx, start, end)
	if err != nil {
		return report.ResultsSummary{}, err
	}
	return stmt.Summary(), nil
}
