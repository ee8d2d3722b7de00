package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dkellogg/advancepay-service/internal/domain"
)

type MockRolloverRepository struct {
	mock.Mock
}

func (m *MockRolloverRepository) ListByAccount(ctx context.Context, account int64) ([]*domain.RolloverRecord, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RolloverRecord), args.Error(1)
}

func (m *MockRolloverRepository) GetByAccountAndSuffix(ctx context.Context, account int64, suffix int) (*domain.RolloverRecord, error) {
	args := m.Called(ctx, account, suffix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RolloverRecord), args.Error(1)
}

func (m *MockRolloverRepository) CreateAction(ctx context.Context, action *domain.RolloverAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockRolloverRepository) CreateRequestLog(ctx context.Context, entry *domain.RolloverRequestLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRolloverRepository) PurgeRequestLogs(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockInquiryRepository struct {
	mock.Mock
}

func (m *MockInquiryRepository) Create(ctx context.Context, inquiry *domain.LoanInquiry) (int64, error) {
	args := m.Called(ctx, inquiry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInquiryRepository) GetByRecID(ctx context.Context, recID int64) (*domain.LoanInquiry, error) {
	args := m.Called(ctx, recID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanInquiry), args.Error(1)
}

func (m *MockInquiryRepository) MarkStaleFailed(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInquiryRepository) GetEligibilityByAccount(ctx context.Context, account int64) (*domain.NewLoanEligible, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NewLoanEligible), args.Error(1)
}
