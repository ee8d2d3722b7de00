package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dkellogg/advancepay-service/internal/config"
	"github.com/dkellogg/advancepay-service/internal/domain"
	"github.com/dkellogg/advancepay-service/internal/event"
	customError "github.com/dkellogg/advancepay-service/pkg/errors"
)

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func decPtr(v decimal.Decimal) *decimal.Decimal {
	return &v
}

func newRolloverTestConfig() *config.Config {
	return &config.Config{
		Rollover: config.RolloverConfig{
			CompletionTimeout: 200 * time.Millisecond,
			ListingCacheTTL:   time.Minute,
		},
	}
}

func newRolloverService(repo *MockRolloverRepository, bus *event.Bus) *RolloverService {
	completions := event.NewCompletionRegistry()
	completions.Attach(bus)

	return NewRolloverService(repo, bus, completions, nil, newRolloverTestConfig(), zap.NewNop())
}

// completeRequests pairs every published request event with a completion.
func completeRequests(bus *event.Bus, success bool, detail string) {
	bus.SubscribeRolloverRequested(func(ev event.RolloverRequested) {
		bus.PublishLoggingCompleted(event.RolloverLoggingCompleted{
			CorrelationID: ev.CorrelationID,
			Success:       success,
			FailureDetail: detail,
		})
	})
}

func TestSubmit_IneligibleLoanIsRejected(t *testing.T) {
	mockRepo := &MockRolloverRepository{}
	bus := event.NewBus()
	service := newRolloverService(mockRepo, bus)

	published := make(chan event.RolloverRequested, 1)
	bus.SubscribeRolloverRequested(func(ev event.RolloverRequested) { published <- ev })

	mockRepo.On("GetByAccountAndSuffix", mock.Anything, int64(1001), 3).Return(&domain.RolloverRecord{
		Account:    1001,
		LoanSuffix: intPtr(3),
		Qualify:    intPtr(0),
		Note:       "Other",
	}, nil)

	result := service.Submit(context.Background(), &domain.SubmitRolloverRequest{
		MemberAccountNumber: "1001",
		LoanSuffix:          3,
	})

	assert.False(t, result.Success)
	assert.Equal(t, IneligibleForRolloverMessage, result.FailureReason)
	assert.Equal(t, customError.ErrCodeIneligibleRollover, result.FailureCode)

	select {
	case <-published:
		t.Fatal("rejected submission must not publish a request event")
	case <-time.After(50 * time.Millisecond):
	}

	mockRepo.AssertNotCalled(t, "CreateAction", mock.Anything, mock.Anything)
}

func TestSubmit_CommitsActionOnSuccessfulLogging(t *testing.T) {
	mockRepo := &MockRolloverRepository{}
	bus := event.NewBus()
	service := newRolloverService(mockRepo, bus)
	completeRequests(bus, true, "")

	mockRepo.On("GetByAccountAndSuffix", mock.Anything, int64(1001), 3).Return(&domain.RolloverRecord{
		Account:      1001,
		LoanSuffix:   intPtr(3),
		Qualify:      intPtr(1),
		ResponseCode: strPtr("07"),
	}, nil)

	var written *domain.RolloverAction
	mockRepo.On("CreateAction", mock.Anything, mock.MatchedBy(func(action *domain.RolloverAction) bool {
		written = action
		return true
	})).Return(nil)

	result := service.Submit(context.Background(), &domain.SubmitRolloverRequest{
		MemberAccountNumber: "1001",
		LoanSuffix:          3,
	})

	assert.True(t, result.Success)
	assert.Empty(t, result.FailureReason)
	assert.NotEqual(t, result.CorrelationID.String(), "00000000-0000-0000-0000-000000000000")

	require.NotNil(t, written)
	assert.Equal(t, int64(1001), written.Account)
	assert.Equal(t, 3, written.LoanSuffix)
	require.NotNil(t, written.ResponseCode)
	assert.Equal(t, "07", *written.ResponseCode)
	assert.Equal(t, "0", written.PostResult)
	assert.Equal(t, "Y", written.NewInserted)

	mockRepo.AssertExpectations(t)
}

func TestSubmit_FailedLoggingWritesNothing(t *testing.T) {
	mockRepo := &MockRolloverRepository{}
	bus := event.NewBus()
	service := newRolloverService(mockRepo, bus)
	completeRequests(bus, false, "log table unavailable")

	mockRepo.On("GetByAccountAndSuffix", mock.Anything, int64(1001), 3).Return(&domain.RolloverRecord{
		Account:    1001,
		LoanSuffix: intPtr(3),
		Qualify:    intPtr(1),
	}, nil)

	result := service.Submit(context.Background(), &domain.SubmitRolloverRequest{
		MemberAccountNumber: "1001",
		LoanSuffix:          3,
	})

	assert.False(t, result.Success)
	assert.Equal(t, UnableToLogMessage, result.FailureReason)
	assert.Equal(t, customError.ErrCodeRolloverLogFailed, result.FailureCode)
	assert.Equal(t, "log table unavailable", result.ErrorDetail)

	mockRepo.AssertNotCalled(t, "CreateAction", mock.Anything, mock.Anything)
}

func TestSubmit_TimesOutWithoutCompletion(t *testing.T) {
	mockRepo := &MockRolloverRepository{}
	bus := event.NewBus()

	completions := event.NewCompletionRegistry()
	completions.Attach(bus)
	service := NewRolloverService(mockRepo, bus, completions, nil, newRolloverTestConfig(), zap.NewNop())

	mockRepo.On("GetByAccountAndSuffix", mock.Anything, int64(1001), 3).Return(&domain.RolloverRecord{
		Account:    1001,
		LoanSuffix: intPtr(3),
		Qualify:    intPtr(1),
	}, nil)

	result := service.Submit(context.Background(), &domain.SubmitRolloverRequest{
		MemberAccountNumber: "1001",
		LoanSuffix:          3,
	})

	assert.False(t, result.Success)
	assert.True(t, result.TimedOut)
	assert.Equal(t, customError.ErrCodeCompletionTimeout, result.FailureCode)
	assert.Equal(t, CompletionTimeoutMessage, result.FailureReason)
	assert.Equal(t, 0, completions.Pending())

	mockRepo.AssertNotCalled(t, "CreateAction", mock.Anything, mock.Anything)
}

func TestSubmit_PersistenceFailureIsBusinessLevel(t *testing.T) {
	mockRepo := &MockRolloverRepository{}
	bus := event.NewBus()
	service := newRolloverService(mockRepo, bus)
	completeRequests(bus, true, "")

	mockRepo.On("GetByAccountAndSuffix", mock.Anything, int64(1001), 3).Return(&domain.RolloverRecord{
		Account:    1001,
		LoanSuffix: intPtr(3),
		Qualify:    intPtr(1),
	}, nil)
	mockRepo.On("CreateAction", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	result := service.Submit(context.Background(), &domain.SubmitRolloverRequest{
		MemberAccountNumber: "1001",
		LoanSuffix:          3,
	})

	assert.False(t, result.Success)
	assert.Equal(t, customError.ErrCodeDatabaseError, result.FailureCode)
	assert.Equal(t, "insert failed", result.FailureReason)
	assert.Contains(t, result.ErrorDetail, customError.ErrCodeDatabaseError)
}

func TestSubmit_ConcurrentSubmissionsKeepTheirOwnCompletions(t *testing.T) {
	mockRepo := &MockRolloverRepository{}
	bus := event.NewBus()
	service := newRolloverService(mockRepo, bus)

	// Suffix 3 logs successfully, suffix 4 does not. Each waiter must see
	// only the completion for its own correlation id.
	bus.SubscribeRolloverRequested(func(ev event.RolloverRequested) {
		if ev.LoanSuffix == 4 {
			bus.PublishLoggingCompleted(event.RolloverLoggingCompleted{
				CorrelationID: ev.CorrelationID,
				Success:       false,
				FailureDetail: "suffix 4 rejected",
			})
			return
		}
		bus.PublishLoggingCompleted(event.RolloverLoggingCompleted{
			CorrelationID: ev.CorrelationID,
			Success:       true,
		})
	})

	for _, suffix := range []int{3, 4} {
		mockRepo.On("GetByAccountAndSuffix", mock.Anything, int64(1001), suffix).Return(&domain.RolloverRecord{
			Account:    1001,
			LoanSuffix: intPtr(suffix),
			Qualify:    intPtr(1),
		}, nil)
	}
	mockRepo.On("CreateAction", mock.Anything, mock.MatchedBy(func(action *domain.RolloverAction) bool {
		return action.LoanSuffix == 3
	})).Return(nil)

	var wg sync.WaitGroup
	results := make([]*domain.RolloverSubmission, 2)

	for i, suffix := range []int{3, 4} {
		wg.Add(1)
		go func(i, suffix int) {
			defer wg.Done()
			results[i] = service.Submit(context.Background(), &domain.SubmitRolloverRequest{
				MemberAccountNumber: "1001",
				LoanSuffix:          suffix,
			})
		}(i, suffix)
	}
	wg.Wait()

	assert.True(t, results[0].Success, "suffix 3 submission should commit")
	assert.False(t, results[0].TimedOut)

	assert.False(t, results[1].Success, "suffix 4 submission should fail")
	assert.False(t, results[1].TimedOut)
	assert.Equal(t, UnableToLogMessage, results[1].FailureReason)
	assert.Equal(t, "suffix 4 rejected", results[1].ErrorDetail)

	mockRepo.AssertExpectations(t)
}

func TestListRollovers_FiltersIncompleteAndIneligibleRecords(t *testing.T) {
	mockRepo := &MockRolloverRepository{}
	service := newRolloverService(mockRepo, event.NewBus())

	fee := decimal.NewFromInt(50)
	balance := decimal.NewFromInt(400)

	mockRepo.On("ListByAccount", mock.Anything, int64(1001)).Return([]*domain.RolloverRecord{
		{Account: 1001, LoanSuffix: intPtr(3), Qualify: intPtr(1), LoanFee: decPtr(fee), OriginalBalance: decPtr(balance)},
		{Account: 1001, LoanSuffix: intPtr(4), Qualify: intPtr(0), Note: "Rollover", LoanFee: decPtr(fee), OriginalBalance: decPtr(balance)},
		{Account: 1001, LoanSuffix: intPtr(5), Qualify: intPtr(0), Note: "Other", LoanFee: decPtr(fee), OriginalBalance: decPtr(balance)},
		{Account: 1001, LoanSuffix: intPtr(6), Qualify: intPtr(1), OriginalBalance: decPtr(balance)},
		{Account: 1001, Qualify: intPtr(1), LoanFee: decPtr(fee), OriginalBalance: decPtr(balance)},
	}, nil)

	listing, err := service.ListRollovers(context.Background(), "1001")
	require.NoError(t, err)

	require.Len(t, listing.Rollovers, 2)

	assert.Equal(t, 3, listing.Rollovers[0].LoanSuffix)
	assert.Equal(t, domain.RolloverQualified, listing.Rollovers[0].Status)
	assert.True(t, listing.Rollovers[0].QualificationDetails.FinanceCharge.Equal(fee))
	assert.True(t, listing.Rollovers[0].QualificationDetails.OriginalLoanAmount.Equal(balance))

	assert.Equal(t, 4, listing.Rollovers[1].LoanSuffix)
	assert.Equal(t, domain.RolloverProcessing, listing.Rollovers[1].Status)
}

func TestListRollovers_MalformedAccountReturnsEmptyListing(t *testing.T) {
	mockRepo := &MockRolloverRepository{}
	service := newRolloverService(mockRepo, event.NewBus())

	listing, err := service.ListRollovers(context.Background(), "12ab")
	require.NoError(t, err)
	assert.Empty(t, listing.Rollovers)

	mockRepo.AssertNotCalled(t, "ListByAccount", mock.Anything, mock.Anything)
}

func TestIsEligible(t *testing.T) {
	mockRepo := &MockRolloverRepository{}
	service := newRolloverService(mockRepo, event.NewBus())

	mockRepo.On("GetByAccountAndSuffix", mock.Anything, int64(1001), 3).Return(&domain.RolloverRecord{
		Account:    1001,
		LoanSuffix: intPtr(3),
		Qualify:    intPtr(1),
	}, nil)
	mockRepo.On("GetByAccountAndSuffix", mock.Anything, int64(1001), 4).Return(&domain.RolloverRecord{
		Account:    1001,
		LoanSuffix: intPtr(4),
		Qualify:    intPtr(0),
		Note:       "Rollover",
	}, nil)
	mockRepo.On("GetByAccountAndSuffix", mock.Anything, int64(1001), 9).Return(nil, sql.ErrNoRows)

	assert.True(t, service.IsEligible(context.Background(), "1001", "3"))
	assert.False(t, service.IsEligible(context.Background(), "1001", "4"))
	assert.False(t, service.IsEligible(context.Background(), "1001", "9"))
	assert.False(t, service.IsEligible(context.Background(), "not-a-number", "3"))
	assert.False(t, service.IsEligible(context.Background(), "1001", "x"))
}
