package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dkellogg/advancepay-service/internal/config"
	"github.com/dkellogg/advancepay-service/internal/domain"
	"github.com/dkellogg/advancepay-service/internal/event"
	"github.com/dkellogg/advancepay-service/internal/repository"
	customError "github.com/dkellogg/advancepay-service/pkg/errors"
)

// Fixed failure reasons returned to the member.
const (
	UnableToLogMessage           = "Unable to log the rollover request."
	IneligibleForRolloverMessage = "The loan for which this rollover request was made is not eligible for rollover at this time."
	CompletionTimeoutMessage     = "The rollover request could not be confirmed in time. Please try again."
)

// RolloverService reads rollover qualification records and drives rollover
// submissions end to end: eligibility check, request event, logging
// completion, action row.
type RolloverService struct {
	repo        repository.RolloverRepository
	bus         *event.Bus
	completions *event.CompletionRegistry
	redis       *redis.Client
	config      *config.Config
	logger      *zap.Logger
}

func NewRolloverService(
	repo repository.RolloverRepository,
	bus *event.Bus,
	completions *event.CompletionRegistry,
	redisClient *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *RolloverService {
	return &RolloverService{
		repo:        repo,
		bus:         bus,
		completions: completions,
		redis:       redisClient,
		config:      cfg,
		logger:      logger,
	}
}

// ListRollovers returns one entry per rollover record for the account that has
// a determinable status and complete loan terms. Records that are ineligible
// or missing suffix, fee or original balance are omitted, not reported as
// errors. A malformed account number yields an empty listing.
func (s *RolloverService) ListRollovers(ctx context.Context, memberAccountNumber string) (*domain.RolloverListResponse, error) {
	response := &domain.RolloverListResponse{
		MemberAccountNumber: memberAccountNumber,
		Rollovers:           []*domain.RolloverInfo{},
	}

	account, err := strconv.ParseInt(memberAccountNumber, 10, 64)
	if err != nil {
		return response, nil
	}

	if cached := s.cachedListing(ctx, account); cached != nil {
		response.Rollovers = cached
		return response, nil
	}

	records, err := s.repo.ListByAccount(ctx, account)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	for _, record := range records {
		status := domain.ClassifyRollover(record)

		// Skip loans that are not qualified or processing, and loan
		// records missing required terms.
		if status == domain.RolloverIneligible || record.LoanSuffix == nil ||
			record.LoanFee == nil || record.OriginalBalance == nil {
			continue
		}

		response.Rollovers = append(response.Rollovers, &domain.RolloverInfo{
			LoanSuffix:  *record.LoanSuffix,
			Status:      status,
			StatusLabel: status.String(),
			QualificationDetails: domain.QualificationDetails{
				FinanceCharge:      *record.LoanFee,
				OriginalLoanAmount: *record.OriginalBalance,
			},
		})
	}

	s.cacheListing(ctx, account, response.Rollovers)

	return response, nil
}

// IsEligible reports whether the loan is currently qualified for rollover.
// Malformed identifiers and missing records yield false rather than an error.
func (s *RolloverService) IsEligible(ctx context.Context, memberAccountNumber, loanAccountNumber string) bool {
	suffix, err := strconv.Atoi(loanAccountNumber)
	if err != nil {
		return false
	}

	account, err := strconv.ParseInt(memberAccountNumber, 10, 64)
	if err != nil {
		return false
	}

	record, err := s.repo.GetByAccountAndSuffix(ctx, account, suffix)
	if err != nil {
		return false
	}

	return domain.ClassifyRollover(record) == domain.RolloverQualified
}

// Submit executes one rollover submission: verify the loan is qualified,
// publish a correlated request event, wait for its logging completion, then
// write the action row. Business failures, including the completion timeout,
// are reported through the result and never as a raw error.
func (s *RolloverService) Submit(ctx context.Context, request *domain.SubmitRolloverRequest) *domain.RolloverSubmission {
	account, err := strconv.ParseInt(request.MemberAccountNumber, 10, 64)
	if err != nil {
		return &domain.RolloverSubmission{
			Success:       false,
			FailureReason: IneligibleForRolloverMessage,
			FailureCode:   customError.ErrCodeValidationError,
		}
	}

	record, err := s.repo.GetByAccountAndSuffix(ctx, account, request.LoanSuffix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.RolloverSubmission{
				Success:       false,
				FailureReason: IneligibleForRolloverMessage,
				FailureCode:   customError.ErrCodeIneligibleRollover,
			}
		}
		return &domain.RolloverSubmission{
			Success:       false,
			FailureReason: customError.WrapDatabaseError(err).Message,
			FailureCode:   customError.ErrCodeDatabaseError,
			ErrorDetail:   err.Error(),
		}
	}

	// If the loan is not eligible for rollover, do not submit the request.
	if domain.ClassifyRollover(record) != domain.RolloverQualified {
		return &domain.RolloverSubmission{
			Success:       false,
			FailureReason: IneligibleForRolloverMessage,
			FailureCode:   customError.ErrCodeIneligibleRollover,
		}
	}

	correlationID := uuid.New()

	// Register the waiter before publishing so the completion cannot be
	// delivered before anyone is listening for it.
	completionCh := s.completions.Register(correlationID)

	s.bus.PublishRolloverRequested(event.RolloverRequested{
		CorrelationID:       correlationID,
		MemberAccountNumber: request.MemberAccountNumber,
		Account:             account,
		LoanSuffix:          request.LoanSuffix,
		RequestedAt:         time.Now(),
	})

	select {
	case completion := <-completionCh:
		return s.finishSubmission(ctx, request, record, account, correlationID, completion)

	case <-time.After(s.config.Rollover.CompletionTimeout):
		s.completions.Cancel(correlationID)
		s.logger.Warn("rollover completion timed out",
			zap.String("correlation_id", correlationID.String()),
			zap.Int64("account", account),
		)
		return &domain.RolloverSubmission{
			Success:       false,
			FailureReason: CompletionTimeoutMessage,
			FailureCode:   customError.ErrCodeCompletionTimeout,
			TimedOut:      true,
			CorrelationID: correlationID,
		}

	case <-ctx.Done():
		s.completions.Cancel(correlationID)
		return &domain.RolloverSubmission{
			Success:       false,
			FailureReason: CompletionTimeoutMessage,
			FailureCode:   customError.ErrCodeCompletionTimeout,
			ErrorDetail:   ctx.Err().Error(),
			TimedOut:      true,
			CorrelationID: correlationID,
		}
	}
}

func (s *RolloverService) finishSubmission(
	ctx context.Context,
	request *domain.SubmitRolloverRequest,
	record *domain.RolloverRecord,
	account int64,
	correlationID uuid.UUID,
	completion event.RolloverLoggingCompleted,
) *domain.RolloverSubmission {
	if !completion.Success {
		return &domain.RolloverSubmission{
			Success:       false,
			FailureReason: UnableToLogMessage,
			FailureCode:   customError.ErrCodeRolloverLogFailed,
			ErrorDetail:   completion.FailureDetail,
			CorrelationID: correlationID,
		}
	}

	action := &domain.RolloverAction{
		ID:           uuid.New(),
		Account:      account,
		LoanSuffix:   request.LoanSuffix,
		ResponseCode: record.ResponseCode,
		PostResult:   "0",
		NewInserted:  "Y",
		CreatedAt:    time.Now(),
	}

	if err := s.repo.CreateAction(ctx, action); err != nil {
		wrapped := customError.WrapDatabaseError(err)
		s.logger.Error("rollover action write failed",
			zap.String("correlation_id", correlationID.String()),
			zap.Int64("account", account),
			zap.Error(err),
		)
		return &domain.RolloverSubmission{
			Success:       false,
			FailureReason: err.Error(),
			FailureCode:   customError.ErrCodeDatabaseError,
			ErrorDetail:   wrapped.Error(),
			CorrelationID: correlationID,
		}
	}

	s.invalidateListing(ctx, account)

	s.logger.Info("rollover request committed",
		zap.String("correlation_id", correlationID.String()),
		zap.Int64("account", account),
		zap.Int("loan_suffix", request.LoanSuffix),
	)

	return &domain.RolloverSubmission{
		Success:       true,
		CorrelationID: correlationID,
	}
}

func listingCacheKey(account int64) string {
	return fmt.Sprintf("advancepay:rollovers:%d", account)
}

func (s *RolloverService) cachedListing(ctx context.Context, account int64) []*domain.RolloverInfo {
	if s.redis == nil {
		return nil
	}

	payload, err := s.redis.Get(ctx, listingCacheKey(account)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("rollover listing cache read failed", zap.Error(err))
		}
		return nil
	}

	var rollovers []*domain.RolloverInfo
	if err := json.Unmarshal([]byte(payload), &rollovers); err != nil {
		return nil
	}

	return rollovers
}

func (s *RolloverService) cacheListing(ctx context.Context, account int64, rollovers []*domain.RolloverInfo) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(rollovers)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, listingCacheKey(account), payload, s.config.Rollover.ListingCacheTTL).Err(); err != nil {
		s.logger.Debug("rollover listing cache write failed", zap.Error(err))
	}
}

func (s *RolloverService) invalidateListing(ctx context.Context, account int64) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, listingCacheKey(account)).Err(); err != nil {
		s.logger.Debug("rollover listing cache invalidation failed", zap.Error(err))
	}
}
