package repository

import (
	"context"
	"time"

	"github.com/dkellogg/advancepay-service/internal/domain"
)

// RolloverRepository defines the interface for rollover data operations
type RolloverRepository interface {
	// ListByAccount retrieves all rollover records for a member account
	ListByAccount(ctx context.Context, account int64) ([]*domain.RolloverRecord, error)

	// GetByAccountAndSuffix retrieves the rollover record for a loan
	GetByAccountAndSuffix(ctx context.Context, account int64, suffix int) (*domain.RolloverRecord, error)

	// CreateAction appends a rollover action row for the posting process
	CreateAction(ctx context.Context, action *domain.RolloverAction) error

	// CreateRequestLog persists an audit row for a rollover request event
	CreateRequestLog(ctx context.Context, entry *domain.RolloverRequestLog) error

	// PurgeRequestLogs deletes audit rows created before the cutoff
	PurgeRequestLogs(ctx context.Context, before time.Time) (int64, error)
}

// InquiryRepository defines the interface for loan inquiry data operations
type InquiryRepository interface {
	// Create inserts a new loan inquiry and returns its record id
	Create(ctx context.Context, inquiry *domain.LoanInquiry) (int64, error)

	// GetByRecID retrieves a loan inquiry by record id
	GetByRecID(ctx context.Context, recID int64) (*domain.LoanInquiry, error)

	// MarkStaleFailed fails inquiries the decision engine never picked up
	MarkStaleFailed(ctx context.Context, cutoff time.Time) (int64, error)

	// GetEligibilityByAccount retrieves the new-loan eligibility row for an account
	GetEligibilityByAccount(ctx context.Context, account int64) (*domain.NewLoanEligible, error)
}
