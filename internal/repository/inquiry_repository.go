package repository

import (
	"context"
	"time"

	"github.com/dkellogg/advancepay-service/internal/domain"

	"github.com/jmoiron/sqlx"
)

type inquiryRepository struct {
	db *sqlx.DB
}

func NewInquiryRepository(db *sqlx.DB) InquiryRepository {
	return &inquiryRepository{db: db}
}

// Create inserts the applicant and loan-terms columns only. new_inserted and
// tran_date carry database defaults ('Y', current timestamp) that the decision
// engine relies on.
func (r *inquiryRepository) Create(ctx context.Context, inquiry *domain.LoanInquiry) (int64, error) {
	query := `
		INSERT INTO pro_teletrack_inquiry (
			fname, lname, bd, ssn, add1, add2, city, st, zip, hphone, wphone, employer,
			acct, amount, transfer_pymt_source, case_id, collateral, pymt_amt, email, branch,
			loch, lomd, mmch, lofe, loch_trans_source
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25)
		RETURNING rec_id
	`

	var recID int64
	err := r.db.QueryRowContext(ctx, query,
		inquiry.FirstName,
		inquiry.LastName,
		inquiry.Birthdate,
		inquiry.SSN,
		inquiry.Address1,
		inquiry.Address2,
		inquiry.City,
		inquiry.State,
		inquiry.Zip,
		inquiry.HomePhone,
		inquiry.WorkPhone,
		inquiry.Employer,
		inquiry.Account,
		inquiry.Amount,
		inquiry.TransferSource,
		inquiry.CaseID,
		inquiry.Collateral,
		inquiry.PaymentAmount,
		inquiry.Email,
		inquiry.Branch,
		inquiry.LOCH,
		inquiry.LOMD,
		inquiry.MMCH,
		inquiry.LOFE,
		inquiry.LOCHTransSource,
	).Scan(&recID)
	if err != nil {
		return 0, err
	}

	return recID, nil
}

func (r *inquiryRepository) GetByRecID(ctx context.Context, recID int64) (*domain.LoanInquiry, error) {
	query := `
		SELECT rec_id, fname, lname, bd, ssn, add1, add2, city, st, zip, hphone, wphone, employer,
			acct, amount, transfer_pymt_source, case_id, collateral, pymt_amt, email, branch,
			loch, lomd, mmch, lofe, loch_trans_source,
			new_inserted, tran_date, new_suffix, decision,
			open_cos, skip_guard, consumer_dispute, social_guard
		FROM pro_teletrack_inquiry
		WHERE rec_id = $1
	`

	var inquiry domain.LoanInquiry
	err := r.db.GetContext(ctx, &inquiry, query, recID)
	if err != nil {
		return nil, err
	}

	return &inquiry, nil
}

func (r *inquiryRepository) MarkStaleFailed(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE pro_teletrack_inquiry
		SET new_inserted = 'N', decision = $1
		WHERE new_inserted = 'Y' AND tran_date < $2
	`

	result, err := r.db.ExecContext(ctx, query, domain.DecisionCodeUnknown, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *inquiryRepository) GetEligibilityByAccount(ctx context.Context, account int64) (*domain.NewLoanEligible, error) {
	query := `
		SELECT account, max_loan_amount
		FROM pro_advancepay_newloan_eligible
		WHERE account = $1
	`

	var eligible domain.NewLoanEligible
	err := r.db.GetContext(ctx, &eligible, query, account)
	if err != nil {
		return nil, err
	}

	return &eligible, nil
}
