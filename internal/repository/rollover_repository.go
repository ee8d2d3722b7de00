package repository

import (
	"context"
	"time"

	"github.com/dkellogg/advancepay-service/internal/domain"

	"github.com/jmoiron/sqlx"
)

type rolloverRepository struct {
	db *sqlx.DB
}

func NewRolloverRepository(db *sqlx.DB) RolloverRepository {
	return &rolloverRepository{db: db}
}

func (r *rolloverRepository) ListByAccount(ctx context.Context, account int64) ([]*domain.RolloverRecord, error) {
	query := `
		SELECT acct, sfx, qualify, note, resp_code, loan_fee, orig_bal
		FROM pro_advancepay_rollover
		WHERE acct = $1
		ORDER BY sfx
	`

	var records []*domain.RolloverRecord
	err := r.db.SelectContext(ctx, &records, query, account)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *rolloverRepository) GetByAccountAndSuffix(ctx context.Context, account int64, suffix int) (*domain.RolloverRecord, error) {
	query := `
		SELECT acct, sfx, qualify, note, resp_code, loan_fee, orig_bal
		FROM pro_advancepay_rollover
		WHERE acct = $1 AND sfx = $2
	`

	var record domain.RolloverRecord
	err := r.db.GetContext(ctx, &record, query, account, suffix)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *rolloverRepository) CreateAction(ctx context.Context, action *domain.RolloverAction) error {
	query := `
		INSERT INTO pro_advancepay_rollover_action (id, acct, sfx, resp_code, post_result, new_inserted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		action.ID,
		action.Account,
		action.LoanSuffix,
		action.ResponseCode,
		action.PostResult,
		action.NewInserted,
		action.CreatedAt,
	)

	return err
}

func (r *rolloverRepository) CreateRequestLog(ctx context.Context, entry *domain.RolloverRequestLog) error {
	query := `
		INSERT INTO pro_advancepay_rollover_request_log (id, correlation_id, acct, sfx, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.CorrelationID,
		entry.Account,
		entry.LoanSuffix,
		entry.CreatedAt,
	)

	return err
}

func (r *rolloverRepository) PurgeRequestLogs(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM pro_advancepay_rollover_request_log
		WHERE created_at < $1
	`

	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
