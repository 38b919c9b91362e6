package pgsql

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/corebank/bankledger/internal/apperrors"
	"github.com/corebank/bankledger/internal/core/domain"
	portsrepo "github.com/corebank/bankledger/internal/core/ports/repositories"
	"github.com/corebank/bankledger/internal/models"
	"github.com/corebank/bankledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxTransactionRepository creates a new repository for the append-only
// transaction log.
func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		Type:          models.TransactionType(d.Type),
		Amount:        d.Amount,
		Timestamp:     d.Timestamp,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		Timestamp:     m.Timestamp,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

func toDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = toDomainTransaction(m)
	}
	return ds
}

const insertTransactionQuery = `
	INSERT INTO transactions (transaction_id, account_id, type, amount, timestamp, created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

const insertOutboxEventQuery = `
	INSERT INTO outbox_events (event_id, topic, payload, status, attempts, last_error, created_at)
	VALUES ($1, $2, $3, $4, 0, '', $5);
`

// SaveTransfer executes the atomic unit of a transfer within one database
// transaction: lock both account rows (ascending account_id order), re-check
// the source balance under the lock, apply the debit and credit, append both
// log entries and queue the outbox event, then commit. On any failure nothing
// is persisted.
func (r *PgxTransactionRepository) SaveTransfer(ctx context.Context, debit domain.Transaction, credit domain.Transaction, event domain.OutboxEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored after a successful commit.
	defer r.Rollback(ctx, tx)

	accountIDs := []string{debit.AccountID, credit.AccountID}
	sort.Strings(accountIDs)

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	// Net balance change per account. For a self-transfer the debit and credit
	// collapse onto one account and sum to zero.
	balanceChanges := map[string]decimal.Decimal{}
	for _, txn := range []domain.Transaction{debit, credit} {
		balanceChanges[txn.AccountID] = balanceChanges[txn.AccountID].Add(txn.Amount)
	}

	// Authoritative funds check, now that the row is locked.
	source := lockedAccounts[debit.AccountID]
	if source.Balance.Add(balanceChanges[debit.AccountID]).IsNegative() {
		return fmt.Errorf("%w: account %s balance %s is less than transfer amount %s",
			apperrors.ErrInsufficientFunds, source.AccountID, source.Balance.String(), debit.Amount.Abs().String())
	}

	now := debit.CreatedAt
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, now); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, txn := range []domain.Transaction{debit, credit} {
		m := toModelTransaction(txn)
		batch.Queue(insertTransactionQuery,
			m.TransactionID, m.AccountID, m.Type, m.Amount, m.Timestamp, m.CreatedAt, m.LastUpdatedAt)
	}
	batch.Queue(insertOutboxEventQuery,
		event.EventID, event.Topic, event.Payload, string(event.Status), event.CreatedAt)

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("%w: failed to append transfer log entries: %v", apperrors.ErrTransient, err)
	}

	return r.Commit(ctx, tx)
}

// SaveTransactions persists a validated batch and its outbox event atomically.
func (r *PgxTransactionRepository) SaveTransactions(ctx context.Context, transactions []domain.Transaction, event domain.OutboxEvent) error {
	if len(transactions) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	for _, txn := range transactions {
		m := toModelTransaction(txn)
		batch.Queue(insertTransactionQuery,
			m.TransactionID, m.AccountID, m.Type, m.Amount, m.Timestamp, m.CreatedAt, m.LastUpdatedAt)
	}
	batch.Queue(insertOutboxEventQuery,
		event.EventID, event.Topic, event.Payload, string(event.Status), event.CreatedAt)

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("%w: failed to insert transaction batch: %v", apperrors.ErrTransient, err)
	}

	return r.Commit(ctx, tx)
}

// FindTransactionsByAccountID retrieves all transactions for an account,
// oldest first.
func (r *PgxTransactionRepository) FindTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, account_id, type, amount, timestamp, created_at, last_updated_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY timestamp, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	return scanTransactions(rows, accountID)
}

// FindTransactionsByAccountIDAndRange retrieves transactions for an account
// whose timestamps fall within [from, to].
func (r *PgxTransactionRepository) FindTransactionsByAccountIDAndRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, account_id, type, amount, timestamp, created_at, last_updated_at
		FROM transactions
		WHERE account_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s in range: %w", accountID, err)
	}
	defer rows.Close()

	return scanTransactions(rows, accountID)
}

// ListTransactionsByAccountID retrieves a paginated page of transactions for an
// account using token-based pagination, newest first.
func (r *PgxTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether there is a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT transaction_id, account_id, type, amount, timestamp, created_at, last_updated_at
		FROM transactions
		WHERE account_id = $1
	`
	// Ordering must be stable; transaction_id breaks timestamp ties.
	orderByClause := `ORDER BY timestamp DESC, transaction_id DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{accountID}

	if nextToken != nil && *nextToken != "" {
		lastTimestamp, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, decodeErr)
		}

		cursorClause := `AND (timestamp, transaction_id) < ($2, $3)`
		args = append(args, lastTimestamp, lastID)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transaction page for account %s: %w", accountID, err)
	}
	defer rows.Close()

	transactions, err := scanTransactions(rows, accountID)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	if len(transactions) > limit {
		last := transactions[limit-1]
		token := pagination.EncodeToken(last.Timestamp, last.TransactionID)
		nextTokenVal = &token
		transactions = transactions[:limit]
	}

	return transactions, nextTokenVal, nil
}

func scanTransactions(rows pgx.Rows, accountID string) ([]domain.Transaction, error) {
	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.TransactionID,
			&t.AccountID,
			&t.Type,
			&t.Amount,
			&t.Timestamp,
			&t.CreatedAt,
			&t.LastUpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row for account %s: %w", accountID, err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows for account %s: %w", accountID, err)
	}

	return toDomainTransactionSlice(transactions), nil
}
