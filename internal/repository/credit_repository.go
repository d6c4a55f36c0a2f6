package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"comicshare/internal/database"
	"comicshare/internal/models"
)

type creditRepository struct {
	db *sqlx.DB
}

func NewCreditRepository(db *sqlx.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) ListPackages(ctx context.Context) ([]models.CreditPackage, error) {
	packages := []models.CreditPackage{}

	query := `SELECT * FROM credit_packages WHERE active ORDER BY price_cents, package_id`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &packages, query); err != nil {
		return nil, fmt.Errorf("list credit packages: %w", err)
	}
	return packages, nil
}

func (r *creditRepository) GetPackage(ctx context.Context, packageID int) (*models.CreditPackage, error) {
	var pkg models.CreditPackage

	if err := database.Conn(ctx, r.db).GetContext(ctx, &pkg, `SELECT * FROM credit_packages WHERE package_id = $1`, packageID); err != nil {
		return nil, translate(err, "get credit package", "credit package not found")
	}
	return &pkg, nil
}

func (r *creditRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	tx.TransactionID = uuid.New().String()

	query := `
		INSERT INTO transactions (transaction_id, user_id, package_id, kind, amount, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := database.Conn(ctx, r.db).GetContext(ctx, &tx.CreatedAt, query,
		tx.TransactionID, tx.UserID, tx.PackageID, tx.Kind, tx.Amount, tx.BalanceAfter)
	if err != nil {
		return translate(err, "create transaction", "user not found")
	}
	return nil
}

func (r *creditRepository) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	items := []models.Transaction{}

	query := `
		SELECT * FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &items, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return items, nil
}
