package service

import (
	"context"
	"fmt"

	"comicshare/internal/apperr"
	"comicshare/internal/auth"
	"comicshare/internal/database"
	"comicshare/internal/models"
	"comicshare/internal/repository"
)

type CreditService interface {
	Packages(ctx context.Context) ([]models.CreditPackage, error)
	Purchase(ctx context.Context, session *auth.Session, packageID int) (*models.Transaction, error)
	History(ctx context.Context, session *auth.Session, p Pagination) ([]models.Transaction, error)
}

type creditService struct {
	creditRepo  repository.CreditRepository
	profileRepo repository.ProfileRepository
	tx          database.Transactor
}

func NewCreditService(creditRepo repository.CreditRepository, profileRepo repository.ProfileRepository, tx database.Transactor) CreditService {
	return &creditService{creditRepo: creditRepo, profileRepo: profileRepo, tx: tx}
}

func (s *creditService) Packages(ctx context.Context) ([]models.CreditPackage, error) {
	return s.creditRepo.ListPackages(ctx)
}

// Purchase records the package as paid: the balance and the ledger row are
// written in one transaction.
func (s *creditService) Purchase(ctx context.Context, session *auth.Session, packageID int) (*models.Transaction, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	var record *models.Transaction
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		pkg, err := s.creditRepo.GetPackage(ctx, packageID)
		if err != nil {
			return err
		}
		if !pkg.Active {
			return apperr.NotFound("credit package not found")
		}

		balance, err := s.profileRepo.AddCredits(ctx, session.UserID, pkg.Credits)
		if err != nil {
			return err
		}

		record = &models.Transaction{
			UserID:       session.UserID,
			PackageID:    &pkg.PackageID,
			Kind:         models.TransactionPurchase,
			Amount:       pkg.Credits,
			BalanceAfter: balance,
		}
		return s.creditRepo.CreateTransaction(ctx, record)
	})
	if err != nil {
		return nil, fmt.Errorf("purchase credits: %w", err)
	}
	return record, nil
}

func (s *creditService) History(ctx context.Context, session *auth.Session, p Pagination) ([]models.Transaction, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	return s.creditRepo.ListTransactions(ctx, session.UserID, p.Limit(), p.Offset())
}
