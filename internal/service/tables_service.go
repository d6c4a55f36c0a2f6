package service

import (
	"context"

	"comicshare/internal/repository"
	"comicshare/internal/storage"
)

// TablesService backs the connectivity probes.
type TablesService interface {
	GetCountTablesDB(ctx context.Context) (int, error)
	CheckStorage(ctx context.Context) error
}

type tablesService struct {
	tablesRepo repository.TablesRepository
	storage    storage.Storage
}

func NewTablesService(tablesRepo repository.TablesRepository, store storage.Storage) TablesService {
	return &tablesService{tablesRepo: tablesRepo, storage: store}
}

func (t *tablesService) GetCountTablesDB(ctx context.Context) (int, error) {
	return t.tablesRepo.CountTablesDB(ctx)
}

func (t *tablesService) CheckStorage(ctx context.Context) error {
	return t.storage.Ping(ctx)
}
