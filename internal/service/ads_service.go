package service

import (
	"context"

	"comicshare/internal/storage"
)

type AdsService interface {
	List(ctx context.Context, position string) ([]storage.Object, error)
}

type adsService struct {
	storage storage.Storage
}

func NewAdsService(store storage.Storage) AdsService {
	return &adsService{storage: store}
}

// List returns the creatives stored for one placement, e.g. "sidebar".
func (s *adsService) List(ctx context.Context, position string) ([]storage.Object, error) {
	prefix, err := storage.AdsPrefix(position)
	if err != nil {
		return nil, err
	}

	objects, err := s.storage.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if objects == nil {
		objects = []storage.Object{}
	}
	return objects, nil
}
