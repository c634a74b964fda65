package service

import (
	"context"
	"fmt"

	"pelican/internal/encoder"
	"pelican/internal/model"
	"pelican/internal/repository"
	"pelican/pkg/util"
)

// LinkService handles link creation and the evaluation log read surface
type LinkService struct {
	encoder *encoder.Base32Encoder
	store   repository.LinkStore
}

// NewLinkService creates a new LinkService
func NewLinkService(store repository.LinkStore) *LinkService {
	return &LinkService{
		encoder: encoder.NewBase32Encoder(),
		store:   store,
	}
}

// Create validates the destinations map and persists a new link under a
// generated identifier.
func (s *LinkService) Create(ctx context.Context, req *model.CreateLinkRequest) (*model.CreateLinkResponse, error) {
	destinations := model.DestinationMap(req.Destinations)
	if err := destinations.Validate(); err != nil {
		return nil, err
	}

	link := &model.Link{
		ID:           s.encoder.EncodeString(util.GenerateUUID(), encoder.MaxLength),
		AccountID:    req.AccountID,
		Destinations: destinations,
	}

	if err := s.store.SaveLink(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to save link: %w", err)
	}

	return &model.CreateLinkResponse{
		ID:           link.ID,
		AccountID:    link.AccountID,
		Destinations: link.Destinations,
	}, nil
}

// Evaluations returns the evaluation log for a link, newest first
func (s *LinkService) Evaluations(ctx context.Context, linkID string, limit int) ([]model.Evaluation, error) {
	return s.store.ListEvaluations(ctx, linkID, limit)
}
