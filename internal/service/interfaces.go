package service

import (
	"context"

	"pelican/internal/model"
)

// ResolverInterface defines the link resolution surface
type ResolverInterface interface {
	Resolve(ctx context.Context, id string) (*model.Link, error)
	SelectDestination(link *model.Link, countryCode string) string
}

// LinkServiceInterface defines the link management surface
type LinkServiceInterface interface {
	Create(ctx context.Context, req *model.CreateLinkRequest) (*model.CreateLinkResponse, error)
	Evaluations(ctx context.Context, linkID string, limit int) ([]model.Evaluation, error)
}
