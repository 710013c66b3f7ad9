package content

import (
	"context"

	"fintrack/internal/domain"
)

type RepositoryInterface interface {
	CreateVideo(ctx context.Context, v *domain.Video) error
	GetVideo(ctx context.Context, id int64) (*domain.Video, error)
	ListVideos(ctx context.Context, includeGated bool) ([]*domain.Video, error)
	UpdateVideo(ctx context.Context, v *domain.Video) error
	DeleteVideo(ctx context.Context, id int64) error
	GetPlan(ctx context.Context, id int64) (*domain.Plan, error)
	ListActivePlans(ctx context.Context) ([]*domain.Plan, error)
	CreatePlan(ctx context.Context, p *domain.Plan) error
}

// Service serves course videos and the plans gating the premium ones.
type Service struct {
	content RepositoryInterface
}

func NewService(content RepositoryInterface) *Service {
	return &Service{content: content}
}

// ListVideos: admins see everything; regular users see free content plus
// metadata of gated videos with the URL stripped.
func (s *Service) ListVideos(ctx context.Context, isAdmin bool) ([]*domain.Video, error) {
	videos, err := s.content.ListVideos(ctx, true)
	if err != nil {
		return nil, err
	}
	if isAdmin {
		return videos, nil
	}
	for _, v := range videos {
		if v.PlanID != nil {
			v.URL = ""
		}
	}
	return videos, nil
}

func (s *Service) GetVideo(ctx context.Context, id int64, isAdmin bool) (*domain.Video, error) {
	v, err := s.content.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.PlanID != nil && !isAdmin {
		v.URL = ""
	}
	return v, nil
}

func (s *Service) CreateVideo(ctx context.Context, req VideoRequest) (*domain.Video, error) {
	if req.PlanID != nil {
		if _, err := s.content.GetPlan(ctx, *req.PlanID); err != nil {
			return nil, err
		}
	}

	v := &domain.Video{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		PlanID:      req.PlanID,
	}
	if err := s.content.CreateVideo(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) UpdateVideo(ctx context.Context, id int64, req VideoRequest) (*domain.Video, error) {
	v, err := s.content.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	v.Title = req.Title
	v.Description = req.Description
	v.URL = req.URL
	v.PlanID = req.PlanID

	if err := s.content.UpdateVideo(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) DeleteVideo(ctx context.Context, id int64) error {
	return s.content.DeleteVideo(ctx, id)
}

func (s *Service) ListPlans(ctx context.Context) ([]*domain.Plan, error) {
	return s.content.ListActivePlans(ctx)
}

func (s *Service) CreatePlan(ctx context.Context, req PlanRequest) (*domain.Plan, error) {
	p := &domain.Plan{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Features:    req.Features,
		IsActive:    true,
	}
	if err := s.content.CreatePlan(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
