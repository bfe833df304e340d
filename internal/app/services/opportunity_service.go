package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/app/repositories"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/normalize"
)

// OpportunityService defines the interface for opportunity listings
type OpportunityService interface {
	List(ctx context.Context, kind models.OpportunityKind, filter dto.OpportunityFilter) (*dto.OpportunityListResponse, error)
}

// opportunityServiceImpl implements the OpportunityService interface
type opportunityServiceImpl struct {
	opportunityRepo *repositories.OpportunityRepository
}

// NewOpportunityService creates a new opportunity service instance
func NewOpportunityService(opportunityRepo *repositories.OpportunityRepository) OpportunityService {
	return &opportunityServiceImpl{opportunityRepo: opportunityRepo}
}

// List returns the listings of one worksheet, filtered on type and programme.
// Facets and Total describe the unfiltered worksheet.
func (s *opportunityServiceImpl) List(ctx context.Context, kind models.OpportunityKind, filter dto.OpportunityFilter) (*dto.OpportunityListResponse, error) {
	if !kind.Valid() {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("unknown listing %q", kind))
	}

	all, err := s.opportunityRepo.GetAll(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("error retrieving %s: %w", kind, err)
	}

	types := make([]string, 0, len(all))
	programmes := make([]string, 0, len(all))
	for _, o := range all {
		types = append(types, o.Type)
		programmes = append(programmes, o.Programme)
	}

	selected := dto.OpportunityFilter{
		Type:      strings.TrimSpace(filter.Type),
		Programme: strings.TrimSpace(filter.Programme),
	}
	filtered := make([]models.Opportunity, 0, len(all))
	for _, o := range all {
		if selected.Type != "" && !normalize.EqualFold(o.Type, selected.Type) {
			continue
		}
		if selected.Programme != "" && !normalize.EqualFold(o.Programme, selected.Programme) {
			continue
		}
		filtered = append(filtered, o)
	}

	return &dto.OpportunityListResponse{
		Kind:          kind,
		Opportunities: filtered,
		Types:         normalize.UniqueValues(types),
		Programmes:    normalize.UniqueValues(programmes),
		Total:         len(all),
		Filtered:      len(filtered),
		Selected:      selected,
	}, nil
}
