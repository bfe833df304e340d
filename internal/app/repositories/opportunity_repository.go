package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/pkg/workbook"
)

// Header aliases of the opportunity worksheets
var (
	OpportunityTitleAliases       = []string{"title", "titel", "name", "position"}
	OpportunityTypeAliases        = []string{"type", "typ", "category", "kategorie", "art"}
	OpportunityDescriptionAliases = []string{"description", "beschreibung", "details"}
)

// OpportunityRepository reads the opportunities, jobs and events worksheets
type OpportunityRepository struct {
	wb     workbook.Workbook
	sheets map[models.OpportunityKind]string
}

// NewOpportunityRepository creates a new OpportunityRepository
func NewOpportunityRepository(wb workbook.Workbook, names workbook.SheetNames) *OpportunityRepository {
	return &OpportunityRepository{
		wb: wb,
		sheets: map[models.OpportunityKind]string{
			models.KindOpportunities: names.Opportunities,
			models.KindJobs:          names.Jobs,
			models.KindEvents:        names.Events,
		},
	}
}

// GetAll returns the listings of one kind; rows without a title are skipped
func (r *OpportunityRepository) GetAll(ctx context.Context, kind models.OpportunityKind) ([]models.Opportunity, error) {
	name, ok := r.sheets[kind]
	if !ok {
		return nil, fmt.Errorf("unknown opportunity kind %q", kind)
	}
	s, err := sheetRepository{wb: r.wb, name: name}.sheet(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.Opportunity, 0, len(s.Records))
	for _, rec := range s.Records {
		title := s.Value(rec, OpportunityTitleAliases...)
		if title == "" {
			continue
		}
		items = append(items, models.Opportunity{
			Title:       title,
			Type:        s.Value(rec, OpportunityTypeAliases...),
			Programme:   s.Value(rec, CourseProgrammeAliases...),
			Description: s.Value(rec, OpportunityDescriptionAliases...),
		})
	}
	return items, nil
}
