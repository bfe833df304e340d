package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/universe/internal/app/models/dto"
	"github.com/yigit/universe/internal/pkg/workbook"
)

// DataSource reports which store served the latest read
type DataSource interface {
	Source() string
}

// primaryReporter is implemented by stores that fall back to sample data
type primaryReporter interface {
	UsingPrimary() bool
}

// SiteInfo holds the site-wide settings exposed to clients
type SiteInfo struct {
	SiteName          string
	GAMeasurementID   string
	AddMaterialURL    string
	AddOpportunityURL string
}

// SiteController serves the site settings and the liveness check
type SiteController struct {
	info   SiteInfo
	source DataSource
}

// NewSiteController creates a new SiteController
func NewSiteController(info SiteInfo, source DataSource) *SiteController {
	return &SiteController{info: info, source: source}
}

// GetSite returns the site name, analytics id and form links
func (c *SiteController) GetSite(ctx *gin.Context) {
	src := c.source.Source()
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SiteResponse{
			SiteName:          c.info.SiteName,
			GAMeasurementID:   c.info.GAMeasurementID,
			AddMaterialURL:    c.info.AddMaterialURL,
			AddOpportunityURL: c.info.AddOpportunityURL,
			DataSource:        src,
			LiveData:          c.liveData(src),
		},
	})
}

// liveData reports whether src is real data rather than the bundled sample
func (c *SiteController) liveData(src string) bool {
	if r, ok := c.source.(primaryReporter); ok {
		return r.UsingPrimary()
	}
	return src != workbook.SampleSource
}

// Health is the liveness check
func (c *SiteController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.HealthResponse{Status: "ok", DataSource: c.source.Source()},
	})
}
