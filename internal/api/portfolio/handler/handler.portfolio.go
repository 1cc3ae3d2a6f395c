// Package portfoliohdl exposes news, initiatives and ventures over HTTP.
package portfoliohdl

import (
	basehdl "zeniverse_api/internal/api/base/handler"
	portfoliodto "zeniverse_api/internal/api/portfolio/dto"
	models "zeniverse_api/internal/api/portfolio/models"
	portfoliosvc "zeniverse_api/internal/api/portfolio/service"
)

type (
	NewsHandler       = basehdl.ManagedHandler[models.News, *models.News, portfoliodto.NewsCreateInput, portfoliodto.NewsUpdateInput]
	InitiativeHandler = basehdl.ManagedHandler[models.Initiative, *models.Initiative, portfoliodto.InitiativeCreateInput, portfoliodto.InitiativeUpdateInput]
	VentureHandler    = basehdl.ManagedHandler[models.Venture, *models.Venture, portfoliodto.VentureCreateInput, portfoliodto.VentureUpdateInput]
)

func NewNewsHandler(svc *portfoliosvc.NewsService) *NewsHandler {
	return basehdl.NewManagedHandler[models.News, *models.News, portfoliodto.NewsCreateInput, portfoliodto.NewsUpdateInput](
		svc, "news", (*portfoliodto.NewsCreateInput).ToModel)
}

func NewInitiativeHandler(svc *portfoliosvc.InitiativeService) *InitiativeHandler {
	return basehdl.NewManagedHandler[models.Initiative, *models.Initiative, portfoliodto.InitiativeCreateInput, portfoliodto.InitiativeUpdateInput](
		svc, "initiative", (*portfoliodto.InitiativeCreateInput).ToModel)
}

func NewVentureHandler(svc *portfoliosvc.VentureService) *VentureHandler {
	return basehdl.NewManagedHandler[models.Venture, *models.Venture, portfoliodto.VentureCreateInput, portfoliodto.VentureUpdateInput](
		svc, "venture", (*portfoliodto.VentureCreateInput).ToModel)
}
