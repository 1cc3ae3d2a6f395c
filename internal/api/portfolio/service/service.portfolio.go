// Package portfoliosvc configures the managed services of news, initiatives
// and ventures.
package portfoliosvc

import (
	"fmt"

	basesvc "zeniverse_api/internal/api/base/service"
	models "zeniverse_api/internal/api/portfolio/models"
	"zeniverse_api/internal/utility"
)

type (
	NewsService       = basesvc.ManagedService[models.News, *models.News]
	InitiativeService = basesvc.ManagedService[models.Initiative, *models.Initiative]
	VentureService    = basesvc.ManagedService[models.Venture, *models.Venture]
)

func renderNewsBody(doc interface{}) error {
	news, ok := doc.(*models.News)
	if !ok {
		return fmt.Errorf("unexpected document %T", doc)
	}
	html, err := utility.RenderMarkdown(news.Body)
	if err != nil {
		return err
	}
	news.BodyHTML = html
	return nil
}

// NewNewsService serves articles. Filters: category, isFeatured.
func NewNewsService(store basesvc.BaseServiceMongo[models.News], authors basesvc.AuthorResolver) *NewsService {
	return basesvc.NewManagedService[models.News, *models.News](store, basesvc.ManagedConfig{
		Family:       "news",
		Slot:         basesvc.SlotNone,
		SearchFields: []string{"title", "summary", "body", "tags"},
		SortFields:   []string{"title", "category", "publishedAt", "updatedAt"},
		FilterFields: map[string]basesvc.FilterKind{
			"category":   basesvc.FilterString,
			"isFeatured": basesvc.FilterBool,
		},
		BeforeSave: renderNewsBody,
	}, authors)
}

// NewInitiativeService serves initiatives. Filters: category, status.
func NewInitiativeService(store basesvc.BaseServiceMongo[models.Initiative], authors basesvc.AuthorResolver) *InitiativeService {
	return basesvc.NewManagedService[models.Initiative, *models.Initiative](store, basesvc.ManagedConfig{
		Family:       "initiatives",
		Slot:         basesvc.SlotNone,
		SearchFields: []string{"title", "summary", "description"},
		SortFields:   []string{"order", "title", "publishedAt", "updatedAt"},
		FilterFields: map[string]basesvc.FilterKind{
			"category": basesvc.FilterString,
			"status":   basesvc.FilterString,
		},
	}, authors)
}

// NewVentureService serves portfolio companies. Filters: industry, stage,
// isFeatured, foundedYear.
func NewVentureService(store basesvc.BaseServiceMongo[models.Venture], authors basesvc.AuthorResolver) *VentureService {
	return basesvc.NewManagedService[models.Venture, *models.Venture](store, basesvc.ManagedConfig{
		Family:       "ventures",
		Slot:         basesvc.SlotNone,
		SearchFields: []string{"title", "tagline", "description", "industry"},
		SortFields:   []string{"order", "title", "foundedYear", "publishedAt", "updatedAt"},
		FilterFields: map[string]basesvc.FilterKind{
			"industry":    basesvc.FilterString,
			"stage":       basesvc.FilterString,
			"isFeatured":  basesvc.FilterBool,
			"foundedYear": basesvc.FilterInt,
		},
	}, authors)
}
