// Package inquirysvc stores contact inquiries and serves the back office.
package inquirysvc

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "zeniverse_api/internal/api/base/models"
	basesvc "zeniverse_api/internal/api/base/service"
	inquirydto "zeniverse_api/internal/api/inquiry/dto"
	models "zeniverse_api/internal/api/inquiry/models"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/global"
	"zeniverse_api/internal/logger"
)

var (
	filterKinds = map[string]basesvc.FilterKind{
		"status":      basesvc.FilterString,
		"inquiryType": basesvc.FilterString,
	}
	searchFields = []string{"name", "email", "subject", "message", "company"}
	sortFields   = []string{"name", "email", "status", "inquiryType", "updatedAt"}
)

type InquiryService struct {
	store    basesvc.BaseServiceMongo[models.Inquiry]
	validate *validator.Validate
	now      func() time.Time
}

func NewInquiryService(store basesvc.BaseServiceMongo[models.Inquiry]) *InquiryService {
	global.InitValidator()
	return &InquiryService{
		store:    store,
		validate: global.Validate,
		now:      time.Now,
	}
}

// ListFilterKeys are the query keys List filters on.
func (s *InquiryService) ListFilterKeys() []string {
	return []string{"status", "inquiryType"}
}

// Create stores a new inquiry. Mails go out from the insert event.
func (s *InquiryService) Create(ctx context.Context, input *inquirydto.InquiryCreateInput, ip, userAgent string) (*models.Inquiry, error) {
	doc := input.ToModel()
	doc.IPAddress = ip
	doc.UserAgent = userAgent
	if err := s.validate.Struct(doc); err != nil {
		return nil, common.WithDetails(common.ErrValidation, global.ValidationDetails(err))
	}

	created, err := s.store.InsertOne(ctx, *doc)
	if err != nil {
		return nil, err
	}
	logger.WithCollection(global.MongoDB_ColNames.Inquiries).WithFields(map[string]interface{}{
		"id":          created.ID.Hex(),
		"inquiryType": created.InquiryType,
	}).Info("Inquiry received")
	return &created, nil
}

func (s *InquiryService) List(ctx context.Context, q basesvc.ListQuery) (*basemodels.ListResult[models.Inquiry], error) {
	filter, err := basesvc.BuildListFilter(q, filterKinds, searchFields)
	if err != nil {
		return nil, err
	}
	return basesvc.ListPage(ctx, s.store, filter, q, sortFields)
}

func (s *InquiryService) Get(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	doc, err := s.store.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateStatus sets the status and optional notes. respondedAt is stamped
// the first time an inquiry becomes resolved.
func (s *InquiryService) UpdateStatus(ctx context.Context, id primitive.ObjectID, input *inquirydto.InquiryStatusInput) (*models.Inquiry, error) {
	current, err := s.store.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"status": input.Status}
	if input.Notes != nil {
		set["notes"] = *input.Notes
	}
	if input.Status == models.StatusResolved && current.Status != models.StatusResolved && current.RespondedAt == nil {
		set["respondedAt"] = s.now().UnixMilli()
	}

	updated, err := s.store.UpdateById(ctx, id, &basesvc.UpdateData{Set: set})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *InquiryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.store.DeleteById(ctx, id)
}

// Stats counts every inquiry and each status, issuing the counts
// concurrently.
func (s *InquiryService) Stats(ctx context.Context) (*models.Stats, error) {
	filters := make([]bson.M, 0, len(models.Statuses)+1)
	filters = append(filters, bson.M{})
	for _, status := range models.Statuses {
		filters = append(filters, bson.M{"status": status})
	}

	counts := make([]int64, len(filters))
	errs := make([]error, len(filters))
	var wg sync.WaitGroup
	for i, f := range filters {
		wg.Add(1)
		go func(i int, f bson.M) {
			defer wg.Done()
			counts[i], errs[i] = s.store.CountDocuments(ctx, f)
		}(i, f)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	stats := &models.Stats{Total: counts[0], ByStatus: make(map[string]int64, len(models.Statuses))}
	for i, status := range models.Statuses {
		stats.ByStatus[status] = counts[i+1]
	}
	return stats, nil
}
