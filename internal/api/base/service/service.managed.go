package basesvc

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "zeniverse_api/internal/api/base/models"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/global"
	"zeniverse_api/internal/logger"
	"zeniverse_api/internal/utility"
)

// SlotPolicy says how many records of a family may be published at once.
type SlotPolicy int

const (
	// SlotNone puts no limit on published records.
	SlotNone SlotPolicy = iota
	// SlotPerType allows one published record per value of the slot field.
	SlotPerType
	// SlotGlobal allows one published record in the whole collection.
	SlotGlobal
)

// FilterKind is how a list filter value is parsed from the query string.
type FilterKind int

const (
	FilterString FilterKind = iota
	FilterBool
	FilterInt
)

// List paging limits.
const (
	DefaultPageLimit int64 = 10
	MaxPageLimit     int64 = 100
)

// ManagedDocument is the pointer constraint of a family model. GetManaged is
// promoted from the embedded basemodels.Managed.
type ManagedDocument[T any] interface {
	*T
	GetManaged() *basemodels.Managed
}

// AuthorResolver turns admin ids into display references.
type AuthorResolver interface {
	ResolveAuthors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*basemodels.AuthorRef, error)
}

// ManagedConfig describes one family.
type ManagedConfig struct {
	// Family names the collection in logs and is the slug of last resort.
	Family string
	Slot   SlotPolicy
	// SlotField is the bson field scoping SlotPerType. Defaults to "type".
	SlotField string
	// SearchFields are OR-ed with a case-insensitive substring match.
	SearchFields []string
	// SortFields whitelists sortBy. createdAt is always allowed.
	SortFields []string
	// FilterFields whitelists exact-match query filters. isPublished is
	// always allowed, and the slot field for SlotPerType.
	FilterFields map[string]FilterKind
	// BeforeSave derives stored fields (rendered html, ...) before validation.
	BeforeSave func(doc interface{}) error
}

// ListQuery is a parsed list request. Filters holds the raw query values of
// whitelisted keys.
type ListQuery struct {
	Page      int64
	Limit     int64
	Search    string
	SortBy    string
	SortOrder string
	Filters   map[string]string
}

// ManagedService implements slug generation, the single published record
// rule and the list façade for one family.
//
// The slot check and the following write are separate store calls. Two
// concurrent publishes into the same slot can both pass the check unless the
// collection carries the partial unique index (database.SyncPublishSlotIndex),
// whose duplicate key error surfaces as 409.
type ManagedService[T any, PT ManagedDocument[T]] struct {
	store    BaseServiceMongo[T]
	cfg      ManagedConfig
	authors  AuthorResolver
	validate *validator.Validate
	now      func() time.Time
}

// NewManagedService builds the service. authors may be nil.
func NewManagedService[T any, PT ManagedDocument[T]](store BaseServiceMongo[T], cfg ManagedConfig, authors AuthorResolver) *ManagedService[T, PT] {
	if cfg.Slot == SlotPerType && cfg.SlotField == "" {
		cfg.SlotField = "type"
	}
	global.InitValidator()
	return &ManagedService[T, PT]{
		store:    store,
		cfg:      cfg,
		authors:  authors,
		validate: global.Validate,
		now:      time.Now,
	}
}

// Config returns the family configuration.
func (s *ManagedService[T, PT]) Config() ManagedConfig {
	return s.cfg
}

// Store returns the underlying store.
func (s *ManagedService[T, PT]) Store() BaseServiceMongo[T] {
	return s.store
}

// FilterKeys lists the query keys List understands as exact filters.
func (s *ManagedService[T, PT]) FilterKeys() []string {
	keys := []string{"isPublished"}
	if s.cfg.Slot == SlotPerType {
		keys = append(keys, s.cfg.SlotField)
	}
	for k := range s.cfg.FilterFields {
		keys = append(keys, k)
	}
	return keys
}

func (s *ManagedService[T, PT]) nowMilli() int64 {
	return s.now().UnixMilli()
}

// slotKey reads the slot field value of doc.
func (s *ManagedService[T, PT]) slotKey(doc PT) (string, error) {
	if s.cfg.Slot != SlotPerType {
		return "", nil
	}
	m, err := utility.ToMap(doc)
	if err != nil {
		return "", err
	}
	v, _ := m[s.cfg.SlotField].(string)
	return v, nil
}

// slotFilter matches the published record holding the slot of key.
func (s *ManagedService[T, PT]) slotFilter(key string, exclude *primitive.ObjectID) bson.M {
	filter := bson.M{"isPublished": true}
	if s.cfg.Slot == SlotPerType {
		filter[s.cfg.SlotField] = key
	}
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}
	return filter
}

// checkSlot returns ErrPublishConflict when another record holds the slot.
// exclude is the record being written, nil on create.
func (s *ManagedService[T, PT]) checkSlot(ctx context.Context, key string, exclude *primitive.ObjectID) error {
	if s.cfg.Slot == SlotNone {
		return nil
	}

	holder, err := s.store.FindOne(ctx, s.slotFilter(key, exclude), nil)
	if err != nil {
		if common.StatusOf(err) == common.StatusNotFound {
			return nil
		}
		return err
	}

	details := map[string]interface{}{
		"publishedId": PT(&holder).GetManaged().ID.Hex(),
	}
	if s.cfg.Slot == SlotPerType {
		details[s.cfg.SlotField] = key
	}
	return common.WithDetails(common.ErrPublishConflict, details)
}

// GenerateUniqueSlug derives a slug from title and probes base, base-1,
// base-2, ... until no other record holds it. excludeID keeps a record from
// colliding with itself on update.
func (s *ManagedService[T, PT]) GenerateUniqueSlug(ctx context.Context, title string, excludeID *primitive.ObjectID) (string, error) {
	base := utility.Slugify(title)
	if base == "" {
		base = utility.Slugify(s.cfg.Family)
	}

	for n := 0; ; n++ {
		candidate := utility.SlugCandidate(base, n)
		filter := bson.M{"slug": candidate}
		if excludeID != nil {
			filter["_id"] = bson.M{"$ne": *excludeID}
		}

		taken, err := s.store.DocumentExists(ctx, filter)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

func (s *ManagedService[T, PT]) validateModel(doc PT) error {
	if s.cfg.BeforeSave != nil {
		if err := s.cfg.BeforeSave(doc); err != nil {
			return err
		}
	}
	if err := s.validate.Struct(doc); err != nil {
		return common.WithDetails(common.ErrValidation, global.ValidationDetails(err))
	}
	return nil
}

// Create stores a new record of the family.
//
// Steps:
//  1. When doc is published, the slot (its type, or the whole family) must be
//     free. Otherwise ErrPublishConflict (409) and nothing is stored.
//  2. publishedAt is stamped for published records and cleared otherwise.
//  3. The slug is derived from the title; a taken slug gets -1, -2, ...
//  4. createdBy and lastModifiedBy are set to actor, which may be nil when
//     writes are public.
//  5. The model is validated, stored, and returned with its author refs.
func (s *ManagedService[T, PT]) Create(ctx context.Context, doc PT, actor *primitive.ObjectID) (PT, error) {
	m := doc.GetManaged()
	m.ID = primitive.NilObjectID
	m.CreatedAt, m.UpdatedAt = 0, 0
	m.Creator, m.Modifier = nil, nil

	if m.IsPublished {
		key, err := s.slotKey(doc)
		if err != nil {
			return nil, common.WithDetails(common.ErrInvalidFormat, err.Error())
		}
		if err := s.checkSlot(ctx, key, nil); err != nil {
			return nil, err
		}
		m.PublishedAt = utility.Int64Ptr(s.nowMilli())
	} else {
		m.PublishedAt = nil
	}

	slug, err := s.GenerateUniqueSlug(ctx, m.Title, nil)
	if err != nil {
		return nil, err
	}
	m.Slug = slug
	m.CreatedBy = actor
	m.LastModifiedBy = actor

	if err := s.validateModel(doc); err != nil {
		return nil, err
	}

	created, err := s.store.InsertOne(ctx, *doc)
	if err != nil {
		return nil, err
	}

	logger.WithModuleAndCollection(s.cfg.Family, s.cfg.Family).
		WithField("id", PT(&created).GetManaged().ID.Hex()).
		Debug("Record created")

	out := PT(&created)
	s.populate(ctx, out)
	return out, nil
}

// immutableKeys never reach the store from a patch.
var immutableKeys = []string{"_id", "id", "slug", "createdBy", "createdAt", "updatedAt", "lastModifiedBy"}

// Update applies patch, a DTO whose unset fields are omitted by its bson
// tags. Title changes regenerate the slug. The merged record is validated
// before the write.
func (s *ManagedService[T, PT]) Update(ctx context.Context, id primitive.ObjectID, patch interface{}, actor *primitive.ObjectID) (PT, error) {
	current, err := s.store.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	cur := PT(&current).GetManaged()

	patchMap, err := utility.ToMap(patch)
	if err != nil {
		return nil, common.WithDetails(common.ErrInvalidFormat, err.Error())
	}
	for _, k := range immutableKeys {
		delete(patchMap, k)
	}

	currentMap, err := utility.ToMap(&current)
	if err != nil {
		return nil, common.WithDetails(common.ErrInvalidFormat, err.Error())
	}
	for k, v := range patchMap {
		currentMap[k] = v
	}

	var merged T
	if err := utility.FromMap(currentMap, &merged); err != nil {
		return nil, common.WithDetails(common.ErrInvalidFormat, err.Error())
	}
	doc := PT(&merged)
	m := doc.GetManaged()

	oldKey, err := s.slotKey(PT(&current))
	if err != nil {
		return nil, common.WithDetails(common.ErrInvalidFormat, err.Error())
	}
	newKey, err := s.slotKey(doc)
	if err != nil {
		return nil, common.WithDetails(common.ErrInvalidFormat, err.Error())
	}

	// a published record moving to another type needs that slot too
	if m.IsPublished && (!cur.IsPublished || oldKey != newKey) {
		if err := s.checkSlot(ctx, newKey, &id); err != nil {
			return nil, err
		}
	}

	_, suppliedPublishedAt := patchMap["publishedAt"]
	switch {
	case !m.IsPublished:
		m.PublishedAt = nil
	case suppliedPublishedAt && m.PublishedAt != nil:
	case !cur.IsPublished || m.PublishedAt == nil:
		m.PublishedAt = utility.Int64Ptr(s.nowMilli())
	}

	if m.Title != cur.Title {
		slug, err := s.GenerateUniqueSlug(ctx, m.Title, &id)
		if err != nil {
			return nil, err
		}
		m.Slug = slug
	}
	m.LastModifiedBy = actor

	if err := s.validateModel(doc); err != nil {
		return nil, err
	}

	set, err := utility.ToMap(doc)
	if err != nil {
		return nil, common.WithDetails(common.ErrInvalidFormat, err.Error())
	}
	for _, k := range []string{"_id", "createdAt", "createdBy", "updatedAt"} {
		delete(set, k)
	}

	updated, err := s.store.UpdateById(ctx, id, &UpdateData{Set: set})
	if err != nil {
		return nil, err
	}

	out := PT(&updated)
	s.populate(ctx, out)
	return out, nil
}

// TogglePublish sets the published flag to desired, or flips it when
// desired is nil. It returns the record and "published" or "unpublished".
func (s *ManagedService[T, PT]) TogglePublish(ctx context.Context, id primitive.ObjectID, desired *bool, actor *primitive.ObjectID) (PT, string, error) {
	current, err := s.store.FindOneById(ctx, id)
	if err != nil {
		return nil, "", err
	}
	cur := PT(&current).GetManaged()

	target := !cur.IsPublished
	if desired != nil {
		target = *desired
	}

	set := map[string]interface{}{
		"isPublished":    target,
		"lastModifiedBy": actor,
	}
	switch {
	case target && !cur.IsPublished:
		key, err := s.slotKey(PT(&current))
		if err != nil {
			return nil, "", common.WithDetails(common.ErrInvalidFormat, err.Error())
		}
		if err := s.checkSlot(ctx, key, &id); err != nil {
			return nil, "", err
		}
		set["publishedAt"] = s.nowMilli()
	case !target:
		set["publishedAt"] = nil
	}

	updated, err := s.store.UpdateById(ctx, id, &UpdateData{Set: set})
	if err != nil {
		return nil, "", err
	}

	out := PT(&updated)
	s.populate(ctx, out)
	if target {
		return out, common.MsgPublished, nil
	}
	return out, common.MsgUnpublished, nil
}

// Delete hard deletes a record.
func (s *ManagedService[T, PT]) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.store.DeleteById(ctx, id)
}

// GetByID loads one record with authors resolved.
func (s *ManagedService[T, PT]) GetByID(ctx context.Context, id primitive.ObjectID) (PT, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetBySlug loads one record by slug.
func (s *ManagedService[T, PT]) GetBySlug(ctx context.Context, slug string) (PT, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

// GetPublished returns the record holding the slot of key. key is ignored
// for SlotGlobal; SlotNone returns the most recently published record.
func (s *ManagedService[T, PT]) GetPublished(ctx context.Context, key string) (PT, error) {
	filter := bson.M{"isPublished": true}
	if s.cfg.Slot == SlotPerType {
		filter[s.cfg.SlotField] = key
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "publishedAt", Value: -1}})

	doc, err := s.store.FindOne(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := PT(&doc)
	s.populate(ctx, out)
	return out, nil
}

func (s *ManagedService[T, PT]) findOne(ctx context.Context, filter bson.M) (PT, error) {
	doc, err := s.store.FindOne(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	out := PT(&doc)
	s.populate(ctx, out)
	return out, nil
}

// BuildFilter turns a list query into a Mongo filter.
func (s *ManagedService[T, PT]) BuildFilter(q ListQuery) (bson.M, error) {
	kinds := map[string]FilterKind{"isPublished": FilterBool}
	if s.cfg.Slot == SlotPerType {
		kinds[s.cfg.SlotField] = FilterString
	}
	for k, kind := range s.cfg.FilterFields {
		kinds[k] = kind
	}
	return BuildListFilter(q, kinds, s.cfg.SearchFields)
}

// BuildListFilter is the filter builder shared with non-managed lists.
// Unknown keys and empty values are ignored.
func BuildListFilter(q ListQuery, kinds map[string]FilterKind, searchFields []string) (bson.M, error) {
	filter := bson.M{}
	for key, raw := range q.Filters {
		kind, ok := kinds[key]
		if !ok || raw == "" {
			continue
		}
		switch kind {
		case FilterBool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, common.WithDetails(common.ErrInvalidInput, map[string]string{key: "must be true or false"})
			}
			filter[key] = b
		case FilterInt:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, common.WithDetails(common.ErrInvalidInput, map[string]string{key: "must be an integer"})
			}
			filter[key] = n
		default:
			filter[key] = raw
		}
	}

	if search := strings.TrimSpace(q.Search); search != "" && len(searchFields) > 0 {
		pattern := regexp.QuoteMeta(search)
		or := make([]bson.M, 0, len(searchFields))
		for _, field := range searchFields {
			or = append(or, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
		}
		filter["$or"] = or
	}
	return filter, nil
}

// NormalizePaging clamps page and limit to their defaults and bounds. page
// is capped so the skip (page-1)*limit fits in an int64.
func NormalizePaging(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if maxPage := math.MaxInt64/limit + 1; page > maxPage {
		page = maxPage
	}
	return page, limit
}

// SortSpec resolves sortBy/sortOrder against a whitelist, defaulting to
// createdAt descending.
func SortSpec(q ListQuery, allowed []string) bson.D {
	field := "createdAt"
	for _, f := range allowed {
		if f == q.SortBy {
			field = f
			break
		}
	}
	dir := -1
	if strings.EqualFold(q.SortOrder, "asc") {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

// List runs the filter, issuing the count and the page fetch concurrently.
func (s *ManagedService[T, PT]) List(ctx context.Context, q ListQuery) (*basemodels.ListResult[T], error) {
	filter, err := s.BuildFilter(q)
	if err != nil {
		return nil, err
	}

	result, err := ListPage(ctx, s.store, filter, q, s.cfg.SortFields)
	if err != nil {
		return nil, err
	}

	ptrs := make([]PT, len(result.Items))
	for i := range result.Items {
		ptrs[i] = PT(&result.Items[i])
	}
	s.populate(ctx, ptrs...)
	return result, nil
}

// ListPage pages through store with filter.
func ListPage[T any](ctx context.Context, store BaseServiceMongo[T], filter bson.M, q ListQuery, sortFields []string) (*basemodels.ListResult[T], error) {
	page, limit := NormalizePaging(q.Page, q.Limit)
	opts := options.Find().
		SetSort(SortSpec(q, sortFields)).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	var (
		wg       sync.WaitGroup
		total    int64
		items    []T
		countErr error
		findErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		total, countErr = store.CountDocuments(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		items, findErr = store.Find(ctx, filter, opts)
	}()
	wg.Wait()

	if countErr != nil {
		return nil, countErr
	}
	if findErr != nil {
		return nil, findErr
	}
	if items == nil {
		items = []T{}
	}

	return &basemodels.ListResult[T]{
		Items:      items,
		Pagination: basemodels.NewPagination(page, limit, total),
	}, nil
}

// populate attaches creator and modifier references in one batch. Lookup
// failures only cost the display fields.
func (s *ManagedService[T, PT]) populate(ctx context.Context, docs ...PT) {
	if s.authors == nil || len(docs) == 0 {
		return
	}

	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, d := range docs {
		m := d.GetManaged()
		for _, ref := range []*primitive.ObjectID{m.CreatedBy, m.LastModifiedBy} {
			if ref != nil && !ref.IsZero() && !seen[*ref] {
				seen[*ref] = true
				ids = append(ids, *ref)
			}
		}
	}
	if len(ids) == 0 {
		return
	}

	refs, err := s.authors.ResolveAuthors(ctx, ids)
	if err != nil {
		logger.WithModule(s.cfg.Family).WithError(err).Warn("Could not resolve record authors")
		return
	}
	for _, d := range docs {
		m := d.GetManaged()
		if m.CreatedBy != nil {
			m.Creator = refs[*m.CreatedBy]
		}
		if m.LastModifiedBy != nil {
			m.Modifier = refs[*m.LastModifiedBy]
		}
	}
}

// String implements fmt.Stringer for log fields.
func (p SlotPolicy) String() string {
	switch p {
	case SlotPerType:
		return "per_type"
	case SlotGlobal:
		return "global"
	}
	return fmt.Sprintf("none(%d)", int(p))
}
