package database

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"zeniverse_api/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PublishSlotIndexName is the partial unique index backing the single
// published record rule when enabled.
const PublishSlotIndexName = "publish_slot"

// EnsureCollections creates the missing collections in db.
func EnsureCollections(ctx context.Context, db *mongo.Database, names []string) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for _, name := range names {
		if have[name] {
			continue
		}
		logger.WithModuleAndCollection("database", name).Info("Collection missing, creating")
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}
	return nil
}

// indexSpec is one index derived from `index` struct tags.
type indexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
	Sparse bool
	TTL    *int32
}

// parseIndexTag splits `unique,sparse;single,order:-1` into option maps.
func parseIndexTag(tag string) []map[string]string {
	var result []map[string]string
	for _, part := range strings.Split(tag, ";") {
		entry := map[string]string{}
		for _, sub := range strings.Split(part, ",") {
			kv := strings.SplitN(strings.TrimSpace(sub), ":", 2)
			if kv[0] == "" {
				continue
			}
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else {
				entry[kv[0]] = ""
			}
		}
		if len(entry) > 0 {
			result = append(result, entry)
		}
	}
	return result
}

func orderOf(entry map[string]string) int {
	if entry["order"] == "-1" {
		return -1
	}
	return 1
}

// bsonName returns the stored field name and whether the field is an inline embed.
func bsonName(field reflect.StructField) (name string, inline bool) {
	tag := field.Tag.Get("bson")
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if opt == "inline" {
			return "", true
		}
	}
	return parts[0], false
}

// collectIndexSpecs walks the model type, descending into inline embeds.
func collectIndexSpecs(modelType reflect.Type) ([]indexSpec, error) {
	for modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	var specs []indexSpec
	compound := map[string]*indexSpec{}
	var compoundOrder []string

	var walk func(t reflect.Type) error
	walk = func(t reflect.Type) error {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			name, inline := bsonName(field)

			if inline || (field.Anonymous && name == "") {
				ft := field.Type
				if ft.Kind() == reflect.Ptr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					if err := walk(ft); err != nil {
						return err
					}
				}
				continue
			}

			tag, ok := field.Tag.Lookup("index")
			if !ok || name == "" || name == "-" {
				continue
			}

			for _, entry := range parseIndexTag(tag) {
				_, sparse := entry["sparse"]

				if _, ok := entry["single"]; ok {
					specs = append(specs, indexSpec{Name: name + "_single", Keys: bson.D{{Key: name, Value: orderOf(entry)}}})
				}
				if _, ok := entry["unique"]; ok {
					specs = append(specs, indexSpec{Name: name + "_unique", Keys: bson.D{{Key: name, Value: 1}}, Unique: true, Sparse: sparse})
				}
				if v, ok := entry["ttl"]; ok {
					ttl, err := strconv.Atoi(v)
					if err != nil {
						return fmt.Errorf("invalid ttl on %s: %w", name, err)
					}
					secs := int32(ttl)
					specs = append(specs, indexSpec{Name: name + "_ttl", Keys: bson.D{{Key: name, Value: 1}}, TTL: &secs})
				}
				if group, ok := entry["compound"]; ok {
					spec, seen := compound[group]
					if !seen {
						spec = &indexSpec{Name: group, Unique: strings.HasSuffix(group, "_unique")}
						compound[group] = spec
						compoundOrder = append(compoundOrder, group)
					}
					spec.Keys = append(spec.Keys, bson.E{Key: name, Value: orderOf(entry)})
					spec.Sparse = spec.Sparse || sparse
				}
			}
		}
		return nil
	}

	if err := walk(modelType); err != nil {
		return nil, err
	}
	for _, group := range compoundOrder {
		specs = append(specs, *compound[group])
	}
	return specs, nil
}

func (s indexSpec) options() *options.IndexOptions {
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	if s.Sparse {
		opts.SetSparse(true)
	}
	if s.TTL != nil {
		opts.SetExpireAfterSeconds(*s.TTL)
	}
	return opts
}

func listIndexes(ctx context.Context, collection *mongo.Collection) (map[string]bson.M, error) {
	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	existing := map[string]bson.M{}
	for cursor.Next(ctx) {
		var info bson.M
		if err := cursor.Decode(&info); err != nil {
			return nil, fmt.Errorf("failed to decode index info: %w", err)
		}
		if name, ok := info["name"].(string); ok {
			existing[name] = info
		}
	}
	return existing, cursor.Err()
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// sameIndex compares keys and the unique / ttl options of an existing index.
func sameIndex(existing bson.M, keys bson.D, opts *options.IndexOptions) bool {
	var existingKeys bson.M
	switch k := existing["key"].(type) {
	case bson.M:
		existingKeys = k
	case bson.D:
		existingKeys = k.Map()
	default:
		return false
	}
	if len(existingKeys) != len(keys) {
		return false
	}

	for _, key := range keys {
		ev, ok := existingKeys[key.Key]
		if !ok {
			return false
		}
		if want, isInt := key.Value.(int); isInt {
			got, ok := toInt(ev)
			if !ok || got != want {
				return false
			}
		} else if ev != key.Value {
			return false
		}
	}

	unique, _ := existing["unique"].(bool)
	wantUnique := opts.Unique != nil && *opts.Unique
	if unique != wantUnique {
		return false
	}

	if opts.ExpireAfterSeconds != nil {
		ttl, ok := toInt(existing["expireAfterSeconds"])
		if !ok || int32(ttl) != *opts.ExpireAfterSeconds {
			return false
		}
	}
	return true
}

// ensureIndex creates the index, replacing a same-named index whose definition drifted.
func ensureIndex(ctx context.Context, collection *mongo.Collection, existing map[string]bson.M, keys bson.D, opts *options.IndexOptions) error {
	name := *opts.Name
	log := logger.WithModuleAndCollection("database", collection.Name())

	if info, ok := existing[name]; ok {
		if sameIndex(info, keys, opts) {
			return nil
		}
		if _, err := collection.Indexes().DropOne(ctx, name); err != nil {
			return fmt.Errorf("failed to drop index %s: %w", name, err)
		}
		log.WithField("index", name).Info("Dropped outdated index")
	}

	if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts}); err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}
	log.WithField("index", name).Info("Created index")
	return nil
}

// CreateIndexes syncs the indexes declared by `index` tags on model, then
// drops `<field>_unique` indexes the model no longer declares.
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	specs, err := collectIndexSpecs(reflect.TypeOf(model))
	if err != nil {
		return err
	}

	existing, err := listIndexes(ctx, collection)
	if err != nil {
		return err
	}

	declared := map[string]bool{}
	for _, spec := range specs {
		declared[spec.Name] = true
		if err := ensureIndex(ctx, collection, existing, spec.Keys, spec.options()); err != nil {
			return err
		}
	}

	for name, info := range existing {
		if !strings.HasSuffix(name, "_unique") || declared[name] {
			continue
		}
		if unique, _ := info["unique"].(bool); !unique {
			continue
		}
		if _, err := collection.Indexes().DropOne(ctx, name); err != nil {
			logger.WithCollection(collection.Name()).WithError(err).Warnf("Could not drop stale index %s", name)
		}
	}
	return nil
}

// publishSlotKeys returns the keys of the slot index: the slot field when the
// slot is per type, isPublished alone when the whole collection is one slot.
func publishSlotKeys(slotField string) bson.D {
	if slotField == "" {
		return bson.D{{Key: "isPublished", Value: 1}}
	}
	return bson.D{{Key: slotField, Value: 1}}
}

// SyncPublishSlotIndex creates the partial unique index that lets the store
// reject a second published record in the same slot, or drops it when disabled.
func SyncPublishSlotIndex(ctx context.Context, collection *mongo.Collection, slotField string, enabled bool) error {
	existing, err := listIndexes(ctx, collection)
	if err != nil {
		return err
	}

	if !enabled {
		if _, ok := existing[PublishSlotIndexName]; ok {
			if _, err := collection.Indexes().DropOne(ctx, PublishSlotIndexName); err != nil {
				return fmt.Errorf("failed to drop index %s: %w", PublishSlotIndexName, err)
			}
		}
		return nil
	}

	opts := options.Index().
		SetName(PublishSlotIndexName).
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"isPublished": true})
	return ensureIndex(ctx, collection, existing, publishSlotKeys(slotField), opts)
}
