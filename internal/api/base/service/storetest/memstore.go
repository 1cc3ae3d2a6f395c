// Package storetest provides an in-memory BaseServiceMongo for service and
// handler tests. It understands the subset of the Mongo query language the
// services issue: equality, $ne, $in, $regex/$options, $or, dotted paths
// through arrays, sort, skip, limit, $set and $unset. Anything else is an
// error.
package storetest

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "zeniverse_api/internal/api/base/service"
	"zeniverse_api/internal/common"
)

// MemStore keeps documents as bson.M in insertion order.
type MemStore[T any] struct {
	mu     sync.Mutex
	docs   []bson.M
	unique []string
	clock  func() int64

	// Inserts counts successful InsertOne calls.
	Inserts int
}

var _ basesvc.BaseServiceMongo[struct{}] = (*MemStore[struct{}])(nil)

// New returns an empty store enforcing uniqueness on the given fields.
func New[T any](uniqueFields ...string) *MemStore[T] {
	var tick int64
	base := time.Now().UnixMilli()
	return &MemStore[T]{
		unique: uniqueFields,
		// strictly increasing so createdAt sorting is deterministic
		clock: func() int64 {
			tick++
			return base + tick
		},
	}
}

// Len returns the number of stored documents.
func (m *MemStore[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

// Seed inserts documents verbatim, bypassing timestamps and unique checks.
func (m *MemStore[T]) Seed(docs ...T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		doc, err := toDoc(d)
		if err != nil {
			return err
		}
		if _, ok := doc["_id"]; !ok {
			doc["_id"] = primitive.NewObjectID()
		}
		m.docs = append(m.docs, doc)
	}
	return nil
}

func (m *MemStore[T]) InsertOne(_ context.Context, data T) (T, error) {
	var zero T
	doc, err := toDoc(data)
	if err != nil {
		return zero, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := doc["_id"].(primitive.ObjectID); !ok || id.IsZero() {
		doc["_id"] = primitive.NewObjectID()
	}
	for key, value := range doc {
		if s, ok := value.(string); ok && s == "" {
			delete(doc, key)
		}
	}
	now := m.clock()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	if err := m.checkUnique(doc, nil); err != nil {
		return zero, err
	}
	m.docs = append(m.docs, doc)
	m.Inserts++
	return fromDoc[T](doc)
}

func (m *MemStore[T]) FindOne(_ context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var zero T
	m.mu.Lock()
	defer m.mu.Unlock()

	var sortSpec interface{}
	if opts != nil {
		sortSpec = opts.Sort
	}
	matches, err := m.match(filter, sortSpec)
	if err != nil {
		return zero, err
	}
	if len(matches) == 0 {
		return zero, common.ErrNotFound
	}
	return fromDoc[T](matches[0])
}

func (m *MemStore[T]) Find(_ context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sortSpec interface{}
	var skip, limit int64
	if opts != nil {
		sortSpec = opts.Sort
		if opts.Skip != nil {
			skip = *opts.Skip
		}
		if opts.Limit != nil {
			limit = *opts.Limit
		}
	}

	if skip < 0 || limit < 0 {
		return nil, common.WithDetails(common.ErrDatabase, fmt.Sprintf("BadValue: skip %d, limit %d", skip, limit))
	}

	matches, err := m.match(filter, sortSpec)
	if err != nil {
		return nil, err
	}
	if skip >= int64(len(matches)) {
		matches = nil
	} else {
		matches = matches[skip:]
	}
	if limit > 0 && int64(len(matches)) > limit {
		matches = matches[:limit]
	}

	out := make([]T, 0, len(matches))
	for _, doc := range matches {
		item, err := fromDoc[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *MemStore[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return m.FindOne(ctx, bson.M{"_id": id}, nil)
}

func (m *MemStore[T]) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	return m.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (m *MemStore[T]) UpdateById(_ context.Context, id primitive.ObjectID, data interface{}) (T, error) {
	var zero T
	update, err := basesvc.ToUpdateData(data)
	if err != nil {
		return zero, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return zero, common.ErrNotFound
	}

	next := bson.M{}
	for k, v := range m.docs[idx] {
		next[k] = v
	}
	for k, v := range update.Set {
		next[k] = normalize(v)
	}
	for k := range update.Unset {
		delete(next, k)
	}
	next["updatedAt"] = m.clock()

	if err := m.checkUnique(next, &id); err != nil {
		return zero, err
	}
	m.docs[idx] = next
	return fromDoc[T](next)
}

func (m *MemStore[T]) DeleteById(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(id)
	if idx < 0 {
		return common.ErrNotFound
	}
	m.docs = append(m.docs[:idx], m.docs[idx+1:]...)
	return nil
}

func (m *MemStore[T]) CountDocuments(_ context.Context, filter interface{}) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matches, err := m.match(filter, nil)
	return int64(len(matches)), err
}

func (m *MemStore[T]) DocumentExists(ctx context.Context, filter interface{}) (bool, error) {
	n, err := m.CountDocuments(ctx, filter)
	return n > 0, err
}

func (m *MemStore[T]) indexOf(id primitive.ObjectID) int {
	for i, doc := range m.docs {
		if doc["_id"] == id {
			return i
		}
	}
	return -1
}

func (m *MemStore[T]) checkUnique(doc bson.M, self *primitive.ObjectID) error {
	for _, field := range m.unique {
		value, ok := doc[field]
		if !ok || value == nil {
			continue
		}
		for _, other := range m.docs {
			if self != nil && other["_id"] == *self {
				continue
			}
			if compare(other[field], value) == 0 {
				return common.WithDetails(common.ErrDuplicate, fmt.Sprintf("duplicate key on %s", field))
			}
		}
	}
	return nil
}

func (m *MemStore[T]) match(filter interface{}, sortSpec interface{}) ([]bson.M, error) {
	f, err := asDoc(filter)
	if err != nil {
		return nil, err
	}

	var out []bson.M
	for _, doc := range m.docs {
		ok, err := matchDoc(doc, f)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}

	if sortSpec != nil {
		keys, err := asSort(sortSpec)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(out, func(i, j int) bool {
			for _, k := range keys {
				c := compare(lookup(out[i], k.Key), lookup(out[j], k.Key))
				if c != 0 {
					dir, _ := k.Value.(int)
					return (c < 0) == (dir > 0)
				}
			}
			return false
		})
	}
	return out, nil
}

func matchDoc(doc bson.M, filter bson.M) (bool, error) {
	for key, cond := range filter {
		switch key {
		case "$or":
			clauses, ok := cond.([]bson.M)
			if !ok {
				arr := toSlice(cond)
				for _, c := range arr {
					cm, err := asDoc(c)
					if err != nil {
						return false, err
					}
					clauses = append(clauses, cm)
				}
			}
			someOK := false
			for _, clause := range clauses {
				ok, err := matchDoc(doc, clause)
				if err != nil {
					return false, err
				}
				someOK = someOK || ok
			}
			if !someOK {
				return false, nil
			}
		default:
			if strings.HasPrefix(key, "$") {
				return false, fmt.Errorf("storetest: unsupported operator %s", key)
			}
			ok, err := matchField(values(doc, key), cond)
			if err != nil || !ok {
				return false, err
			}
		}
	}
	return true, nil
}

// values returns every value reachable through a dotted path, flattening arrays.
func values(doc bson.M, path string) []interface{} {
	current := []interface{}{doc}
	for _, part := range strings.Split(path, ".") {
		var next []interface{}
		for _, v := range current {
			switch node := v.(type) {
			case bson.M:
				if child, ok := node[part]; ok {
					next = append(next, flatten(child)...)
				}
			case map[string]interface{}:
				if child, ok := node[part]; ok {
					next = append(next, flatten(child)...)
				}
			case bson.D:
				if child, ok := node.Map()[part]; ok {
					next = append(next, flatten(child)...)
				}
			}
		}
		current = next
	}
	return current
}

func flatten(v interface{}) []interface{} {
	switch arr := v.(type) {
	case bson.A:
		return append([]interface{}{arr}, []interface{}(arr)...)
	case []interface{}:
		return append([]interface{}{arr}, arr...)
	}
	return []interface{}{v}
}

func lookup(doc bson.M, path string) interface{} {
	vs := values(doc, path)
	if len(vs) == 0 {
		return nil
	}
	return vs[0]
}

func matchField(vals []interface{}, cond interface{}) (bool, error) {
	ops, isOps := operatorDoc(cond)
	if !isOps {
		if cond == nil {
			return len(vals) == 0 || anyMatch(vals, func(v interface{}) bool { return v == nil }), nil
		}
		return anyMatch(vals, func(v interface{}) bool { return compare(v, cond) == 0 }), nil
	}

	for op, arg := range ops {
		var ok bool
		switch op {
		case "$ne":
			ok = !anyMatch(vals, func(v interface{}) bool { return compare(v, arg) == 0 })
		case "$in":
			list := toSlice(arg)
			ok = anyMatch(vals, func(v interface{}) bool {
				for _, candidate := range list {
					if compare(v, candidate) == 0 {
						return true
					}
				}
				return false
			})
		case "$regex":
			re, err := buildRegex(arg, ops["$options"])
			if err != nil {
				return false, err
			}
			ok = anyMatch(vals, func(v interface{}) bool {
				s, isStr := v.(string)
				return isStr && re.MatchString(s)
			})
		case "$options":
			ok = true
		default:
			return false, fmt.Errorf("storetest: unsupported operator %s", op)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func buildRegex(pattern, opts interface{}) (*regexp.Regexp, error) {
	var expr, flags string
	switch p := pattern.(type) {
	case string:
		expr = p
	case primitive.Regex:
		expr, flags = p.Pattern, p.Options
	default:
		return nil, fmt.Errorf("storetest: bad $regex %T", pattern)
	}
	if s, ok := opts.(string); ok {
		flags += s
	}
	if strings.Contains(flags, "i") {
		expr = "(?i)" + expr
	}
	return regexp.Compile(expr)
}

func anyMatch(vals []interface{}, pred func(interface{}) bool) bool {
	for _, v := range vals {
		if pred(v) {
			return true
		}
	}
	return false
}

func operatorDoc(cond interface{}) (bson.M, bool) {
	m, err := asDoc(cond)
	if err != nil || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

func toSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case bson.A:
		return s
	case []interface{}:
		return s
	case []string:
		out := make([]interface{}, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	case []primitive.ObjectID:
		out := make([]interface{}, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	}
	return []interface{}{v}
}

// compare orders nil < numbers < strings < others; numbers compare by value.
func compare(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		}
		return 1
	}
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	case primitive.ObjectID:
		if y, ok := b.(primitive.ObjectID); ok {
			return strings.Compare(x.Hex(), y.Hex())
		}
	}
	if fmt.Sprint(a) == fmt.Sprint(b) {
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func asDoc(v interface{}) (bson.M, error) {
	switch f := v.(type) {
	case nil:
		return bson.M{}, nil
	case bson.M:
		return f, nil
	case map[string]interface{}:
		return f, nil
	case bson.D:
		return f.Map(), nil
	}
	return nil, fmt.Errorf("storetest: unsupported filter type %T", v)
}

func asSort(v interface{}) (bson.D, error) {
	switch s := v.(type) {
	case bson.D:
		out := make(bson.D, 0, len(s))
		for _, e := range s {
			dir, _ := number(e.Value)
			out = append(out, bson.E{Key: e.Key, Value: int(dir)})
		}
		return out, nil
	case bson.M:
		if len(s) > 1 {
			return nil, fmt.Errorf("storetest: multi-key sort needs bson.D")
		}
		for k, val := range s {
			dir, _ := number(val)
			return bson.D{{Key: k, Value: int(dir)}}, nil
		}
		return nil, nil
	}
	return nil, fmt.Errorf("storetest: unsupported sort type %T", v)
}

// normalize round-trips a value through bson so stored values have the same
// shapes as decoded documents.
func normalize(v interface{}) interface{} {
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return v
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out["v"]
}

func toDoc(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDoc[T any](doc bson.M) (T, error) {
	var out T
	raw, err := bson.Marshal(doc)
	if err != nil {
		return out, err
	}
	err = bson.Unmarshal(raw, &out)
	return out, err
}
