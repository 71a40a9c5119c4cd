package engine

import (
	"context"
	"net/url"
	"time"

	"gorm.io/gorm"
)

// Entity is any stored record the engine can address by primary key.
type Entity interface {
	PrimaryKey() any
}

// Timestamped is implemented by every row shape the engine lists; the
// pagination window keys on it.
type Timestamped interface {
	CreationTime() time.Time
}

// Hooks are the per-entity extension points the store invokes after the
// primary write. The rating ledger hangs off the post entity's hooks.
type Hooks[T any] struct {
	PostCreate func(ctx context.Context, caller int, item *T) error
	PostUpdate func(ctx context.Context, caller int, old, updated *T) error
	PostDelete func(ctx context.Context, caller int, item *T) error
}

// UpdateField maps a body field onto the column it may update. Fields not
// declared here are ignored on update.
type UpdateField struct {
	Param  string
	Column string
}

// Config declares, once per entity type, everything the generic store needs:
// recognized filters, searchable columns, the updatable-field allowlist, the
// page-size limit (0 = unbounded), related-entity preloads, an optional
// computed-field query pipeline, the ownership restriction applied to
// mutations, and post-operation hooks. Whether an entity reads through the
// pipeline or a plain filtered query is fixed here, not decided per request.
type Config[T Entity, V Timestamped] struct {
	Table      string
	Filters    []FilterField
	Searchable []string
	Updatable  []UpdateField
	PageLimit  int
	Preloads   []string
	Pipeline   func(tx *gorm.DB, caller int) *gorm.DB
	Restrict   func(tx *gorm.DB, caller int) *gorm.DB
	Hooks      Hooks[T]
}

// Store is the generic entity-access engine: filtered/searched/paged lists,
// single-item reads, creates with rollback-on-hook-failure, and
// ownership-scoped updates and deletes, uniform across entity types. T is the
// stored entity, V the row shape returned to callers (equal to T unless the
// entity declares a pipeline).
type Store[T Entity, V Timestamped] struct {
	db  *gorm.DB
	cfg Config[T, V]
}

func NewStore[T Entity, V Timestamped](db *gorm.DB, cfg Config[T, V]) *Store[T, V] {
	return &Store[T, V]{db: db, cfg: cfg}
}

// prefix qualifies column names when the pipeline joins other tables.
func (s *Store[T, V]) prefix() string {
	if s.cfg.Pipeline != nil && s.cfg.Table != "" {
		return s.cfg.Table + "."
	}
	return ""
}

func (s *Store[T, V]) readQuery(ctx context.Context, caller int) *gorm.DB {
	if s.cfg.Pipeline != nil {
		return s.cfg.Pipeline(s.db.WithContext(ctx), caller)
	}
	tx := s.db.WithContext(ctx).Model(new(T))
	for _, p := range s.cfg.Preloads {
		tx = tx.Preload(p)
	}
	return tx
}

// List executes the combined filter, search and window predicate, newest
// first, limited to the declared page size, and returns the page with the
// advanced cursor pair.
func (s *Store[T, V]) List(ctx context.Context, params url.Values, caller int) ([]V, PageMeta, error) {
	filter, err := BuildFilter(s.cfg.Filters, params)
	if err != nil {
		return nil, PageMeta{}, err
	}
	window, err := ParseWindow(params, s.cfg.PageLimit)
	if err != nil {
		return nil, PageMeta{}, err
	}

	pre := s.prefix()
	tx := s.readQuery(ctx, caller)
	for col, v := range filter {
		tx = tx.Where(pre+col+" = ?", v)
	}
	if expr, args := BuildSearch(s.cfg.Searchable, params.Get("like"), pre); expr != "" {
		tx = tx.Where(expr, args...)
	}
	if expr, args := window.Clause(pre); expr != "" {
		tx = tx.Where(expr, args...)
	}
	tx = tx.Order(pre + "created_at DESC")
	if window.Limit > 0 {
		tx = tx.Limit(window.Limit)
	}

	var items []V
	if err := tx.Find(&items).Error; err != nil {
		return nil, PageMeta{}, translate(err)
	}

	times := make([]time.Time, 0, len(items))
	for _, item := range items {
		times = append(times, item.CreationTime())
	}
	return items, window.Advance(times), nil
}

// GetByID reads a single record through the same pipeline or preload path the
// list uses.
func (s *Store[T, V]) GetByID(ctx context.Context, id any, caller int) (*V, error) {
	var items []V
	tx := s.readQuery(ctx, caller).Where(s.prefix()+"id = ?", id).Limit(1)
	if err := tx.Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

// Create inserts the record and runs the post-create hook. A hook failure
// removes the inserted row before the error surfaces, so no partial record
// outlives a failed create.
func (s *Store[T, V]) Create(ctx context.Context, item *T, caller int) (*V, error) {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, translate(err)
	}
	if s.cfg.Hooks.PostCreate != nil {
		if err := s.cfg.Hooks.PostCreate(ctx, caller, item); err != nil {
			s.db.WithContext(ctx).Delete(item)
			return nil, err
		}
	}
	return s.GetByID(ctx, (*item).PrimaryKey(), caller)
}

// Update applies the declared updatable fields from the body to the record
// matching id and the ownership restriction. An ownership miss reads the same
// as absence.
func (s *Store[T, V]) Update(ctx context.Context, id any, body map[string]any, caller int) (*V, error) {
	updates := make(map[string]any)
	for _, f := range s.cfg.Updatable {
		if v, ok := body[f.Param]; ok && !isEmptyValue(v) {
			updates[f.Column] = v
		}
	}

	var old T
	res := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&old)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	tx := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id)
	if s.cfg.Restrict != nil {
		tx = s.cfg.Restrict(tx, caller)
	}
	if len(updates) > 0 {
		res = tx.Updates(updates)
	} else {
		// Nothing declared to change; still honor the ownership check.
		var n int64
		res = tx.Count(&n)
		res.RowsAffected = n
	}
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var updated T
	res = s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&updated)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	if s.cfg.Hooks.PostUpdate != nil {
		if err := s.cfg.Hooks.PostUpdate(ctx, caller, &old, &updated); err != nil {
			return nil, err
		}
	}
	return s.GetByID(ctx, id, caller)
}

// Delete removes the record matching id and the ownership restriction, runs
// the post-delete hook, and returns the deleted record.
func (s *Store[T, V]) Delete(ctx context.Context, id any, caller int) (*T, error) {
	var item T
	tx := s.db.WithContext(ctx).Where("id = ?", id)
	if s.cfg.Restrict != nil {
		tx = s.cfg.Restrict(tx, caller)
	}
	res := tx.Limit(1).Find(&item)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	del := s.db.WithContext(ctx).Where("id = ?", id)
	if s.cfg.Restrict != nil {
		del = s.cfg.Restrict(del, caller)
	}
	res = del.Delete(new(T))
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	if s.cfg.Hooks.PostDelete != nil {
		if err := s.cfg.Hooks.PostDelete(ctx, caller, &item); err != nil {
			return nil, err
		}
	}
	return &item, nil
}

// DeleteWhere removes the single record matching the given columns; entities
// keyed by a composite (the like's post+user pair) delete through here
// instead of by row id.
func (s *Store[T, V]) DeleteWhere(ctx context.Context, conds map[string]any) (*T, error) {
	var item T
	res := s.db.WithContext(ctx).Where(conds).Limit(1).Find(&item)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	res = s.db.WithContext(ctx).Where(conds).Delete(new(T))
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &item, nil
}

// isEmptyValue mirrors the update-body semantics: absent, null, empty-string
// and zero values leave the column untouched.
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	default:
		return false
	}
}
