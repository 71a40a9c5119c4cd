package engine

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/restaurant-reviews/backend/internal/models"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/testdb"
)

func newUserStore(db *gorm.DB, hooks Hooks[models.User]) *Store[models.User, models.User] {
	return NewStore(db, Config[models.User, models.User]{
		Table: "users",
		Filters: []FilterField{
			{Param: "username", Column: "username"},
			{Param: "email", Column: "email"},
		},
		Updatable: []UpdateField{
			{Param: "username", Column: "username"},
			{Param: "email", Column: "email"},
			{Param: "avatarUrl", Column: "avatar_url"},
		},
		PageLimit: 10,
		Restrict: func(tx *gorm.DB, caller int) *gorm.DB {
			return tx.Where("id = ?", caller)
		},
		Hooks: hooks,
	})
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "hashed"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestStoreCRUD(t *testing.T) {
	db := testdb.New(t)
	store := newUserStore(db, Hooks[models.User]{})
	ctx := context.Background()

	t.Run("create and read back", func(t *testing.T) {
		u := &models.User{Username: "alice", Email: "alice@example.com", Password: "hashed"}
		created, err := store.Create(ctx, u, 0)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "alice", created.Username)

		got, err := store.GetByID(ctx, created.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("duplicate unique column", func(t *testing.T) {
		u := &models.User{Username: "alice", Email: "other@example.com", Password: "hashed"}
		_, err := store.Create(ctx, u, 0)
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("get missing record", func(t *testing.T) {
		_, err := store.GetByID(ctx, 999999, 0)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list filters by declared param", func(t *testing.T) {
		mustCreateUser(t, db, "bob")

		params := url.Values{}
		params.Set("username", "bob")
		items, _, err := store.List(ctx, params, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "bob", items[0].Username)
	})
}

func TestStoreOwnership(t *testing.T) {
	db := testdb.New(t)
	store := newUserStore(db, Hooks[models.User]{})
	ctx := context.Background()

	owner := mustCreateUser(t, db, "owner")
	intruder := mustCreateUser(t, db, "intruder")

	t.Run("update by non-owner reads as absence", func(t *testing.T) {
		_, err := store.Update(ctx, owner.ID, map[string]any{"username": "hijacked"}, intruder.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		var got models.User
		require.NoError(t, db.Where("id = ?", owner.ID).Limit(1).Find(&got).Error)
		assert.Equal(t, "owner", got.Username)
	})

	t.Run("update by owner persists", func(t *testing.T) {
		updated, err := store.Update(ctx, owner.ID, map[string]any{"avatarUrl": "http://img/1.png"}, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, "http://img/1.png", updated.AvatarURL)
	})

	t.Run("empty and undeclared fields are ignored", func(t *testing.T) {
		updated, err := store.Update(ctx, owner.ID, map[string]any{
			"username": "",
			"password": "sneaky",
			"id":       424242,
		}, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, "owner", updated.Username)
		assert.Equal(t, owner.ID, updated.ID)

		var got models.User
		require.NoError(t, db.Where("id = ?", owner.ID).Limit(1).Find(&got).Error)
		assert.Equal(t, "hashed", got.Password)
	})

	t.Run("delete by non-owner reads as absence", func(t *testing.T) {
		_, err := store.Delete(ctx, owner.ID, intruder.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete by owner returns the record", func(t *testing.T) {
		deleted, err := store.Delete(ctx, owner.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, owner.ID, deleted.ID)

		_, err = store.GetByID(ctx, owner.ID, owner.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStoreCreateHookRollback(t *testing.T) {
	db := testdb.New(t)
	hookErr := errors.New("hook rejected")
	store := newUserStore(db, Hooks[models.User]{
		PostCreate: func(ctx context.Context, caller int, item *models.User) error {
			return hookErr
		},
	})

	u := &models.User{Username: "ghost", Email: "ghost@example.com", Password: "hashed"}
	_, err := store.Create(context.Background(), u, 0)
	assert.ErrorIs(t, err, hookErr)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "ghost").Count(&n).Error)
	assert.Zero(t, n, "failed create must not leave a partial record")
}

func TestStorePagination(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	sender := mustCreateUser(t, db, "paginator")

	store := NewStore(db, Config[models.Comment, models.Comment]{
		Table:     "comments",
		PageLimit: 2,
	})

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		c := &models.Comment{
			Content:   fmt.Sprintf("comment %d", i),
			SenderID:  sender.ID,
			PostID:    1,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.Create(c).Error)
	}

	queryFor := func(meta PageMeta) url.Values {
		params := url.Values{}
		if meta.Min != nil {
			params.Set("min", meta.Min.Format(time.RFC3339Nano))
		}
		if meta.Max != nil {
			params.Set("max", meta.Max.Format(time.RFC3339Nano))
		}
		return params
	}

	t.Run("walking the windows visits every record exactly once", func(t *testing.T) {
		seen := make(map[int]int)
		meta := PageMeta{}
		var prevNewest time.Time

		for step := 0; ; step++ {
			require.Less(t, step, 10, "pagination did not terminate")

			items, next, err := store.List(ctx, queryFor(meta), 0)
			require.NoError(t, err)
			if len(items) == 0 {
				meta = next
				break
			}
			assert.LessOrEqual(t, len(items), 2)
			for i, item := range items {
				seen[item.ID]++
				if i > 0 {
					assert.True(t, items[i-1].CreatedAt.After(item.CreatedAt), "pages are newest first")
				}
			}
			if step > 0 {
				assert.True(t, items[0].CreatedAt.Before(prevNewest), "later pages hold older records")
			}
			prevNewest = items[0].CreatedAt
			meta = next
		}

		assert.Len(t, seen, 5)
		for id, count := range seen {
			assert.Equal(t, 1, count, "comment %d returned more than once", id)
		}

		t.Run("exhausted window is idempotent", func(t *testing.T) {
			items, next, err := store.List(ctx, queryFor(meta), 0)
			require.NoError(t, err)
			assert.Empty(t, items)
			assert.Equal(t, meta, next)
		})

		t.Run("newer records enter the existing window", func(t *testing.T) {
			fresh := &models.Comment{
				Content:   "late arrival",
				SenderID:  sender.ID,
				PostID:    1,
				CreatedAt: base.Add(time.Hour),
			}
			require.NoError(t, db.Create(fresh).Error)

			items, next, err := store.List(ctx, queryFor(meta), 0)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "late arrival", items[0].Content)
			require.NotNil(t, next.Max)
			assert.True(t, next.Max.After(*meta.Max))
		})
	})
}

func TestStoreSearch(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	store := NewStore(db, Config[models.Restaurant, models.Restaurant]{
		Table:      "restaurants",
		Searchable: []string{"name", "category", "address"},
		PageLimit:  10,
	})

	rows := []models.Restaurant{
		{ID: "r1", Name: "Luigi's Pizza", Category: "italian", Address: "1 Main St", PriceTypes: "$$", Rating: 4, RatingCount: 1},
		{ID: "r2", Name: "Sushi Go", Category: "japanese", Address: "2 Pizza Ave", PriceTypes: "$$$", Rating: 5, RatingCount: 1},
		{ID: "r3", Name: "Taco Town", Category: "mexican", Address: "3 Elm St", PriceTypes: "$", Rating: 3, RatingCount: 1},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	params := url.Values{}
	params.Set("like", "PIZZA")
	items, _, err := store.List(ctx, params, 0)
	require.NoError(t, err)

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	assert.ElementsMatch(t, []string{"r1", "r2"}, ids, "matches any searchable column, case-insensitively")
}
