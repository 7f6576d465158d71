package attribution

import (
	"context"
	"testing"
	"time"

	"github.com/anishwij/beacon-go/internal/domain/entities/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("Idempotent", func(t *testing.T) {
		store := NewMemoryStore(0, nil)
		attrs := session.AttributeSet{
			session.FieldUTMSource: "linkedin",
			session.FieldCountry:   "NL",
		}

		require.NoError(t, store.Upsert(ctx, "sess:aaa", attrs))
		first, found, err := store.Get(ctx, "sess:aaa")
		require.NoError(t, err)
		require.True(t, found)

		require.NoError(t, store.Upsert(ctx, "sess:aaa", attrs))
		second, found, err := store.Get(ctx, "sess:aaa")
		require.NoError(t, err)
		require.True(t, found)

		assert.Equal(t, first, second)
	})

	t.Run("MergeNotOverwrite", func(t *testing.T) {
		store := NewMemoryStore(0, nil)

		require.NoError(t, store.Upsert(ctx, "sess:bbb", session.AttributeSet{
			session.FieldUTMSource: "linkedin",
		}))
		require.NoError(t, store.Upsert(ctx, "sess:bbb", session.AttributeSet{
			session.FieldUTMMedium: "social",
		}))

		attrs, found, err := store.Get(ctx, "sess:bbb")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "linkedin", attrs[session.FieldUTMSource])
		assert.Equal(t, "social", attrs[session.FieldUTMMedium])
	})

	t.Run("EmptyWriteErasesNothing", func(t *testing.T) {
		store := NewMemoryStore(0, nil)

		require.NoError(t, store.Upsert(ctx, "sess:ccc", session.AttributeSet{
			session.FieldUTMSource:   "linkedin",
			session.FieldUTMCampaign: "spring_sale_2024",
		}))
		require.NoError(t, store.Upsert(ctx, "sess:ccc", session.AttributeSet{}))

		attrs, found, err := store.Get(ctx, "sess:ccc")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "linkedin", attrs[session.FieldUTMSource])
		assert.Equal(t, "spring_sale_2024", attrs[session.FieldUTMCampaign])
	})

	t.Run("FirstTouchIsSetOnce", func(t *testing.T) {
		store := NewMemoryStore(0, nil)

		require.NoError(t, store.Upsert(ctx, "sess:ddd", session.AttributeSet{
			session.FieldFirstTouch: "1000",
			session.FieldLastSeen:   "1000",
		}))
		require.NoError(t, store.Upsert(ctx, "sess:ddd", session.AttributeSet{
			session.FieldFirstTouch: "2000",
			session.FieldLastSeen:   "2000",
		}))

		attrs, found, err := store.Get(ctx, "sess:ddd")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "1000", attrs[session.FieldFirstTouch])
		assert.Equal(t, "2000", attrs[session.FieldLastSeen])
	})

	t.Run("LastWriteWinsPerField", func(t *testing.T) {
		store := NewMemoryStore(0, nil)

		require.NoError(t, store.Upsert(ctx, "sess:eee", session.AttributeSet{
			session.FieldPathname: "/",
		}))
		require.NoError(t, store.Upsert(ctx, "sess:eee", session.AttributeSet{
			session.FieldPathname: "/about",
		}))

		attrs, _, err := store.Get(ctx, "sess:eee")
		require.NoError(t, err)
		assert.Equal(t, "/about", attrs[session.FieldPathname])
	})
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()

	t.Run("RefreshedOnWrite", func(t *testing.T) {
		store := NewMemoryStore(time.Hour, nil)
		current := time.Unix(0, 0)
		store.now = func() time.Time { return current }

		require.NoError(t, store.Upsert(ctx, "sess:ttl", session.AttributeSet{
			session.FieldUTMSource: "linkedin",
		}))

		// 50 minutes later a merge write lands; the record's clock restarts.
		current = current.Add(50 * time.Minute)
		require.NoError(t, store.Upsert(ctx, "sess:ttl", session.AttributeSet{
			session.FieldPathname: "/about",
		}))

		// 50 more minutes: past the original deadline, inside the refreshed one.
		current = current.Add(50 * time.Minute)
		attrs, found, err := store.Get(ctx, "sess:ttl")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "linkedin", attrs[session.FieldUTMSource])
	})

	t.Run("ExpiresWithoutWrites", func(t *testing.T) {
		store := NewMemoryStore(time.Hour, nil)
		current := time.Unix(0, 0)
		store.now = func() time.Time { return current }

		require.NoError(t, store.Upsert(ctx, "sess:gone", session.AttributeSet{
			session.FieldUTMSource: "linkedin",
		}))

		current = current.Add(2 * time.Hour)
		_, found, err := store.Get(ctx, "sess:gone")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore(0, nil)
	attrs, found, err := store.Get(context.Background(), "sess:nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, attrs)
}

func TestMemoryStoreReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, nil)

	require.NoError(t, store.Upsert(ctx, "sess:copy", session.AttributeSet{
		session.FieldUTMSource: "linkedin",
	}))

	attrs, _, err := store.Get(ctx, "sess:copy")
	require.NoError(t, err)
	attrs[session.FieldUTMSource] = "mutated"

	again, _, err := store.Get(ctx, "sess:copy")
	require.NoError(t, err)
	assert.Equal(t, "linkedin", again[session.FieldUTMSource])
}
