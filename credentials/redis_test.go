package credentials

import (
	"testing"

	"cattlecloud.net/go/scope"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shoenig/test/must"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedis_SetGetClear(t *testing.T) {
	t.Parallel()

	ctx := scope.New()
	mr, client := newTestRedis(t)

	s := New(NewRedis(client, "profile-1"), nil)
	must.NoError(t, s.Set(ctx, NewPair("A1", "R1")))

	stored, err := mr.Get("profile-1:access_token")
	must.NoError(t, err)
	must.Eq(t, "A1", stored)

	p := s.Get(ctx)
	must.Eq(t, "A1", p.Access.Unveil())
	must.Eq(t, "R1", p.Refresh.Unveil())

	must.NoError(t, s.Clear(ctx))
	must.False(t, mr.Exists("profile-1:access_token"))
	must.False(t, mr.Exists("profile-1:refresh_token"))
	must.Eq(t, Anonymous, s.State(ctx))
}

func TestRedis_sharedBetweenStores(t *testing.T) {
	t.Parallel()

	ctx := scope.New()
	_, client := newTestRedis(t)

	tab1 := New(NewRedis(client, ""), nil)
	tab2 := New(NewRedis(client, ""), nil)

	must.NoError(t, tab1.Set(ctx, NewPair("A1", "R1")))
	must.Eq(t, Authenticated, tab2.State(ctx))

	must.NoError(t, tab2.Clear(ctx))
	must.Eq(t, Anonymous, tab1.State(ctx))
}

func TestRedis_unavailable(t *testing.T) {
	t.Parallel()

	ctx := scope.New()
	mr, client := newTestRedis(t)
	mr.Close()

	s := New(NewRedis(client, "gone"), nil)
	must.Eq(t, Anonymous, s.State(ctx))
	must.ErrorIs(t, s.Set(ctx, NewPair("A1", "")), ErrStorageUnavailable)
}
