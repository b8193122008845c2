package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	cacheAdapter "github.com/iwoork/homeforpup-sub008/internal/infrastructure/cache/adapter"
	usersAdapter "github.com/iwoork/homeforpup-sub008/internal/repository/adapter"
	users "github.com/iwoork/homeforpup-sub008/internal/repository/port"
)

type countingResolver struct {
	next  Resolver
	calls int
}

func (c *countingResolver) Resolve(ctx context.Context, id string) (Profile, error) {
	c.calls++
	return c.next.Resolve(ctx, id)
}

type brokenDirectory struct{}

func (brokenDirectory) FindByID(context.Context, string) (*users.User, error) {
	return nil, errors.New("connection refused")
}
func (brokenDirectory) Save(context.Context, *users.User) error { return nil }

func TestPlaceholderUsesIDSuffix(t *testing.T) {
	p := Placeholder("5f0c1e2a-77aa-4c1d-9e0b-a1b2c3d4e5f6")
	if p.DisplayName != "User d4e5f6" || !p.Placeholder {
		t.Fatalf("got %+v", p)
	}
	if got := Placeholder("abc").DisplayName; got != "User abc" {
		t.Fatalf("short id: %q", got)
	}
}

func TestDirectoryResolver(t *testing.T) {
	dir := usersAdapter.NewStaticUserRepository(
		users.User{ID: "breeder-1", DisplayName: "Happy Tails", UserType: "breeder"},
		users.User{ID: "nameless-42"},
	)
	r := NewDirectoryResolver(dir)
	ctx := context.Background()

	p, err := r.Resolve(ctx, "breeder-1")
	if err != nil || p.DisplayName != "Happy Tails" || p.UserType != "breeder" || p.Placeholder {
		t.Fatalf("known user: %+v, %v", p, err)
	}

	p, err = r.Resolve(ctx, "stranger-000123")
	if err != nil || !p.Placeholder || p.DisplayName != "User 000123" {
		t.Fatalf("unknown user: %+v, %v", p, err)
	}

	p, err = r.Resolve(ctx, "nameless-42")
	if err != nil || p.DisplayName != "User ess-42" {
		t.Fatalf("blank name: %+v, %v", p, err)
	}
}

func TestDirectoryResolverSurfacesDirectoryErrors(t *testing.T) {
	p, err := NewDirectoryResolver(brokenDirectory{}).Resolve(context.Background(), "u-123456")
	if err == nil {
		t.Fatal("expected error")
	}
	if !p.Placeholder {
		t.Fatal("a placeholder is still returned alongside the error")
	}
}

func TestCachedResolver(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	dir := usersAdapter.NewStaticUserRepository(users.User{ID: "breeder-1", DisplayName: "Happy Tails"})
	inner := &countingResolver{next: NewDirectoryResolver(dir)}
	r := NewCachedResolver(inner, cacheAdapter.NewRedisCacheFromClient(client), time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, err := r.Resolve(ctx, "breeder-1")
		if err != nil || p.DisplayName != "Happy Tails" {
			t.Fatalf("resolve: %+v, %v", p, err)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("directory hit %d times, want 1", inner.calls)
	}
	if !mr.Exists(profileKeyPrefix + "breeder-1") {
		t.Fatal("profile not cached")
	}

	// placeholders are not cached
	for i := 0; i < 2; i++ {
		if _, err := r.Resolve(ctx, "ghost-999999"); err != nil {
			t.Fatal(err)
		}
	}
	if inner.calls != 3 {
		t.Fatalf("placeholder lookups = %d, want 2 more", inner.calls-1)
	}
}
