package session

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newRegistryForTest(ttl time.Duration) *Registry {
	factory := func() *Guard {
		return NewGuard(newFakeIdentity(), newFakeRoles(), zap.NewNop())
	}
	return NewRegistry(factory, ttl, zap.NewNop())
}

func TestRegistryOpenLookupClose(t *testing.T) {
	registry := newRegistryForTest(time.Hour)

	id, guard := registry.Open(context.Background())
	if id == "" || guard == nil {
		t.Fatal("open returned empty session")
	}

	found, ok := registry.Lookup(id)
	if !ok || found != guard {
		t.Fatal("lookup did not resolve the opened guard")
	}

	registry.Close(id)
	if _, ok := registry.Lookup(id); ok {
		t.Fatal("closed session still resolvable")
	}
	// Closing twice is fine.
	registry.Close(id)
}

func TestRegistryIssuesDistinctSessions(t *testing.T) {
	registry := newRegistryForTest(time.Hour)

	idA, guardA := registry.Open(context.Background())
	idB, guardB := registry.Open(context.Background())
	if idA == idB {
		t.Fatal("session ids collide")
	}
	if guardA == guardB {
		t.Fatal("guards shared between sessions")
	}
	registry.CloseAll()
	if _, ok := registry.Lookup(idA); ok {
		t.Fatal("session survived CloseAll")
	}
}

func TestRegistryReapsIdleSessions(t *testing.T) {
	registry := newRegistryForTest(10 * time.Millisecond)

	id, _ := registry.Open(context.Background())
	time.Sleep(30 * time.Millisecond)
	registry.reapIdle()

	if _, ok := registry.Lookup(id); ok {
		t.Fatal("idle session not reaped")
	}
}

func TestRegistryLookupRefreshesIdleTimer(t *testing.T) {
	registry := newRegistryForTest(50 * time.Millisecond)

	id, _ := registry.Open(context.Background())
	for i := 0; i < 3; i++ {
		time.Sleep(20 * time.Millisecond)
		if _, ok := registry.Lookup(id); !ok {
			t.Fatalf("active session lost on lookup %d", i)
		}
	}
	registry.reapIdle()
	if _, ok := registry.Lookup(id); !ok {
		t.Fatal("recently used session reaped")
	}
}
