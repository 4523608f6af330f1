package registry

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationRegistersAndBeats(t *testing.T) {
	store := NewStore(time.Minute)
	srv := httptest.NewServer(NewRouter(store))
	t.Cleanup(srv.Close)

	reg := NewRegistration(NewClient(srv.URL), ServiceOrders, "http://localhost:8083", 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		reg.Start(ctx)
	}()

	require.Eventually(t, func() bool {
		return len(store.Instances(ServiceOrders)) == 1
	}, time.Second, 10*time.Millisecond)

	inst := store.Instances(ServiceOrders)[0]
	assert.Equal(t, "http://localhost:8083", inst.BaseURL)

	firstSeen := inst.LastSeenAt
	require.Eventually(t, func() bool {
		live := store.Instances(ServiceOrders)
		return len(live) == 1 && live[0].LastSeenAt.After(firstSeen)
	}, time.Second, 10*time.Millisecond, "heartbeats advance the last-seen time")

	// Shutdown deregisters the instance.
	cancel()
	<-done
	assert.Empty(t, store.Instances(ServiceOrders))
}

func TestRegistrationRecoversFromExpiry(t *testing.T) {
	store := NewStore(time.Minute)
	srv := httptest.NewServer(NewRouter(store))
	t.Cleanup(srv.Close)

	reg := NewRegistration(NewClient(srv.URL), ServiceUsers, "http://localhost:8081", 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go reg.Start(ctx)

	require.Eventually(t, func() bool {
		return len(store.Instances(ServiceUsers)) == 1
	}, time.Second, 10*time.Millisecond)
	oldID := store.Instances(ServiceUsers)[0].ID

	// Simulate the registry expiring the instance behind our back.
	store.Deregister(ServiceUsers, oldID)

	require.Eventually(t, func() bool {
		live := store.Instances(ServiceUsers)
		return len(live) == 1 && live[0].ID != oldID
	}, time.Second, 10*time.Millisecond, "a rejected heartbeat triggers re-registration")
}
