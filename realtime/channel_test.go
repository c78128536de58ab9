package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/notifications"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type memCache struct {
	m map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{m: make(map[string][]byte)}
}

func (c *memCache) Load(key string) ([]byte, bool, error) {
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Save(key string, value []byte) error {
	c.m[key] = value
	return nil
}

func newTestStore() *notifications.Store {
	return notifications.NewStore(newMemCache(), nil, logrus.New())
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func pushServer(t *testing.T, session func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		session(conn)
	}))
}

func TestChannelJoinsAndDeliversNewOrder(t *testing.T) {
	joined := make(chan models.PushMessage, 1)
	srv := pushServer(t, func(conn *websocket.Conn) {
		var join models.PushMessage
		if err := conn.ReadJSON(&join); err != nil {
			return
		}
		joined <- join

		payload, _ := json.Marshal(models.NewOrderEvent{
			OrderID:      "o1",
			TableNumber:  "5",
			CustomerName: "Ana",
			Items:        []string{"Soup"},
			TotalPrice:   12,
			ItemCount:    1,
		})
		conn.WriteJSON(models.PushMessage{Event: models.EventNewOrder, Data: payload})

		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer srv.Close()

	store := newTestStore()
	ch := NewChannel(wsURL(srv), "owner-1", store, logrus.New())
	require.NoError(t, ch.Start())
	defer ch.Stop()

	select {
	case join := <-joined:
		assert.Equal(t, models.EventJoinRestaurant, join.Event)
		var userID string
		require.NoError(t, json.Unmarshal(join.Data, &userID))
		assert.Equal(t, "owner-1", userID)
	case <-time.After(2 * time.Second):
		t.Fatal("server never received a join frame")
	}

	assert.Eventually(t, func() bool {
		return store.UnreadCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, "o1", all[0].OrderID)
	assert.Equal(t, "5", all[0].TableNumber)
	assert.Equal(t, "Ana", all[0].CustomerName)
	assert.Equal(t, []string{"Soup"}, all[0].Items)
	assert.False(t, all[0].Read)
	assert.Equal(t, StateConnected, ch.State())
}

func TestChannelRequiresIdentityAndURL(t *testing.T) {
	store := newTestStore()

	ch := NewChannel("ws://localhost:1", "", store, logrus.New())
	assert.Error(t, ch.Start())
	assert.Equal(t, StateIdle, ch.State())

	ch = NewChannel("", "owner-1", store, logrus.New())
	assert.Error(t, ch.Start())
	assert.Equal(t, StateIdle, ch.State())
}

func TestChannelStatusEventsAreInert(t *testing.T) {
	srv := pushServer(t, func(conn *websocket.Conn) {
		var join models.PushMessage
		if err := conn.ReadJSON(&join); err != nil {
			return
		}

		payload, _ := json.Marshal(models.OrderStatusEvent{OrderID: "o1", Status: "ready"})
		conn.WriteJSON(models.PushMessage{Event: models.EventOrderStatusUpdated, Data: payload})
		conn.WriteJSON(models.PushMessage{Event: models.EventOrderCancelled, Data: payload})

		// Then a real order so the test can detect processing progressed
		// past the inert events.
		orderPayload, _ := json.Marshal(models.NewOrderEvent{OrderID: "o2"})
		conn.WriteJSON(models.PushMessage{Event: models.EventNewOrder, Data: orderPayload})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer srv.Close()

	store := newTestStore()
	ch := NewChannel(wsURL(srv), "owner-1", store, logrus.New())
	require.NoError(t, ch.Start())
	defer ch.Stop()

	assert.Eventually(t, func() bool {
		return len(store.All()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "o2", store.All()[0].OrderID)
}

func TestChannelReconnectsAfterDrop(t *testing.T) {
	var connects int64
	srv := pushServer(t, func(conn *websocket.Conn) {
		n := atomic.AddInt64(&connects, 1)
		var join models.PushMessage
		if err := conn.ReadJSON(&join); err != nil {
			return
		}
		if n == 1 {
			// Simulate a server-side drop right after the handshake.
			return
		}

		payload, _ := json.Marshal(models.NewOrderEvent{OrderID: "after-reconnect"})
		conn.WriteJSON(models.PushMessage{Event: models.EventNewOrder, Data: payload})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer srv.Close()

	store := newTestStore()
	ch := NewChannel(wsURL(srv), "owner-1", store, logrus.New())
	ch.BaseDelay = 10 * time.Millisecond
	ch.MaxDelay = 20 * time.Millisecond
	require.NoError(t, ch.Start())
	defer ch.Stop()

	assert.Eventually(t, func() bool {
		return len(store.All()) == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "after-reconnect", store.All()[0].OrderID)
	assert.GreaterOrEqual(t, atomic.LoadInt64(&connects), int64(2))
}

func TestChannelGivesUpAfterBudget(t *testing.T) {
	// A plain HTTP endpoint fails every websocket handshake.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusBadRequest)
	}))
	defer srv.Close()

	store := newTestStore()
	ch := NewChannel(wsURL(srv), "owner-1", store, logrus.New())
	ch.MaxAttempts = 2
	ch.BaseDelay = time.Millisecond
	ch.MaxDelay = 2 * time.Millisecond
	require.NoError(t, ch.Start())

	assert.Eventually(t, func() bool {
		return ch.State() == StateDisconnected
	}, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, store.All())
}

func TestChannelStopDuringConnect(t *testing.T) {
	// The handshake is held back until after Stop has been signalled, so
	// the dial is still in flight when teardown starts.
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		payload, _ := json.Marshal(models.NewOrderEvent{OrderID: "late"})
		conn.WriteJSON(models.PushMessage{Event: models.EventNewOrder, Data: payload})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	store := newTestStore()
	ch := NewChannel(wsURL(srv), "owner-1", store, logrus.New())
	require.NoError(t, ch.Start())
	time.Sleep(50 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		ch.Stop()
		close(stopped)
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)

	select {
	case <-stopped:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return while a dial was in flight")
	}
	assert.Equal(t, StateIdle, ch.State())

	// The late connection must never deliver into the store.
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, store.All())
}

func TestChannelStopIsCleanAndIdempotent(t *testing.T) {
	srv := pushServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer srv.Close()

	store := newTestStore()
	ch := NewChannel(wsURL(srv), "owner-1", store, logrus.New())
	require.NoError(t, ch.Start())

	assert.Eventually(t, func() bool {
		return ch.State() == StateConnected
	}, 2*time.Second, 5*time.Millisecond)

	ch.Stop()
	assert.Equal(t, StateIdle, ch.State())
	assert.Empty(t, store.All())

	ch.Stop() // second stop is a no-op
	assert.Equal(t, StateIdle, ch.State())
}
