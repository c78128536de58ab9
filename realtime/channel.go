package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/notifications"
)

type State string

const (
	StateIdle         State = "idle"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	// StateDisconnected means the reconnect budget ran out; the channel
	// stays down until restarted.
	StateDisconnected State = "disconnected"
)

// Channel maintains the single push connection for one owner identity and
// feeds inbound events into the notification store. Switching identities
// means Stop() on the old channel before Start() on a new one; a channel
// is bound to one identity for its whole life.
type Channel struct {
	URL    string
	UserID string
	Store  *notifications.Store
	Log    *logrus.Logger

	Dialer      *websocket.Dialer
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	mu      sync.Mutex
	state   State
	conn    *websocket.Conn
	stop    chan struct{}
	done    chan struct{}
	started bool
}

func NewChannel(url, userID string, store *notifications.Store, log *logrus.Logger) *Channel {
	return &Channel{
		URL:    url,
		UserID: userID,
		Store:  store,
		Log:    log,
		Dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    5 * time.Second,
		state:       StateIdle,
	}
}

// Start brings the connection up in the background. It refuses to start
// without an identity or a push URL; both are preconditions, not runtime
// failures to retry.
func (c *Channel) Start() error {
	if c.UserID == "" {
		return errors.New("no user identity, channel stays idle")
	}
	if c.URL == "" {
		return errors.New("push URL is not configured")
	}

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.New("channel already started")
	}
	c.started = true
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	c.mu.Unlock()

	c.setState(StateConnecting)
	go c.run()
	return nil
}

// Stop tears the channel down: the dispatch gate closes before the socket
// does, so no event reaches the store after Stop returns.
func (c *Channel) Stop() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.started = false
	close(c.stop)
	conn := c.conn
	done := c.done
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	<-done
	c.setState(StateIdle)
}

func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	prev := c.state
	c.state = s
	c.mu.Unlock()
	if prev != s && c.Log != nil {
		c.Log.Printf("push channel %s -> %s", prev, s)
	}
}

func (c *Channel) run() {
	defer close(c.done)

	attempt := 0
	delay := c.BaseDelay
	for {
		if c.stopped() {
			return
		}

		conn, _, err := c.Dialer.Dial(c.URL, nil)
		if err != nil {
			attempt++
			if attempt > c.MaxAttempts {
				c.Log.Printf("push channel gave up after %d attempts: %v", c.MaxAttempts, err)
				c.setState(StateDisconnected)
				return
			}
			c.setState(StateReconnecting)
			c.Log.Printf("push channel reconnection attempt %d: %v", attempt, err)

			select {
			case <-c.stop:
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > c.MaxDelay {
				delay = c.MaxDelay
			}
			continue
		}

		attempt = 0
		delay = c.BaseDelay
		c.mu.Lock()
		if !c.started {
			// Stop arrived while the dial was in flight; the late
			// connection must not reach the read loop.
			c.mu.Unlock()
			conn.Close()
			return
		}
		c.conn = conn
		c.mu.Unlock()
		c.setState(StateConnected)

		if err := c.join(conn); err != nil {
			c.Log.Printf("push channel join failed: %v", err)
		}

		readErr := c.readLoop(conn)
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()

		if c.stopped() {
			return
		}
		// Transport dropped us; go around for another dial.
		c.Log.Printf("push channel lost connection: %v", readErr)
		c.setState(StateReconnecting)
	}
}

// join announces the private per-owner room right after the handshake.
func (c *Channel) join(conn *websocket.Conn) error {
	payload, err := json.Marshal(c.UserID)
	if err != nil {
		return err
	}
	return conn.WriteJSON(models.PushMessage{
		Event: models.EventJoinRestaurant,
		Data:  payload,
	})
}

func (c *Channel) readLoop(conn *websocket.Conn) error {
	for {
		var msg models.PushMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}
		if c.stopped() {
			return nil
		}
		c.dispatch(msg)
	}
}

func (c *Channel) dispatch(msg models.PushMessage) {
	switch msg.Event {
	case models.EventNewOrder:
		var ev models.NewOrderEvent
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				c.Log.Printf("dropping malformed new-order event: %v", err)
				return
			}
		}
		n := c.Store.Append(ev)
		c.Log.Printf("new order %s appended as notification %s", ev.OrderID, n.ID)
	case models.EventOrderStatusUpdated:
		// Observed, no feed mutation yet.
		c.Log.Printf("order status updated: %s", string(msg.Data))
	case models.EventOrderCancelled:
		// Observed, no feed mutation yet.
		c.Log.Printf("order cancelled: %s", string(msg.Data))
	default:
		c.Log.Printf("ignoring unknown push event %q", msg.Event)
	}
}

func (c *Channel) stopped() bool {
	select {
	case <-c.stop:
		return true
	default:
		return false
	}
}
