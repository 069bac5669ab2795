package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"studyCheckAPI/internal/homework"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. The feed is one-way; clients
	// only ever send pongs and the occasional close frame.
	maxMessageSize = 512
)

// FeedEvent is the wire format pushed to teacher dashboards when a student's
// homework lands.
type FeedEvent struct {
	Action   string             `json:"action"`
	Homework *homework.Homework `json:"homework"`
}

// FeedSession fans homework events out to every dashboard watching one group.
// Clients enter through Register, leave through Unregister, and the session
// destroys itself when the last one is gone.
type FeedSession struct {
	GroupID    string
	Manager    *GroupFeedManager
	Clients    map[*FeedClient]bool
	Broadcast  chan []byte
	Register   chan *FeedClient
	Unregister chan *FeedClient

	// done is the liveness signal. It closes under the manager lock the
	// moment the session leaves the map; the hub channels themselves are
	// never closed, so a stale handle can always select against done
	// instead of panicking on a closed channel.
	done chan struct{}
}

func newFeedSession(groupID string, manager *GroupFeedManager) *FeedSession {
	return &FeedSession{
		GroupID:    groupID,
		Manager:    manager,
		Clients:    make(map[*FeedClient]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *FeedClient),
		Unregister: make(chan *FeedClient),
		done:       make(chan struct{}),
	}
}

func (s *FeedSession) Run() {
	for {
		select {
		case client := <-s.Register:
			s.Clients[client] = true
			log.Printf("[Feed %s] Subscriber connected. Count: %d", s.GroupID, len(s.Clients))

		case client := <-s.Unregister:
			if _, ok := s.Clients[client]; ok {
				delete(s.Clients, client)
				close(client.Send)
			}

		case message := <-s.Broadcast:
			for client := range s.Clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(s.Clients, client)
				}
			}
		}

		if len(s.Clients) == 0 {
			log.Printf("[Feed %s] Empty, destroying.", s.GroupID)
			s.Manager.deleteSession(s)
			return
		}
	}
}

// Publish hands an event to the hub. A handle that outlived the session's
// teardown returns immediately; with nobody watching the event has no
// audience anyway.
func (s *FeedSession) Publish(data []byte) {
	select {
	case s.Broadcast <- data:
	case <-s.done:
	}
}

// Leave returns the client to the hub. A client already evicted for a full
// send buffer may find the session gone; done keeps the handoff from
// blocking forever.
func (s *FeedSession) Leave(c *FeedClient) {
	select {
	case s.Unregister <- c:
	case <-s.done:
	}
}

// GroupFeedManager holds the active feed sessions, one per group with at
// least one subscriber.
type GroupFeedManager struct {
	sessions map[string]*FeedSession
	mu       sync.RWMutex
}

func NewGroupFeedManager() *GroupFeedManager {
	return &GroupFeedManager{
		sessions: make(map[string]*FeedSession),
	}
}

// Session returns the group's feed session, starting one when none is
// running.
func (m *GroupFeedManager) Session(groupID string) *FeedSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[groupID]; ok {
		return s
	}

	s := newFeedSession(groupID, m)
	m.sessions[groupID] = s
	go s.Run()
	return s
}

// Peek reports whether a feed session is running for the group.
func (m *GroupFeedManager) Peek(groupID string) (*FeedSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[groupID]
	return s, ok
}

// Subscribe attaches the client to the group's live session, starting one
// when none is running. When the session tears down between lookup and
// registration the loop simply begins a fresh one.
func (m *GroupFeedManager) Subscribe(groupID string, client *FeedClient) *FeedSession {
	for {
		s := m.Session(groupID)
		client.Session = s
		select {
		case s.Register <- client:
			return s
		case <-s.done:
		}
	}
}

func (m *GroupFeedManager) deleteSession(s *FeedSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, s.GroupID)
	close(s.done)
}

// PublishHomework broadcasts a new homework row to the group's subscribers.
// With nobody watching the event is dropped; dashboards load the full day on
// open, the feed only saves them the manual refresh. Ordering among
// concurrently published events is whatever the hub sees.
func (m *GroupFeedManager) PublishHomework(groupID string, hw *homework.Homework) {
	session, ok := m.Peek(groupID)
	if !ok {
		return
	}

	data, err := json.Marshal(FeedEvent{Action: "new_homework", Homework: hw})
	if err != nil {
		log.Printf("Error marshalling feed event: %v", err)
		return
	}

	session.Publish(data)
}

// FeedClient sits between one websocket connection and the session hub.
type FeedClient struct {
	Session *FeedSession
	Conn    *websocket.Conn
	Send    chan []byte
}

// ReadPump drains the connection for pong frames and disconnect errors. The
// feed carries no client-to-server messages.
func (c *FeedClient) ReadPump() {
	defer func() {
		c.Session.Leave(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

// WritePump pushes hub messages to the connection and keeps it alive with
// pings.
func (c *FeedClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The session closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
