package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"studyCheckAPI/middleware"
	"studyCheckAPI/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type FeedHandler struct {
	feedManager *services.GroupFeedManager
}

func NewFeedHandler(feedManager *services.GroupFeedManager) *FeedHandler {
	return &FeedHandler{
		feedManager: feedManager,
	}
}

// JoinGroupFeed upgrades the connection and subscribes it to the group's
// homework feed until the peer disconnects.
func (h *FeedHandler) JoinGroupFeed(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(mux.Vars(r)["groupID"])
	if err != nil {
		http.Error(w, "Invalid group id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Could not upgrade connection: %v", err)
		return
	}

	client := &services.FeedClient{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.feedManager.Subscribe(groupID.String(), client)
	middleware.FeedSubscriberConnected()

	go client.WritePump()
	go func() {
		client.ReadPump()
		middleware.FeedSubscriberDisconnected()
	}()
}
