package gateway

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

// Handler returns the /ws endpoint handler for the hub.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[gateway] upgrade error: %v", err)
			return
		}
		log.Printf("[gateway] ws client connected: %s", r.RemoteAddr)

		c := newClient(hub, conn)
		hub.AddClient(c)
		go c.writePump()
		go c.readPump()
	}
}
