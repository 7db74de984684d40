package push

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	Logger "github.com/kabar-app/kabar/utils/log"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking is handled by the CORS layer in front of us.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades the request to a websocket and streams hub events to the
// client until either side goes away. Missed events are not re-delivered.
func Handler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			Logger.Log.Errorln("websocket upgrade failed:", err)
			return
		}

		events, sessionID := hub.AddSession(c.Request.Context())
		Logger.Log.Infoln("push session connected:", sessionID)
		defer Logger.Log.Infoln("push session disconnected:", sessionID)

		go readLoop(conn)
		writeLoop(conn, events)
	}
}

// readLoop drains and discards client frames so that close/ping control
// messages are processed.
func readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			conn.Close()
			return
		}
	}
}

func writeLoop(conn *websocket.Conn, events <-chan Event) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				// Hub closed the session.
				conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
