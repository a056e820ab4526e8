package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/rl1809/canteen-orders/internal/core/service"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
)

// WSHandler streams live order snapshots over websockets. Every frame is the
// complete set of matching active orders.
type WSHandler struct {
	orders   *service.Coordinator
	catalog  *service.CatalogService
	upgrader websocket.Upgrader
}

func NewWSHandler(orders *service.Coordinator, catalog *service.CatalogService) *WSHandler {
	return &WSHandler{
		orders:  orders,
		catalog: catalog,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) WatchMyOrders(c *gin.Context) {
	sub, err := h.orders.SubscribeToOrdersByUser(c.Request.Context(), callerOf(c).UID)
	if err != nil {
		writeError(c, err)
		return
	}
	h.serve(c, sub)
}

func (h *WSHandler) WatchCanteenOrders(c *gin.Context) {
	ctx := c.Request.Context()
	canteenID := c.Param("canteenID")
	if _, err := h.catalog.OwnedCanteen(ctx, callerOf(c).UID, canteenID); err != nil {
		writeError(c, err)
		return
	}
	sub, err := h.orders.SubscribeToOrdersByCanteen(ctx, canteenID)
	if err != nil {
		writeError(c, err)
		return
	}
	h.serve(c, sub)
}

func (h *WSHandler) serve(c *gin.Context, sub *service.Subscription) {
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go readPump(conn, done)

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-sub.C:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(gin.H{"orders": sortedOrders(snap)}); err != nil {
				log.WithError(err).Debug("websocket write failed")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// readPump discards client frames and closes done once the peer goes away.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
