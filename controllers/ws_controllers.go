package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/freshpress/juicebar-app/ws"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSController struct {
	Hub *ws.Hub
}

func NewWSController(hub *ws.Hub) *WSController {
	return &WSController{Hub: hub}
}

// OrderEvents -> websocket endpoint for admin dashboards and customer
// tracking pages. Connections receive nothing until they send a join
// message; joining an order channel requires only the order number.
func (wc *WSController) OrderEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	wc.Hub.ServeClient(conn)
}
