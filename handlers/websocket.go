package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"starwars-api/apperror"
	"starwars-api/logging"
	"starwars-api/usecases"
	"starwars-api/ws"
)

// WSHandler serves the live favourites feed.
type WSHandler struct {
	mgr   *ws.Manager
	users *usecases.UserUseCase
}

func NewWSHandler(mgr *ws.Manager, users *usecases.UserUseCase) *WSHandler {
	return &WSHandler{mgr: mgr, users: users}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleFavouritesWS upgrades to websocket and streams favourite events of
// one user until the client disconnects.
// GET /ws?user_id=<id>
func (h *WSHandler) HandleFavouritesWS(c *gin.Context) {
	raw := c.Query("user_id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if raw == "" || err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apperror.NewBadRequestError("user_id must be a positive integer", nil).ToResponse())
		return
	}
	userID := uint(id)

	if _, err := h.users.GetUser(c.Request.Context(), userID); err != nil {
		appErr := apperror.FromError(err)
		c.JSON(appErr.StatusCode(), appErr.ToResponse())
		return
	}

	logger := logging.Ctx(c.Request.Context()).With().Uint("user_id", userID).Logger()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	h.mgr.Register(userID, conn)
	logger.Info().Msg("favourites feed connected")

	defer func() {
		h.mgr.Unregister(userID, conn)
		logger.Info().Msg("favourites feed disconnected")
	}()

	// The feed is server to client only; reads just detect the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug().Err(err).Msg("favourites feed read error")
			}
			return
		}
	}
}

// GetConnectedUsers GET /ws/connected
func (h *WSHandler) GetConnectedUsers(c *gin.Context) {
	ids := h.mgr.List()
	c.JSON(http.StatusOK, gin.H{"users": ids, "count": len(ids)})
}
