package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/overcoach/internal/coach"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// socketRequest is the incoming WebSocket message. Type selects which of
// the embedded request fields are read.
type socketRequest struct {
	Type string `json:"type"` // "suggest" or "counter"
	ID   string `json:"id,omitempty"`
	coach.CompositionRequest
	HeroName string `json:"hero_name,omitempty"`
}

// socketResponse is the outgoing WebSocket message.
type socketResponse struct {
	Type       string                       `json:"type"` // "suggestion", "counters" or "error"
	ID         string                       `json:"id,omitempty"`
	Suggestion *coach.TeamCompositionResult `json:"suggestion,omitempty"`
	Counters   *coach.HeroCounterResult     `json:"counters,omitempty"`
	Error      string                       `json:"error,omitempty"`
	Status     int                          `json:"status,omitempty"`
}

// handleCoachSocket serves a coaching session: each message is one suggest
// or counter request, answered in order on the same connection.
func handleCoachSocket(c Coach, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade", zap.Error(err))
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("websocket read", zap.Error(err))
				}
				return
			}

			var req socketRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				send(conn, logger, socketResponse{Type: "error", Error: "invalid message format", Status: http.StatusBadRequest})
				continue
			}

			resp := socketResponse{ID: req.ID}
			switch req.Type {
			case "suggest":
				res, err := c.Suggest(r.Context(), req.CompositionRequest)
				if err != nil {
					resp = errorResponse(req.ID, err)
					break
				}
				resp.Type, resp.Suggestion = "suggestion", res
			case "counter":
				res, err := c.Counter(r.Context(), coach.HeroCounterRequest{HeroName: req.HeroName})
				if err != nil {
					resp = errorResponse(req.ID, err)
					break
				}
				resp.Type, resp.Counters = "counters", res
			default:
				resp = socketResponse{Type: "error", ID: req.ID, Error: "unknown message type: " + req.Type, Status: http.StatusBadRequest}
			}
			send(conn, logger, resp)
		}
	}
}

func errorResponse(id string, err error) socketResponse {
	return socketResponse{Type: "error", ID: id, Error: err.Error(), Status: statusFor(err)}
}

func send(conn *websocket.Conn, logger *zap.Logger, resp socketResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		logger.Warn("websocket write", zap.Error(err))
	}
}
