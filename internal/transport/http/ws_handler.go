package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"english-quiz-app/internal/app"
	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/logging"
)

// WSHandler drives one quiz session per websocket connection. The session
// is dropped when the connection closes.
type WSHandler struct {
	service     *app.QuizService
	upgrader    websocket.Upgrader
	lang        domain.Language
	defaultQuiz string
}

func NewWSHandler(service *app.QuizService, lang domain.Language, defaultQuiz string) *WSHandler {
	return &WSHandler{
		service:     service,
		lang:        lang,
		defaultQuiz: defaultQuiz,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Collection string `json:"collection"`
	Mode       string `json:"mode"`
	Filter     string `json:"filter"`
}

type answerPayload struct {
	Choice *int   `json:"choice"`
	Lang   string `json:"lang"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// wsConn is the per-connection state. Only the read loop touches sessionID.
type wsConn struct {
	h         *WSHandler
	r         *http.Request
	log       logrus.FieldLogger
	lang      domain.Language
	send      chan outboundMessage[any]
	sessionID string
}

// ServeWS upgrades the request and serves quiz messages until the client
// disconnects. ?collection= starts a session right away; ?lang= sets the
// explanation language for the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := logging.WithContext(r.Context())
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	c := &wsConn{
		h:    h,
		r:    r,
		log:  log,
		lang: languageOf(r, "", h.lang),
		send: make(chan outboundMessage[any], 16),
	}
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range c.send {
			if err := conn.WriteJSON(msg); err != nil {
				log.WithError(err).Warn("ws write error")
				return
			}
		}
	}()

	if name := r.URL.Query().Get("collection"); name != "" {
		c.start(startPayload{Collection: name, Mode: r.URL.Query().Get("mode"), Filter: r.URL.Query().Get("filter")})
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		c.handle(inbound)
	}

	if c.sessionID != "" {
		h.service.End(r.Context(), c.sessionID)
	}
	close(c.send)
	<-writerDone
}

func (c *wsConn) handle(msg inboundMessage) {
	ctx := c.r.Context()
	switch msg.Type {
	case "start":
		var payload startPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				c.fail("invalid start payload")
				return
			}
		}
		c.start(payload)
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Choice == nil {
			c.fail("invalid answer payload")
			return
		}
		lang := c.lang
		if payload.Lang != "" {
			lang = domain.Language(payload.Lang)
		}
		fb, err := c.h.service.Answer(ctx, c.sessionID, *payload.Choice, lang)
		if err != nil {
			c.fail(err.Error())
			return
		}
		c.emit("feedback", fb)
	case "next":
		snap, err := c.h.service.Advance(ctx, c.sessionID)
		if err != nil {
			c.fail(err.Error())
			return
		}
		c.present(snap)
	case "quit":
		snap, err := c.h.service.Quit(ctx, c.sessionID)
		if err != nil {
			c.fail(err.Error())
			return
		}
		c.present(snap)
	case "restart":
		snap, err := c.h.service.Restart(ctx, c.sessionID)
		if err != nil {
			c.fail(err.Error())
			return
		}
		c.sessionID = snap.ID
		c.present(snap)
	default:
		c.fail("unsupported message type")
	}
}

func (c *wsConn) start(p startPayload) {
	ctx := c.r.Context()
	mode, err := domain.ParseMode(p.Mode)
	if err != nil {
		c.fail(err.Error())
		return
	}
	if p.Collection == "" {
		p.Collection = c.h.defaultQuiz
	}
	snap, err := c.h.service.Start(ctx, p.Collection, mode, p.Filter)
	if err != nil {
		c.fail(err.Error())
		return
	}
	if c.sessionID != "" {
		c.h.service.End(ctx, c.sessionID)
	}
	c.sessionID = snap.ID
	c.log.WithField("session_id", snap.ID).Debug("ws session started")
	c.present(snap)
}

// present sends the next question, or the summary once the session is over.
func (c *wsConn) present(snap app.Snapshot) {
	if snap.State == app.StateActive {
		c.emit("question", snap)
		return
	}
	sum, err := c.h.service.Summary(c.r.Context(), snap.ID)
	if err != nil {
		c.fail(err.Error())
		return
	}
	c.emit("summary", sum)
}

func (c *wsConn) emit(typ string, payload any) {
	c.send <- outboundMessage[any]{Type: typ, Payload: payload}
}

func (c *wsConn) fail(message string) {
	c.emit("error", errorPayload{Message: message})
}
