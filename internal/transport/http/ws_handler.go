package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"holo-museum-guide/internal/app"
	"holo-museum-guide/internal/domain"
)

const (
	sendBuffer     = 64
	// writeWait bounds a single frame write to a page that stopped reading.
	writeWait      = 10 * time.Second
	// maxMessageSize caps one inbound frame; pose reports are the largest.
	maxMessageSize = 64 << 10
)

type WSHandler struct {
	service  *app.GuideService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWSHandler(service *app.GuideService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeWS upgrades the page's connection and runs one guide session for it.
// The page forwards tracking, pose, button and speech events; the session
// answers with speech, gain and display updates.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	b := newBridge()
	go b.writeLoop(conn, h.logger)

	session, err := h.service.Open(r.Context(), app.Deps{
		Speaker:   b,
		Presenter: b,
		Gains:     []app.GainSink{b},
	})
	if err != nil {
		b.emit("error", errorPayload{Message: err.Error()})
		close(b.send)
		<-b.writerDone
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			h.logger.Warn("session stopped", zap.String("session", session.ID()), zap.Error(err))
		}
	}()

	b.emit("session", sessionPayload{ID: session.ID()})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		ev, err := decodeEvent(inbound)
		if err != nil {
			b.emit("error", errorPayload{Message: err.Error()})
			continue
		}
		if err := session.Post(ev); err != nil {
			b.emit("error", errorPayload{Message: err.Error()})
			break
		}
	}

	cancel()
	h.service.Close(session.ID())
	<-runDone
	close(b.send)
	<-b.writerDone
}

// bridge forwards session output to the page. It is the session's Speaker,
// Presenter and GainSink at once.
type bridge struct {
	send       chan outboundMessage[any]
	writerDone chan struct{}
}

func newBridge() *bridge {
	return &bridge{
		send:       make(chan outboundMessage[any], sendBuffer),
		writerDone: make(chan struct{}),
	}
}

// writeLoop is the only goroutine writing to conn. A failed or timed-out
// write closes the connection, which also ends the read loop.
func (b *bridge) writeLoop(conn *websocket.Conn, logger *zap.Logger) {
	defer close(b.writerDone)
	for msg := range b.send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			logger.Debug("ws write error", zap.Error(err))
			_ = conn.Close()
			return
		}
	}
}

// emit drops the message once the writer has gone away.
func (b *bridge) emit(typ string, payload any) {
	select {
	case b.send <- outboundMessage[any]{Type: typ, Payload: payload}:
	case <-b.writerDone:
	}
}

func (b *bridge) Cancel()                 { b.emit("cancelSpeech", struct{}{}) }
func (b *bridge) Speak(u domain.Utterance) { b.emit("speak", u) }

func (b *bridge) SetTarget(target float64, timeConstant time.Duration) {
	b.emit("gain", gainPayload{Target: target, TimeConstant: timeConstant.Seconds()})
}

func (b *bridge) ShowStatus(s domain.Status)               { b.emit("status", s) }
func (b *bridge) ShowEntity(v domain.EntityView)           { b.emit("entity", v) }
func (b *bridge) ShowQuiz(v domain.QuizView)               { b.emit("quiz", v) }
func (b *bridge) ShowHotspot(v domain.HotspotView)         { b.emit("hotspot", v) }
func (b *bridge) ShowVoiceFeedback(v domain.VoiceFeedback) { b.emit("voiceFeedback", v) }
func (b *bridge) RequestCapture(fileName string)           { b.emit("capture", capturePayload{FileName: fileName}) }
