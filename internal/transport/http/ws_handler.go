package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"brainrot-quiz-service/internal/app"
	"brainrot-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const defaultListenTimeout = 10 * time.Second

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewWSHandler(service *app.GameService, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		log:     log,
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

type answerPayload struct {
	Text string `json:"text"`
}

type listenPayload struct {
	TimeoutMs int `json:"timeoutMs"`
}

type captureFailedPayload struct {
	Reason string `json:"reason"`
}

type rankingPayload struct {
	Name string `json:"name"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type captureResult struct {
	text string
	err  error
}

// transcriptCapturer hands transcripts that arrive on the socket to a pending capture.
type transcriptCapturer struct {
	results chan captureResult
}

func newTranscriptCapturer() *transcriptCapturer {
	return &transcriptCapturer{results: make(chan captureResult, 1)}
}

func (c *transcriptCapturer) Capture(ctx context.Context) (string, error) {
	select {
	case res := <-c.results:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// deliver passes a result to the pending capture, replacing one that was never read.
func (c *transcriptCapturer) deliver(res captureResult) {
	for {
		select {
		case c.results <- res:
			return
		default:
		}
		select {
		case <-c.results:
		default:
		}
	}
}

func (c *transcriptCapturer) reset() {
	select {
	case <-c.results:
	default:
	}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	log := h.log.With(zap.String("player", playerID))

	events, cancel := h.service.Subscribe(ctx, playerID)
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	emit := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-closeSignals:
		case <-writerDone:
		}
	}
	emitError := func(err error) {
		emit(outboundMessage[any]{Type: "error", Payload: errorPayload{
			Message:     err.Error(),
			Recoverable: app.IsRecoverable(err),
		}})
	}

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: ev.Type, Payload: ev}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	captureCtx, cancelCaptures := context.WithCancel(ctx)
	defer cancelCaptures()
	capturer := newTranscriptCapturer()
	var (
		capturing atomic.Bool
		captures  sync.WaitGroup
		// session this connection started; other sockets of the same player may replace it
		owned string
	)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			state, err := h.service.Start(ctx, playerID)
			if err != nil {
				emitError(err)
				continue
			}
			owned = state.ID
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emitError(errors.New("invalid answer payload"))
				continue
			}
			if _, err := h.service.Submit(ctx, playerID, payload.Text); err != nil {
				emitError(err)
			}
		case "listen":
			var payload listenPayload
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					emitError(errors.New("invalid listen payload"))
					continue
				}
			}
			if !capturing.CompareAndSwap(false, true) {
				emitError(errors.New("already listening"))
				continue
			}
			timeout := time.Duration(payload.TimeoutMs) * time.Millisecond
			if timeout <= 0 {
				timeout = defaultListenTimeout
			}
			capturer.reset()
			captures.Add(1)
			go func() {
				defer captures.Done()
				defer capturing.Store(false)
				if _, err := h.service.Capture(captureCtx, playerID, capturer, timeout); err != nil {
					// Capture failures are already published as captureFailed events.
					if !errors.Is(err, domain.ErrCaptureFailure) {
						emitError(err)
					}
				}
			}()
		case "transcript":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emitError(errors.New("invalid transcript payload"))
				continue
			}
			capturer.deliver(captureResult{text: payload.Text})
		case "captureFailed":
			var payload captureFailedPayload
			_ = json.Unmarshal(inbound.Payload, &payload)
			reason := payload.Reason
			if reason == "" {
				reason = "no speech recognized"
			}
			capturer.deliver(captureResult{err: errors.New(reason)})
		case "advance":
			if _, err := h.service.Advance(ctx, playerID); err != nil {
				emitError(err)
			}
		case "restart":
			state, err := h.service.Restart(ctx, playerID)
			if err != nil {
				emitError(err)
				continue
			}
			owned = state.ID
		case "summary":
			summary, err := h.service.Summary(playerID)
			if err != nil {
				emitError(err)
				continue
			}
			emit(outboundMessage[any]{Type: "summary", Payload: summary})
		case "submitRanking":
			var payload rankingPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emitError(errors.New("invalid ranking payload"))
				continue
			}
			info, err := h.service.SubmitRanking(ctx, playerID, payload.Name)
			if err != nil {
				emitError(err)
				continue
			}
			emit(outboundMessage[any]{Type: "ranking", Payload: info})
		default:
			emitError(errors.New("unsupported message type"))
		}
	}

	close(closeSignals)
	// A session another socket has since started is left alone.
	if owned != "" {
		h.service.LeaveSession(context.Background(), playerID, owned)
	}
	cancelCaptures()
	captures.Wait()
	<-updatesDone
	close(send)
	<-writerDone
}
