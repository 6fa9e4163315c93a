package callHandler

import (
	"context"
	"errors"
	"sync"
	"time"

	"CallAgent/internal/api/call"
	"CallAgent/internal/entity"
	"CallAgent/pkg/log"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	frameBuffer  = 32
	writeTimeout = 10 * time.Second
)

// relayConn tracks the call session bound to one websocket. The reader
// goroutine needs it to release the session the moment the socket drops.
type relayConn struct {
	mu        sync.Mutex
	callID    string
	sessionID string
}

func (r *relayConn) get() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.callID
}

func (r *relayConn) session() (string, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.callID, r.sessionID
}

func (r *relayConn) set(session entity.CallSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callID = session.CallID
	r.sessionID = session.SessionID
}

// release drops the session this socket set up. A newer setup of the same call
// on another socket is left alone.
func (h *CallHandler) release(ctx context.Context, conn *relayConn) {
	callID, sessionID := conn.session()
	if err := h.callService.Disconnect(ctx, callID, sessionID); err != nil {
		h.log.Errorf("Error releasing call session: %v", err)
	}
}

func (h *CallHandler) handleRelay(c *websocket.Conn) {
	connID, _ := h.utils.NewULIDFromTimestamp(time.Now())
	h.log.WithFields(log.Fields{"conn_id": connID}).Info("Relay websocket connected")
	defer h.log.WithFields(log.Fields{"conn_id": connID}).Info("Relay websocket disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := &relayConn{}
	frames := make(chan call.InboundFrame, frameBuffer)

	go h.readFrames(ctx, cancel, c, conn, connID, frames)

	for frame := range frames {
		if ctx.Err() != nil {
			continue
		}
		if !h.handleFrame(ctx, c, conn, frame) {
			cancel()
			_ = c.Close()
		}
	}

	// Also covers a setup that was queued behind the read error.
	h.release(context.Background(), conn)
}

// readFrames owns every read on c. When the socket fails it cancels any turn
// in flight and releases the session before the processing loop notices.
func (h *CallHandler) readFrames(
	ctx context.Context,
	cancel context.CancelFunc,
	c *websocket.Conn,
	conn *relayConn,
	connID string,
	frames chan<- call.InboundFrame,
) {
	defer close(frames)

	for {
		if err := c.SetReadDeadline(time.Now().Add(h.relay.ReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			cancel()
			return
		}

		_, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithFields(log.Fields{
					"conn_id": connID,
					"call_id": conn.get(),
					"error":   err.Error(),
				}).Warn("Relay websocket error")
			} else {
				h.log.WithFields(log.Fields{
					"conn_id": connID,
					"call_id": conn.get(),
				}).Info("Relay websocket closed")
			}

			cancel()
			h.release(context.Background(), conn)
			return
		}

		var frame call.InboundFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			h.log.WithFields(log.Fields{
				"conn_id": connID,
				"call_id": conn.get(),
				"error":   call.ErrInvalidFrame.Error(),
			}).Warn("Ignoring frame that is not JSON")
			continue
		}
		if err := h.validator.Struct(frame); err != nil {
			h.log.WithFields(log.Fields{
				"conn_id": connID,
				"call_id": conn.get(),
				"type":    frame.Type,
				"error":   err.Error(),
			}).Warn("Ignoring invalid frame")
			continue
		}

		select {
		case frames <- frame:
		case <-ctx.Done():
			return
		}
	}
}

// handleFrame reports false once the connection can no longer be written to.
func (h *CallHandler) handleFrame(ctx context.Context, c *websocket.Conn, conn *relayConn, frame call.InboundFrame) bool {
	switch frame.Type {
	case call.FrameSetup:
		session, err := h.callService.Setup(ctx, call.SetupRequest{
			CallID:         frame.CallSid,
			RelaySessionID: frame.RelaySessionID,
			From:           frame.From,
			To:             frame.To,
		})
		if err != nil {
			h.log.WithFields(log.Fields{
				"call_id": frame.CallSid,
				"error":   err.Error(),
			}).Warn("Setup rejected")
			return true
		}

		if prev := conn.get(); prev != "" && prev != session.CallID {
			h.release(ctx, conn)
		}
		conn.set(session)

	case call.FramePrompt:
		callID := conn.get()
		if callID == "" {
			h.log.Warn("Prompt before setup, ignored")
			return true
		}

		res, err := h.callService.Prompt(ctx, callID, frame.VoicePrompt)
		if errors.Is(err, call.ErrSessionNotFound) || errors.Is(err, call.ErrSessionClosed) {
			return true
		}
		if err != nil || res == nil {
			res = &call.TurnResponse{Text: call.ApologyText, Outcome: call.OutcomeError}
		}

		if err := h.writeFrame(c, call.NewTextFrame(res.Text)); err != nil {
			h.log.WithFields(log.Fields{
				"call_id": callID,
				"error":   err.Error(),
			}).Error("Error writing response frame")
			return false
		}

	case call.FrameInterrupt:
		h.callService.Interrupt(ctx, conn.get(), call.InterruptNotice{
			UtteranceUntilInterrupt:  frame.UtteranceUntilInterrupt,
			DurationUntilInterruptMs: frame.DurationUntilInterruptMs,
		})

	case call.FrameDTMF:
		h.log.WithFields(log.Fields{
			"call_id": conn.get(),
			"digit":   frame.Digit,
		}).Info("DTMF received")

	case call.FrameError:
		h.log.WithFields(log.Fields{
			"call_id":     conn.get(),
			"description": frame.Description,
		}).Warn("Relay reported an error")

	default:
		h.log.WithFields(log.Fields{
			"call_id": conn.get(),
			"type":    frame.Type,
		}).Warn("Unhandled message type")
	}

	return true
}

func (h *CallHandler) writeFrame(c *websocket.Conn, frame call.OutboundTextFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	return c.SetWriteDeadline(time.Time{})
}
