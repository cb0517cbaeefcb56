package homeassistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

var errSessionClosed = errors.New("Home Assistant connection closed")

// message is any frame Home Assistant sends.
type message struct {
	ID      int64           `json:"id"`
	Type    string          `json:"type"`
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   *CommandError   `json:"error"`
	Message string          `json:"message"`
}

type request struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// session multiplexes commands over one authenticated connection. A single
// reader goroutine routes results to callers by id.
type session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	nextID  atomic.Int64

	mu      sync.Mutex
	pending map[int64]chan message
	done    chan struct{}
	err     error
}

func newSession(conn *websocket.Conn) *session {
	s := &session{
		conn:    conn,
		pending: make(map[int64]chan message),
		done:    make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *session) readLoop() {
	for {
		var msg message
		if err := s.conn.ReadJSON(&msg); err != nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			close(s.done)
			return
		}
		if msg.Type != "result" {
			continue
		}
		s.mu.Lock()
		ch, ok := s.pending[msg.ID]
		delete(s.pending, msg.ID)
		s.mu.Unlock()
		if ok {
			ch <- msg
		}
	}
}

// call sends command and decodes its result into out.
func (s *session) call(ctx context.Context, command string, out any) error {
	id := s.nextID.Add(1)
	ch := make(chan message, 1)

	s.mu.Lock()
	s.pending[id] = ch
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}()

	s.writeMu.Lock()
	err := s.conn.WriteJSON(request{ID: id, Type: command})
	s.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("sending %s: %w", command, err)
	}

	select {
	case msg := <-ch:
		if !msg.Success {
			cmdErr := &CommandError{Command: command, Code: "unknown_error"}
			if msg.Error != nil {
				cmdErr.Code = msg.Error.Code
				cmdErr.Message = msg.Error.Message
			}
			return cmdErr
		}
		if len(msg.Result) == 0 || string(msg.Result) == "null" {
			return nil
		}
		if err := json.Unmarshal(msg.Result, out); err != nil {
			return fmt.Errorf("decoding %s result: %w", command, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		s.mu.Lock()
		err := s.err
		s.mu.Unlock()
		return fmt.Errorf("%s: %w: %v", command, errSessionClosed, err)
	}
}

// close shuts the connection down and waits for the reader to exit.
func (s *session) close() {
	s.writeMu.Lock()
	_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	s.writeMu.Unlock()
	s.conn.Close()
	<-s.done
}
