package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/xhad/vidnotes/internal/logger"
	"github.com/xhad/vidnotes/internal/types"
	"github.com/xhad/vidnotes/pkg/session"
)

const (
	TypeGenerate = "generate"
	TypeAsk      = "ask"
	TypeNotes    = "notes"

	TypeStatus   = "status"
	TypeProgress = "progress"
	TypeAnswer   = "answer"
	TypeError    = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool, no browser origin policy
	},
}

// Message is the single envelope used in both directions. Clients send
// generate (Content is a video URL), ask (Content is a question) or notes.
type Message struct {
	Type    string      `json:"type"`
	Content string      `json:"content"`
	Refresh bool        `json:"refresh,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

type Config struct {
	Source    types.TranscriptSource
	Assistant types.Assistant
	Store     types.NotesStore
	Logger    logger.Logger
}

// WSServer gives every websocket connection its own session over one shared
// assistant. Model calls from all connections are serialized.
type WSServer struct {
	config Config
	logger logger.Logger
	genMu  sync.Mutex
}

func NewWSServer(config Config) (*WSServer, error) {
	if config.Source == nil {
		return nil, errors.New("transcript source is required")
	}
	if config.Assistant == nil {
		return nil, errors.New("assistant is required")
	}
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}

	return &WSServer{
		config: config,
		logger: config.Logger,
	}, nil
}

// Handler serves /ws and /health.
func (s *WSServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// Run listens on port until ctx is cancelled.
func (s *WSServer) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "starting websocket server on port %d", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type connection struct {
	id      string
	conn    *websocket.Conn
	session *session.Session
	writeMu sync.Mutex
}

func (s *WSServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	c := &connection{
		id:   uuid.NewString(),
		conn: conn,
		session: session.New(session.SessionConfig{
			Source:    s.config.Source,
			Assistant: s.config.Assistant,
			Store:     s.config.Store,
			Logger:    s.logger,
		}),
	}
	ctx := r.Context()
	s.logger.Info(ctx, "session %s connected", c.id)
	s.send(c, Message{Type: TypeStatus, Content: "connected", Data: map[string]string{"session_id": c.id}})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn(ctx, "session %s read failed: %v", c.id, err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendError(c, "invalid message: %v", err)
			continue
		}

		// Messages on one connection are handled in order so the session
		// never sees an ask racing a generate.
		s.handleMessage(ctx, c, msg)
	}

	s.logger.Info(ctx, "session %s closed", c.id)
}

func (s *WSServer) handleMessage(ctx context.Context, c *connection, msg Message) {
	switch msg.Type {
	case TypeGenerate:
		s.handleGenerate(ctx, c, msg)
	case TypeAsk:
		s.handleAsk(ctx, c, msg)
	case TypeNotes:
		notes := c.session.Notes()
		if notes.IsEmpty() {
			s.sendError(c, "%v", session.ErrNoNotes)
			return
		}
		s.send(c, Message{Type: TypeNotes, Content: notes.Body, Data: map[string]string{"video_id": notes.VideoID}})
	default:
		s.sendError(c, "unknown message type %q", msg.Type)
	}
}

func (s *WSServer) handleGenerate(ctx context.Context, c *connection, msg Message) {
	url := strings.TrimSpace(msg.Content)
	s.send(c, Message{Type: TypeStatus, Content: fmt.Sprintf("Generating notes for %s", url)})

	s.genMu.Lock()
	defer s.genMu.Unlock()

	doc, err := c.session.Generate(ctx, url, session.GenerateOptions{
		Refresh: msg.Refresh,
		OnProgress: func(done, total int) {
			s.send(c, Message{
				Type:    TypeProgress,
				Content: fmt.Sprintf("Summarized chunk %d/%d", done, total),
				Data:    Progress{Done: done, Total: total},
			})
		},
	})
	if err != nil {
		s.logger.Warn(ctx, "session %s generate failed: %v", c.id, err)
		s.sendError(c, "%v", err)
		return
	}

	s.send(c, Message{Type: TypeNotes, Content: doc.Body, Data: map[string]string{"video_id": doc.VideoID}})
}

func (s *WSServer) handleAsk(ctx context.Context, c *connection, msg Message) {
	question := strings.TrimSpace(msg.Content)
	if question == "" {
		s.sendError(c, "question is empty")
		return
	}

	s.genMu.Lock()
	defer s.genMu.Unlock()

	answer, err := c.session.Ask(ctx, question)
	if err != nil {
		s.logger.Warn(ctx, "session %s ask failed: %v", c.id, err)
		s.sendError(c, "%v", err)
		return
	}

	s.send(c, Message{Type: TypeAnswer, Content: answer})
}

func (s *WSServer) sendError(c *connection, format string, args ...interface{}) {
	s.send(c, Message{Type: TypeError, Content: fmt.Sprintf(format, args...)})
}

func (s *WSServer) send(c *connection, msg Message) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.WriteJSON(msg); err != nil {
		s.logger.Warn(context.Background(), "session %s send failed: %v", c.id, err)
	}
}
