package server_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/vidnotes/internal/models"
	"github.com/xhad/vidnotes/pkg/server"
)

type fakeSource struct{}

func (fakeSource) FetchTranscript(_ context.Context, videoID string) (models.Transcript, error) {
	return models.Transcript{VideoID: videoID, Text: "spoken words"}, nil
}

type fakeAssistant struct {
	err error
}

func (f *fakeAssistant) SummarizeVideo(ctx context.Context, transcript string) (string, error) {
	return f.SummarizeVideoWithProgress(ctx, transcript, nil)
}

func (f *fakeAssistant) SummarizeVideoWithProgress(_ context.Context, transcript string, onProgress func(done, total int)) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if onProgress != nil {
		onProgress(1, 2)
		onProgress(2, 2)
	}
	return "first point\n- second point", nil
}

func (f *fakeAssistant) AnswerQuestion(_ context.Context, notes, question string) (string, error) {
	return "because " + question, nil
}

func newTestServer(t *testing.T, asst *fakeAssistant) *httptest.Server {
	t.Helper()
	s, err := server.NewWSServer(server.Config{Source: fakeSource{}, Assistant: asst})
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	hello := read(t, conn)
	require.Equal(t, server.TypeStatus, hello.Type)
	require.Equal(t, "connected", hello.Content)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) server.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg server.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readUntil collects messages up to and including the first one whose type
// is in final.
func readUntil(t *testing.T, conn *websocket.Conn, final ...string) []server.Message {
	t.Helper()
	var msgs []server.Message
	for {
		msg := read(t, conn)
		msgs = append(msgs, msg)
		for _, f := range final {
			if msg.Type == f {
				return msgs
			}
		}
	}
}

func types(msgs []server.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type
	}
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &fakeAssistant{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestGenerateThenAsk(t *testing.T) {
	ts := newTestServer(t, &fakeAssistant{})
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(server.Message{
		Type:    server.TypeGenerate,
		Content: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	}))

	msgs := readUntil(t, conn, server.TypeNotes, server.TypeError)
	assert.Equal(t, []string{"status", "progress", "progress", "notes"}, types(msgs))
	assert.Equal(t, "Summarized chunk 2/2", msgs[2].Content)
	assert.Equal(t, "- first point\n- second point", msgs[3].Content)

	require.NoError(t, conn.WriteJSON(server.Message{Type: server.TypeAsk, Content: "why?"}))
	answer := read(t, conn)
	assert.Equal(t, server.TypeAnswer, answer.Type)
	assert.Equal(t, "because why?", answer.Content)

	require.NoError(t, conn.WriteJSON(server.Message{Type: server.TypeNotes}))
	notes := read(t, conn)
	assert.Equal(t, server.TypeNotes, notes.Type)
	assert.Equal(t, "- first point\n- second point", notes.Content)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		asst    *fakeAssistant
		msg     server.Message
		wantErr string
	}{
		{
			name:    "ask before generate",
			asst:    &fakeAssistant{},
			msg:     server.Message{Type: server.TypeAsk, Content: "what?"},
			wantErr: "no notes generated yet",
		},
		{
			name:    "empty question",
			asst:    &fakeAssistant{},
			msg:     server.Message{Type: server.TypeAsk, Content: "   "},
			wantErr: "question is empty",
		},
		{
			name:    "invalid url",
			asst:    &fakeAssistant{},
			msg:     server.Message{Type: server.TypeGenerate, Content: "https://example.com"},
			wantErr: "invalid YouTube URL",
		},
		{
			name:    "generation failure",
			asst:    &fakeAssistant{err: errors.New("model crashed")},
			msg:     server.Message{Type: server.TypeGenerate, Content: "https://youtu.be/dQw4w9WgXcQ"},
			wantErr: "model crashed",
		},
		{
			name:    "unknown type",
			asst:    &fakeAssistant{},
			msg:     server.Message{Type: "stream"},
			wantErr: `unknown message type "stream"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.asst)
			conn := dial(t, ts)

			require.NoError(t, conn.WriteJSON(tt.msg))
			msgs := readUntil(t, conn, server.TypeError, server.TypeNotes, server.TypeAnswer)

			last := msgs[len(msgs)-1]
			assert.Equal(t, server.TypeError, last.Type)
			assert.Contains(t, last.Content, tt.wantErr)
		})
	}
}

func TestInvalidJSON(t *testing.T) {
	ts := newTestServer(t, &fakeAssistant{})
	conn := dial(t, ts)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg := read(t, conn)
	assert.Equal(t, server.TypeError, msg.Type)
	assert.Contains(t, msg.Content, "invalid message")
}

func TestNewWSServer_RequiresDependencies(t *testing.T) {
	_, err := server.NewWSServer(server.Config{Assistant: &fakeAssistant{}})
	assert.Error(t, err)

	_, err = server.NewWSServer(server.Config{Source: fakeSource{}})
	assert.Error(t, err)
}
