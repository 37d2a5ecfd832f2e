package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/xhad/vidnotes/internal/logger"
	"github.com/xhad/vidnotes/internal/models"
	"github.com/xhad/vidnotes/internal/types"
	"github.com/xhad/vidnotes/pkg/youtube"
)

var ErrNoNotes = errors.New("no notes generated yet")

type SessionConfig struct {
	Source    types.TranscriptSource
	Assistant types.Assistant
	Store     types.NotesStore // optional
	Logger    logger.Logger
}

type GenerateOptions struct {
	// Refresh skips the notes archive and always regenerates.
	Refresh    bool
	OnProgress func(done, total int)
}

// Session holds the active notes document and the chat about it. Replacing
// the notes clears the chat; asking never touches the notes.
type Session struct {
	config  SessionConfig
	notes   models.NotesDocument
	history []models.ChatTurn
}

func New(config SessionConfig) *Session {
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}

	return &Session{config: config}
}

// Generate turns a video URL into the active notes document. Input errors
// (bad URL, missing transcript) return before any model work.
func (s *Session) Generate(ctx context.Context, videoURL string, opts GenerateOptions) (models.NotesDocument, error) {
	videoID, ok := youtube.ExtractVideoID(videoURL)
	if !ok {
		return models.NotesDocument{}, youtube.ErrInvalidURL
	}

	if s.config.Store != nil && !opts.Refresh {
		doc, found, err := s.config.Store.Get(ctx, videoID)
		if err != nil {
			s.config.Logger.Warn(ctx, "notes archive lookup for %s failed: %v", videoID, err)
		} else if found {
			s.config.Logger.Info(ctx, "using archived notes for %s", videoID)
			s.SetNotes(doc)
			return doc, nil
		}
	}

	transcript, err := s.config.Source.FetchTranscript(ctx, videoID)
	if err != nil {
		return models.NotesDocument{}, err
	}

	body, err := s.config.Assistant.SummarizeVideoWithProgress(ctx, transcript.Text, opts.OnProgress)
	if err != nil {
		return models.NotesDocument{}, err
	}

	doc := models.NewNotesDocument(videoID, body)
	s.SetNotes(doc)

	// An empty document means an empty transcript; archiving it would pin
	// the video to empty notes.
	if s.config.Store != nil && !doc.IsEmpty() {
		if err := s.config.Store.Put(ctx, doc); err != nil {
			s.config.Logger.Warn(ctx, "failed to archive notes for %s: %v", videoID, err)
		}
	}

	return doc, nil
}

// SetNotes makes doc the active context and starts a fresh chat.
func (s *Session) SetNotes(doc models.NotesDocument) {
	s.notes = doc
	s.history = nil
}

func (s *Session) Notes() models.NotesDocument {
	return s.notes
}

func (s *Session) History() []models.ChatTurn {
	out := make([]models.ChatTurn, len(s.history))
	copy(out, s.history)
	return out
}

// Ask records the question, answers it against the active notes and records
// the answer.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	if s.notes.IsEmpty() {
		return "", ErrNoNotes
	}

	s.history = append(s.history, models.ChatTurn{Role: models.RoleUser, Content: question})

	answer, err := s.config.Assistant.AnswerQuestion(ctx, s.notes.Body, question)
	if err != nil {
		return "", fmt.Errorf("failed to answer: %w", err)
	}

	s.history = append(s.history, models.ChatTurn{Role: models.RoleAssistant, Content: answer})
	return answer, nil
}
