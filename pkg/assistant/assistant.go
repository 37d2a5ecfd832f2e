package assistant

import (
	"context"
	"sync"

	"github.com/xhad/vidnotes/internal/logger"
	"github.com/xhad/vidnotes/pkg/llm"
	"github.com/xhad/vidnotes/pkg/notes"
)

// Loader constructs the model instance. It is called at most once.
type Loader func() (*llm.Model, error)

type Config struct {
	ChunkSize int
}

// Assistant is the entry point for notes generation and question answering.
// The model is loaded on first use and shared by every later call.
// Generation is not serialized here; hosts with concurrent sessions must
// serialize calls themselves.
type Assistant struct {
	config Config
	load   Loader
	logger logger.Logger

	once     sync.Once
	initErr  error
	composer *notes.Composer
	answerer *llm.Answerer
}

func New(config Config, load Loader, log logger.Logger) *Assistant {
	if log == nil {
		log = logger.Nop()
	}

	return &Assistant{
		config: config,
		load:   load,
		logger: log,
	}
}

// Init loads the model if that has not happened yet.
func (a *Assistant) Init() error {
	a.once.Do(func() {
		model, err := a.load()
		if err != nil {
			a.initErr = &InitError{Err: err}
			return
		}

		a.composer = notes.NewWithConfig(notes.ComposerConfig{
			ChunkSize: a.config.ChunkSize,
		}, llm.NewSummarizer(model), a.logger)
		a.answerer = llm.NewAnswerer(model)
	})

	return a.initErr
}

// SummarizeVideo composes a notes body from a transcript.
func (a *Assistant) SummarizeVideo(ctx context.Context, transcript string) (string, error) {
	return a.SummarizeVideoWithProgress(ctx, transcript, nil)
}

// SummarizeVideoWithProgress reports each finished chunk to onProgress.
func (a *Assistant) SummarizeVideoWithProgress(ctx context.Context, transcript string, onProgress func(done, total int)) (string, error) {
	if err := a.Init(); err != nil {
		return "", err
	}

	body, err := a.composer.ComposeWithProgress(ctx, transcript, onProgress)
	if err != nil {
		return "", &GenerationError{Op: "summarize video", Err: err}
	}

	return body, nil
}

// AnswerQuestion answers a question using the notes document as context.
func (a *Assistant) AnswerQuestion(ctx context.Context, notes, question string) (string, error) {
	if err := a.Init(); err != nil {
		return "", err
	}

	answer, err := a.answerer.Answer(ctx, notes, question)
	if err != nil {
		return "", &GenerationError{Op: "answer question", Err: err}
	}

	return answer, nil
}
