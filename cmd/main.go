package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/xhad/vidnotes/internal/logger"
	"github.com/xhad/vidnotes/internal/models"
	"github.com/xhad/vidnotes/internal/types"
	"github.com/xhad/vidnotes/pkg/assistant"
	cfgPkg "github.com/xhad/vidnotes/pkg/config"
	"github.com/xhad/vidnotes/pkg/llm"
	"github.com/xhad/vidnotes/pkg/session"
	"github.com/xhad/vidnotes/pkg/store"
	"github.com/xhad/vidnotes/pkg/youtube"
)

type Options struct {
	ConfigPath string
	VideoURL   string
	Refresh    bool
}

func main() {
	opts, cfg, err := parseFlags()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, cfg); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() (Options, *cfgPkg.Config, error) {
	var opts Options
	var (
		baseURL   string
		model     string
		tokenizer string
		chunkSize int
		driver    string
		dbURL     string
		logLevel  string
	)

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&opts.VideoURL, "url", "", "Video URL to summarize on start")
	flag.BoolVar(&opts.Refresh, "refresh", false, "Regenerate notes even if they are archived")
	flag.StringVar(&baseURL, "ollama-url", "", "Ollama server URL")
	flag.StringVar(&model, "model", "", "Summarization model to use")
	flag.StringVar(&tokenizer, "tokenizer", "", "Path to the model's tokenizer.json")
	flag.IntVar(&chunkSize, "chunk-size", 0, "Maximum transcript chunk size in characters")
	flag.StringVar(&driver, "store", "", "Notes archive driver (none, sqlite, postgres)")
	flag.StringVar(&dbURL, "db-url", "", "Notes archive location (sqlite path or PostgreSQL connection string)")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := cfgPkg.LoadConfig(opts.ConfigPath)
	if err != nil {
		return opts, nil, err
	}

	// Command line flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ollama-url":
			cfg.LLM.BaseURL = baseURL
		case "model":
			cfg.LLM.Model = model
		case "tokenizer":
			cfg.LLM.TokenizerPath = tokenizer
		case "chunk-size":
			cfg.Processor.ChunkSize = chunkSize
		case "store":
			cfg.Store.Driver = driver
		case "db-url":
			cfg.Store.URL = dbURL
		case "log-level":
			cfg.Logging.Level = logLevel
		}
	})

	if errs := cfg.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return opts, nil, fmt.Errorf("invalid configuration:\n  %s", strings.Join(msgs, "\n  "))
	}

	return opts, cfg, nil
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("chunks"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(ctx context.Context, opts Options, cfg *cfgPkg.Config) error {
	appLog := logger.New(cfg.Logging.Level)

	// Initialize components
	source, err := youtube.NewWithConfig(cfg.YouTubeConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize transcript client: %w", err)
	}

	asst := assistant.New(assistant.Config{ChunkSize: cfg.Processor.ChunkSize}, func() (*llm.Model, error) {
		return llm.Load(cfg.LLMConfig(), appLog)
	}, appLog)

	loadSpinner := getSpinner(fmt.Sprintf(" Loading %s...", cfg.LLM.Model))
	err = asst.Init()
	loadSpinner.Finish()
	if err != nil {
		return err
	}

	notesStore, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		return fmt.Errorf("failed to open notes archive: %w", err)
	}
	if notesStore != nil {
		defer notesStore.Close()
	}

	sess := session.New(session.SessionConfig{
		Source:    source,
		Assistant: asst,
		Store:     notesStore,
		Logger:    appLog,
	})

	c := &chat{
		ctx:     ctx,
		session: sess,
		refresh: opts.Refresh,
	}

	if opts.VideoURL != "" {
		if err := c.generate(opts.VideoURL); err != nil {
			return err
		}
	}

	return c.loop(notesStore)
}

type chat struct {
	ctx     context.Context
	session *session.Session
	refresh bool
}

func (c *chat) loop(notesStore types.NotesStore) error {
	// Interactive chat loop with colored output
	color.Cyan("\nPaste a YouTube URL to take notes, then ask about it.")
	color.Cyan("Commands: :notes shows the notes, :new starts over, exit quits.")
	if notesStore == nil {
		color.Yellow("Notes archive disabled; every video is summarized from scratch.")
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	userPrompt := color.New(color.FgGreen).PrintfFunc()

	for {
		if c.session.Notes().IsEmpty() {
			userPrompt("\nVideo URL: ")
		} else {
			userPrompt("\nYou: ")
		}
		if !scanner.Scan() {
			break
		}
		if c.ctx.Err() != nil {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit":
			return nil
		case ":notes":
			c.showNotes()
			continue
		case ":new":
			c.session.SetNotes(models.NotesDocument{})
			color.Blue("Cleared notes and chat.")
			continue
		}

		// A URL always starts a new document; anything else is a question
		// once notes exist.
		if _, ok := youtube.ExtractVideoID(input); ok || c.session.Notes().IsEmpty() {
			if err := c.generate(input); err != nil {
				return err
			}
			continue
		}

		c.ask(input)
	}

	return scanner.Err()
}

// generate reports input and generation failures and keeps going. Only a
// model that failed to load is returned, since nothing can recover from it.
func (c *chat) generate(videoURL string) error {
	color.Blue("\nTaking notes for %s", videoURL)

	var bar *progressbar.ProgressBar
	doc, err := c.session.Generate(c.ctx, videoURL, session.GenerateOptions{
		Refresh: c.refresh,
		OnProgress: func(done, total int) {
			if bar == nil {
				bar = getProgressBar(total, " Summarizing transcript")
			}
			bar.Set(done)
		},
	})
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	var transcriptErr *youtube.TranscriptError
	switch {
	case err == nil:
	case errors.Is(err, assistant.ErrInit):
		return err
	case errors.Is(err, youtube.ErrInvalidURL):
		color.Red("Invalid YouTube URL.")
		return nil
	case errors.As(err, &transcriptErr):
		color.Red("%s", transcriptErr.Error())
		return nil
	default:
		color.Red("Error: %v", err)
		return nil
	}

	if doc.IsEmpty() {
		color.Yellow("The transcript was empty; nothing to take notes on.")
		return nil
	}

	color.Green("✓ Notes ready (%d points)\n", len(doc.Items()))
	fmt.Println(doc.Body)
	return nil
}

func (c *chat) ask(question string) {
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	responseSpinner := getSpinner(" Thinking...")
	answer, err := c.session.Ask(c.ctx, question)
	responseSpinner.Finish()

	if err != nil {
		color.Red("Error: %v\n", err)
		return
	}
	assistantPrompt("\nAssistant: %s\n", answer)
}

func (c *chat) showNotes() {
	notes := c.session.Notes()
	if notes.IsEmpty() {
		color.Yellow("No notes yet. Paste a YouTube URL first.")
		return
	}
	color.Blue("Notes for %s:", notes.VideoID)
	fmt.Println(notes.Body)
}
