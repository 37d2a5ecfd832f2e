package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/xhad/vidnotes/internal/logger"
	"github.com/xhad/vidnotes/pkg/assistant"
	cfgPkg "github.com/xhad/vidnotes/pkg/config"
	"github.com/xhad/vidnotes/pkg/llm"
	"github.com/xhad/vidnotes/pkg/server"
	"github.com/xhad/vidnotes/pkg/store"
	"github.com/xhad/vidnotes/pkg/youtube"
)

func main() {
	var configPath string
	var port int

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.IntVar(&port, "port", 0, "Port to listen on (overrides config and PORT)")
	flag.Parse()

	cfg, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if env := os.Getenv("PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			cfg.Server.Port = p
		}
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			log.Printf("config: %v", e)
		}
		log.Fatal("invalid configuration")
	}

	appLog := logger.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := youtube.NewWithConfig(cfg.YouTubeConfig())
	if err != nil {
		log.Fatal(err)
	}

	asst := assistant.New(assistant.Config{ChunkSize: cfg.Processor.ChunkSize}, func() (*llm.Model, error) {
		return llm.Load(cfg.LLMConfig(), appLog)
	}, appLog)
	if err := asst.Init(); err != nil {
		log.Fatal(err)
	}

	notesStore, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		log.Fatal(err)
	}
	if notesStore != nil {
		defer notesStore.Close()
	}

	srv, err := server.NewWSServer(server.Config{
		Source:    source,
		Assistant: asst,
		Store:     notesStore,
		Logger:    appLog,
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := srv.Run(ctx, cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}
