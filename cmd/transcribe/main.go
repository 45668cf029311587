package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/abrocod/minerva/internal/config"
	"github.com/abrocod/minerva/internal/format"
	"github.com/abrocod/minerva/internal/logger"
	"github.com/abrocod/minerva/internal/media"
	"github.com/abrocod/minerva/internal/pipeline"
	"github.com/abrocod/minerva/internal/planner"
	"github.com/abrocod/minerva/internal/transcription"
	"github.com/abrocod/minerva/internal/types"
)

func main() {
	_ = godotenv.Load() // loads .env

	var (
		configPath string
		language   string
		outputPath string
		formatName string
		keepAudio  bool
		workers    int
		timeoutSec int
	)
	flag.StringVar(&configPath, "config", "", "path to a minerva.yaml config file")
	flag.StringVar(&language, "language", "", "language code for transcription (e.g. 'en', 'es', 'fr')")
	flag.StringVar(&language, "l", "", "shorthand for -language")
	flag.StringVar(&outputPath, "output", "", "custom output path for the transcript file")
	flag.StringVar(&outputPath, "o", "", "shorthand for -output")
	flag.StringVar(&formatName, "format", "", "output format: text, markdown, json, srt or xlsx")
	flag.BoolVar(&keepAudio, "keep-audio", false, "keep the downloaded audio file")
	flag.BoolVar(&keepAudio, "k", false, "shorthand for -keep-audio")
	flag.IntVar(&workers, "workers", 0, "parallel transcription workers for chunked audio")
	flag.IntVar(&timeoutSec, "timeout", 0, "overall run timeout in seconds")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	url := flag.Arg(0)

	log := logger.New()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if language != "" {
		cfg.Language = strings.ToLower(strings.TrimSpace(language))
	}
	if formatName != "" {
		cfg.Format = formatName
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if timeoutSec > 0 {
		cfg.RunTimeoutSec = timeoutSec
	}
	if keepAudio {
		cfg.KeepAudio = true
	}

	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Error: OPENAI_API_KEY environment variable not set.")
		fmt.Fprintln(os.Stderr, "Please set your OpenAI API key: export OPENAI_API_KEY='your-api-key'")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	outFormat, _ := format.ParseFormat(cfg.Format)

	fetcher := media.NewYtDlp(cfg.Tools.YtDlp)
	prober := media.NewFFprobe(cfg.Tools.FFprobe)
	slicer := media.NewFFmpeg(cfg.Tools.FFmpeg)
	for _, check := range []func() error{fetcher.CheckBinary, prober.CheckBinary, slicer.CheckBinary} {
		if err := check(); err != nil {
			log.WithError(err).Fatal("required tool not found")
		}
	}

	provider := transcription.NewWhisper(cfg.APIKey, cfg.Transcription.BaseURL, cfg.Transcription.Model, nil)
	client := transcription.NewClient(provider, transcription.ClientConfig{
		MaxAttempts: cfg.Transcription.MaxAttempts,
		CallTimeout: cfg.CallTimeout(),
		MaxBytes:    cfg.Chunking.MaxBytes,
	}, log.WithField("module", "transcription"))

	p := pipeline.New(pipeline.Options{
		Fetcher:     fetcher,
		Prober:      prober,
		Slicer:      slicer,
		Transcriber: client,
		Limits: planner.Limits{
			MaxBytes:        cfg.Chunking.MaxBytes,
			SafetyFactor:    cfg.Chunking.SafetyFactor,
			MinChunkSeconds: cfg.Chunking.MinChunkSeconds,
		},
		Workers: cfg.Workers,
		Log:     log.WithField("component", "pipeline"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if t := cfg.RunTimeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	res, err := p.Run(ctx, pipeline.Request{
		URL:        url,
		Language:   cfg.Language,
		OutputPath: outputPath,
		OutputDir:  cfg.OutputDir,
		Format:     outFormat,
		KeepAudio:  cfg.KeepAudio,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}

	printSummary(res)
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] <video-url>\n\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(out, "Download a video's audio and transcribe it with the OpenAI Whisper API.")
	fmt.Fprintln(out, "Flags go before the URL.")
	fmt.Fprintln(out)
	flag.PrintDefaults()
}

func printSummary(res *types.PipelineResult) {
	line := strings.Repeat("=", 50)
	fmt.Println("\n" + line)
	fmt.Println("TRANSCRIPTION COMPLETED SUCCESSFULLY!")
	fmt.Println(line)
	fmt.Printf("Transcript saved to: %s\n", res.TranscriptPath)
	if res.AudioPath != "" {
		fmt.Printf("Audio file saved to: %s\n", res.AudioPath)
	}
	fmt.Println("\nFirst 200 characters of transcript:")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println(preview(res.Text, 200))
}

func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
