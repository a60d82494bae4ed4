package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vsubgo/internal/api"
	"vsubgo/pkg/config"
	"vsubgo/pkg/library"
	"vsubgo/pkg/logging"
	"vsubgo/pkg/model"
	"vsubgo/pkg/preview"
	"vsubgo/pkg/probe"
	"vsubgo/pkg/project"
	"vsubgo/pkg/scriptgen"
	"vsubgo/pkg/store"
	"vsubgo/pkg/synth"
	"vsubgo/pkg/tts"
	"vsubgo/pkg/tts/edgetts"
	"vsubgo/pkg/tts/sapi"
	"vsubgo/pkg/version"
)

var (
	configPath = flag.String("config", "configs/vsubgo.yaml", "Path to the config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	trace      = flag.Bool("trace", false, "Enable trace logging")
)

func main() {
	flag.Parse()

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", *configPath)
		return
	}

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// .env is optional; variables already in the environment win.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()
	logging.EnableTrace = *trace

	// Configure TTS payload history
	if cfg.Log.TTS.Enabled {
		tts.SetLogPath(cfg.Log.TTS.Path)
	} else {
		tts.SetLogPath("")
	}

	slog.Info("vsubgo started", "version", version.Version, "config", configPath)

	st, err := store.NewSQLiteStore(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	libs, watchers, err := initLibraries(cfg)
	if err != nil {
		return err
	}
	for _, w := range watchers {
		w.Start()
	}
	defer func() {
		for _, w := range watchers {
			w.Stop()
		}
	}()

	primary, fallback := initTTS(cfg)

	synthMgr, err := synth.NewManager(cfg, primary, fallback)
	if err != nil {
		return fmt.Errorf("failed to initialize synthesis: %w", err)
	}

	projectMgr := project.NewManager(st)
	if err := projectMgr.RestoreLast(ctx); err != nil {
		slog.Warn("Could not restore last project", "error", err)
	}

	gen, err := scriptgen.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize script generator: %w", err)
	}

	// Startup checks
	probes := []probe.Probe{
		{
			Name:     "Project database",
			Check:    func(ctx context.Context) error { _, err := st.ListProjects(ctx); return err },
			Critical: true,
		},
		{
			Name:     "Output directory",
			Check:    func(context.Context) error { return checkWritable(cfg.Paths.Output) },
			Critical: true,
		},
		{
			// Synthesis needs it, editing and export do not.
			Name:  "FFmpeg binary",
			Check: func(context.Context) error { _, err := exec.LookPath("ffmpeg"); return err },
		},
		{
			Name:  "TTS voice list",
			Check: func(ctx context.Context) error { _, err := primary.Voices(ctx); return err },
		},
	}
	if err := probe.Evaluate(probe.Run(ctx, probes)); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	return runServer(cfg, projectMgr, st, synthMgr, primary, libs, gen)
}

// checkWritable proves the process can create files where synthesis
// output lands.
func checkWritable(dir string) error {
	f := filepath.Join(dir, ".writecheck")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		return err
	}
	return os.Remove(f)
}

// initLibraries opens the image and sound collections and a polling
// watcher per collection.
func initLibraries(cfg *config.Config) ([]*library.Library, []*library.Watcher, error) {
	dirs := map[library.Kind]string{
		library.KindImages: cfg.Paths.Memes,
		library.KindSounds: cfg.Paths.Sounds,
	}

	var libs []*library.Library
	var watchers []*library.Watcher
	for kind, dir := range dirs {
		lib, err := library.New(kind, dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s library: %w", kind, err)
		}
		libs = append(libs, lib)
		watchers = append(watchers, library.NewWatcher(lib, cfg.Library.PollInterval.Std(), func(k library.Kind) {
			slog.Info("Library changed on disk", "kind", k)
		}))
	}
	return libs, watchers, nil
}

// initTTS picks the primary engine from config. Edge runs with SAPI as
// the offline fallback when enabled; SAPI as primary needs no fallback.
func initTTS(cfg *config.Config) (primary, fallback tts.Provider) {
	switch cfg.TTS.Engine {
	case "windows-sapi":
		return sapi.NewProvider(), nil
	default:
		if cfg.TTS.Fallback {
			fallback = sapi.NewProvider()
		}
		return edgetts.NewProvider(), fallback
	}
}

func runServer(cfg *config.Config, projectMgr *project.Manager, st store.Store, synthMgr *synth.Manager, provider tts.Provider, libs []*library.Library, gen scriptgen.Generator) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	shutdownFunc := func() { quit <- syscall.SIGTERM }

	defaultVoice := model.VoiceSettings{Voice: cfg.DefaultVoice()}

	srv := api.NewServer(cfg.Server.Address,
		api.NewStatusHandler(projectMgr, synthMgr),
		api.NewProjectHandler(projectMgr, defaultVoice),
		api.NewEditHandler(projectMgr, st),
		api.NewExportHandler(projectMgr),
		api.NewTemplateHandler(st),
		api.NewLibraryHandler(libs...),
		api.NewSynthesisHandler(synthMgr, projectMgr, provider),
		api.NewScriptHandler(gen),
		api.NewPreviewHandler(preview.New()),
		shutdownFunc,
	)

	srv.Handler = loggingMiddleware(srv.Handler)
	return runServerLifecycle(srv, quit)
}

func runServerLifecycle(srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Trace("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
