// Package main is the headless demo host: it loads an avatar model, drives
// the tick loop, and optionally hot-reloads the model when its source file
// changes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/lumina3d/avatarcore/internal/cache"
	"github.com/lumina3d/avatarcore/internal/config"
	"github.com/lumina3d/avatarcore/internal/engine/animation"
	"github.com/lumina3d/avatarcore/internal/engine/avatar"
	"github.com/lumina3d/avatarcore/internal/loader"
	"github.com/lumina3d/avatarcore/internal/logger"
	"github.com/lumina3d/avatarcore/internal/scene"
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Viewer.ModelURL == "" {
		fmt.Fprintln(os.Stderr, "Usage: avatarview --model <url or path> [--watch]")
		os.Exit(1)
	}

	logger.Info("=== avatarview ===", zap.String("model", cfg.Viewer.ModelURL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cache.New(cfg.Cache.CapacityBytes, logger.Log)
	pipeline := loader.New(c, logger.Log, cfg.Loader.HTTPTimeout)
	av := avatar.New(pipeline, c, nil, logger.Log)
	defer av.Dispose()

	opts := loader.Options{
		URL:          cfg.Viewer.ModelURL,
		Cache:        !config.NoCache(),
		EnableLOD:    cfg.Loader.EnableLOD,
		LODDistances: cfg.Loader.LODDistances,
		OnProgress: func(p loader.Progress) {
			logger.Debug("loading",
				zap.String("stage", string(p.Stage)),
				zap.Float64("progress", p.Progress))
		},
	}

	if err := av.LoadModel(ctx, opts); err != nil {
		logger.Error("failed to load model", zap.Error(err))
		os.Exit(1)
	}
	setupCharacter(av, cfg)

	host := scene.NewHeadless(logger.Log)
	host.OnTick(func(dt float32) {
		av.Update(dt)
		pushPose(av, host)
	})

	if cfg.Viewer.Watch {
		watcher, err := watchModel(ctx, av, cfg, opts)
		if err != nil {
			logger.Error("watch mode unavailable", zap.Error(err))
		} else {
			defer watcher.Close()
		}
	}

	logger.Info("running", zap.Int("fps", cfg.Viewer.FPS))
	if err := host.Run(ctx, cfg.Viewer.FPS); err != nil && ctx.Err() == nil {
		logger.Error("tick loop failed", zap.Error(err))
	}

	stats := av.CacheStats()
	logger.Info("cache stats",
		zap.Int("entries", stats.EntryCount),
		zap.Int64("sizeBytes", stats.SizeBytes),
		zap.Float64("hitRate", stats.HitRate),
		zap.Int64("evictions", stats.Evictions))
	logger.Info("frames rendered", zap.Uint64("frames", host.Frames()))
}

// setupCharacter applies the configured idle behaviors to a freshly loaded
// model.
func setupCharacter(av *avatar.Avatar, cfg *config.Config) {
	m := av.Model()
	if m == nil {
		return
	}

	if face := av.Face(); face != nil {
		b := face.Blinker()
		b.Enabled = cfg.Facial.BlinkEnabled
		b.Duration = cfg.Facial.BlinkDuration
		b.MinInterval = cfg.Facial.BlinkMinInterval
		b.MaxInterval = cfg.Facial.BlinkMaxInterval
	}

	if m.Clip("idle") != nil {
		if err := av.PlayAnimation("idle", 0.3); err != nil {
			logger.Warn("idle clip failed", zap.Error(err))
		}
	}

	if m.Skeleton == nil || len(m.Skeleton.Bones) == 0 {
		return
	}
	root := m.Skeleton.Bones[0].Name

	if m.Skeleton.Has("spine") && cfg.Animation.BreathingAmplitude > 0 {
		err := av.AddProcedural(animation.Procedural{
			Name:      "breathing",
			Kind:      animation.Breathing,
			Bone:      "spine",
			Amplitude: mathx.Vec3{X: cfg.Animation.BreathingAmplitude, Y: cfg.Animation.BreathingAmplitude, Z: cfg.Animation.BreathingAmplitude},
			Frequency: cfg.Animation.BreathingFrequency,
		})
		if err != nil {
			logger.Warn("breathing motion failed", zap.Error(err))
		}
	}
	if cfg.Animation.SwayAmplitude > 0 {
		err := av.AddProcedural(animation.Procedural{
			Name:      "sway",
			Kind:      animation.Sway,
			Bone:      root,
			Amplitude: mathx.Vec3{X: cfg.Animation.SwayAmplitude, Z: cfg.Animation.SwayAmplitude},
			Frequency: cfg.Animation.SwayFrequency,
		})
		if err != nil {
			logger.Warn("sway motion failed", zap.Error(err))
		}
	}
}

// pushPose hands every bone's world transform to the host.
func pushPose(av *avatar.Avatar, host scene.Host) {
	m := av.Model()
	if m == nil || m.Skeleton == nil {
		return
	}
	for _, b := range m.Skeleton.Bones {
		host.PushTransform(b.Name, mathx.Translate(b.World.X, b.World.Y, b.World.Z))
	}
}

// watchModel reloads the model whenever its local source file changes.
// Only file URLs can be watched.
func watchModel(ctx context.Context, av *avatar.Avatar, cfg *config.Config, opts loader.Options) (*fsnotify.Watcher, error) {
	url := cfg.Viewer.ModelURL
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("--watch needs a local file, got %s", url)
	}
	path := strings.TrimPrefix(url, "file://")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				logger.Info("model changed on disk, reloading", zap.String("path", path))
				// The cache would serve the stale copy; bypass it.
				reload := opts
				reload.Cache = false
				if err := av.LoadModel(ctx, reload); err != nil {
					logger.Error("hot reload failed", zap.Error(err))
					continue
				}
				setupCharacter(av, cfg)
				logger.Info("model reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error", zap.Error(err))
			}
		}
	}()

	logger.Info("watching for changes", zap.String("path", path))
	return watcher, nil
}
