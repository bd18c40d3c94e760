package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/touchbrawler/prefabs"
	"github.com/milk9111/touchbrawler/system"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	arena := flag.String("arena", "", "arena spec in prefabs/ (default arena.yaml)")
	mouse := flag.Bool("mouse", true, "emulate touches with the mouse and WASD")
	watch := flag.Bool("watch", true, "reload prefabs from disk when they change")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	world, err := system.LoadWorld(*arena, logger)
	if err != nil {
		logger.Fatal("load world", zap.Error(err))
	}
	defer world.Close()

	var reloads <-chan string
	if dirs := prefabs.DiskDirs(); *watch && len(dirs) > 0 {
		watcher, err := prefabs.NewWatcher(dirs...)
		if err != nil {
			logger.Warn("prefab watcher disabled", zap.Error(err))
		} else {
			defer func() { _ = watcher.Close() }()
			reloads = watcher.Events
		}
	}

	arenaSpec := world.Arena()
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(arenaSpec.ScreenWidth), int(arenaSpec.ScreenHeight))
	ebiten.SetWindowTitle("touchbrawler")

	game := NewGame(world, arenaSpec.ScreenWidth, arenaSpec.ScreenHeight, *mouse, *debug, reloads, logger)
	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run game", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
