package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thanhhoan-v2/Personal-Porfolio/internal/build"
	"github.com/thanhhoan-v2/Personal-Porfolio/internal/server"
)

var servePort int

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site locally and watch for changes",
	Long: `The serve command performs an initial build, then starts a local web
server over the output directory together with the auth-check API. It
watches the content, layouts, and static directories and rebuilds the
site when they change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer func() { _ = logger.Sync() }()

		if _, err := build.Run(appConfig, logger); err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}
		logger.Info("initial build successful")

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating file watcher: %w", err)
		}
		defer watcher.Close()

		go watchLoop(watcher)

		for _, root := range []string{appConfig.ContentDir, appConfig.LayoutsDir, appConfig.StaticDir} {
			if _, err := os.Stat(root); os.IsNotExist(err) {
				logger.Debug("directory not found, not watching", zap.String("dir", root))
				continue
			}
			if err := watchRecursive(watcher, root); err != nil {
				logger.Warn("failed to watch directory", zap.String("dir", root), zap.Error(err))
			}
		}

		addr := fmt.Sprintf(":%d", servePort)
		logger.Info("serving site",
			zap.String("dir", appConfig.OutputDir),
			zap.String("addr", "http://localhost"+addr))
		return http.ListenAndServe(addr, server.New(appConfig.OutputDir))
	},
}

// watchLoop rebuilds the site on changes, debounced so a burst of editor
// writes triggers one rebuild.
func watchLoop(watcher *fsnotify.Watcher) {
	var buildTimer *time.Timer
	const debounce = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("change detected",
				zap.String("path", event.Name), zap.String("op", event.Op.String()))

			// New subdirectories are not watched automatically.
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					logger.Warn("failed to watch new directory",
						zap.String("dir", event.Name), zap.Error(err))
				}
			}

			if buildTimer != nil {
				buildTimer.Stop()
			}
			buildTimer = time.AfterFunc(debounce, func() {
				logger.Info("rebuilding site")
				if _, err := build.Run(appConfig, logger); err != nil {
					logger.Error("rebuild failed", zap.Error(err))
					return
				}
				logger.Info("site rebuilt")
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
