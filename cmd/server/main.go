package main

import (
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"zeniverse_api/internal/database"
	"zeniverse_api/internal/global"
	"zeniverse_api/internal/logger"
)

func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// resolvePath resolves a relative path against the directory holding
// config/env, falling back to the path itself.
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	currentDir, err := os.Getwd()
	if err != nil {
		return path
	}
	for {
		if _, err := os.Stat(filepath.Join(currentDir, "config", "env")); err == nil {
			return filepath.Join(currentDir, path)
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return path
		}
		currentDir = parentDir
	}
}

// listen serves app until it is shut down, over TLS when configured.
func listen(app *fiber.App) error {
	cfg := global.MongoDB_ServerConfig
	address := cfg.ListenAddress()
	log := logger.GetAppLogger()
	listenConfig := fiber.ListenConfig{DisableStartupMessage: true}

	if !cfg.EnableTLS || cfg.TLSCertFile == "" || cfg.TLSKeyFile == "" {
		log.WithFields(map[string]interface{}{"address": address, "protocol": "HTTP"}).Info("Starting server")
		return app.Listen(address, listenConfig)
	}

	certPath := resolvePath(cfg.TLSCertFile)
	keyPath := resolvePath(cfg.TLSKeyFile)
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return fmt.Errorf("load TLS certificate: %w", err)
	}
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("create listener: %w", err)
	}
	tlsListener := tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})

	log.WithFields(map[string]interface{}{
		"address": address,
		"cert":    certPath,
		"key":     keyPath,
	}).Info("Starting server with HTTPS/TLS")
	return app.Listener(tlsListener, listenConfig)
}

func main() {
	initLogger()
	defer logger.Shutdown()

	InitGlobal()
	InitRegistry()

	wiring := InitServices()
	InitDefaultData(wiring.Admins)

	app := InitFiberApp(global.MongoDB_ServerConfig, wiring)
	log := logger.GetAppLogger()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listen(app)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			log.WithError(err).Error("Server stopped")
		}
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutting down")
		if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
			log.WithError(err).Error("Graceful shutdown failed")
		}
	}

	// let pending mails and audit entries finish
	wiring.Bus.Wait()
	_ = database.CloseInstance(global.MongoDB_Session)
	log.Info("Server exited")
}
