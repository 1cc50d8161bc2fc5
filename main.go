package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	rotatelogs "github.com/iproj/file-rotatelogs"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"padel-backend/internal"
	"padel-backend/web"
)

func main() {
	var err error

	runtime.GOMAXPROCS(4)

	log.SetFormatter(&log.TextFormatter{})
	setupLogRotation()

	// Load .env
	err = godotenv.Load()
	if err != nil {
		log.Error(err)
	}

	// connect to database
	database := internal.DatabaseConnection{
		URI:    os.Getenv("MONGO_URI"),
		DB:     os.Getenv("MAIN_DB"),
		Logger: log.New(),
	}

	database.Connect()
	database.EnsureIndexes()

	handleSignals()

	r := web.NewRouter(database.MongoDB)

	// fully load and apply routes
	r.Init()
	r.Listen(os.Getenv("LISTEN"))
}

func setupLogRotation() {
	writer, err := rotatelogs.New(
		"logs/padel-backend.%Y%m%d.log",
		rotatelogs.WithLinkName("logs/padel-backend.log"),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		log.Errorf("failed to set up log rotation: %s", err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, writer))
}

func handleSignals() {
	// Signal Termination if using CLI
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT)
	signal.Notify(signals, syscall.SIGTERM)
	go func() {
		for range signals {
			shutdown()
		}
	}()
}

func shutdown() {
	fmt.Println()
	log.Warnf("%d threads at exit.", runtime.NumGoroutine())
	log.Warn("Shutting down padel backend...")
	os.Exit(1)
}
