package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"StoreWatch/internal/app"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	task := flag.String("task", "watch", "Task to run: watch (scheduled loop) or once (single cycle)")
	flag.Parse()

	application := app.New()
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Running task: %s", *task)

	switch *task {
	case "watch":
		application.RunWatcher(ctx)

	case "once":
		if err := application.RunOnce(ctx); err != nil {
			log.Fatalf("Cycle failed: %v", err)
		}

	default:
		log.Fatalf("Unknown task: %s.", *task)
	}
}
