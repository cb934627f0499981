package main

import (
	"log"

	"StoreWatch/internal/history"
	"StoreWatch/internal/server"
	"StoreWatch/internal/store"
	"StoreWatch/pkg/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// The server loads its own config and opens the same store and
	// ledger the watcher writes, read-only by convention.
	cfg := config.LoadConfig("config.yml")

	historyRepo := history.InitDB(cfg.Watcher.HistoryPath)
	defer historyRepo.Close()

	productStore := store.NewFileStore(cfg.Watcher.StorePath)

	log.Println("Starting StoreWatch API server...")
	server.Start(cfg.Server.Addr, productStore, historyRepo)
}
