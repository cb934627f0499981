// Package server exposes a read-only HTTP API over the product store and
// the cycle history ledger. It never writes either; the watcher process
// owns all mutation.
package server

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"StoreWatch/internal/history"
	"StoreWatch/internal/models"
	"StoreWatch/internal/store"
	"StoreWatch/utils"
)

// ProductsResponse is the paginated /products payload.
type ProductsResponse struct {
	Data       []models.ProductRecord `json:"data"`
	Pagination Pagination             `json:"pagination"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	Total       int `json:"total"`
}

// StatusResponse is the /status payload.
type StatusResponse struct {
	UptimeSeconds int64 `json:"uptime_seconds"`
	LogicalCores  int   `json:"logical_cores"`
	KnownProducts int   `json:"known_products"`
}

// Start registers the handlers and blocks serving on addr.
func Start(addr string, productStore *store.FileStore, historyRepo *history.Repository) {
	startedAt := time.Now()

	http.HandleFunc("/products", productsHandler(productStore))
	http.HandleFunc("/cycles", cyclesHandler(historyRepo))
	http.HandleFunc("/status", statusHandler(productStore, startedAt))

	log.Printf("Starting API server on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func productsHandler(productStore *store.FileStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queryParams := r.URL.Query()
		page, _ := strconv.Atoi(queryParams.Get("page"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(queryParams.Get("limit"))
		if limit < 1 {
			limit = 20
		}

		records, err := productStore.Load()
		if err != nil {
			http.Error(w, "Failed to load products", http.StatusInternalServerError)
			return
		}

		total := len(records)
		totalPages := int(math.Ceil(float64(total) / float64(limit)))
		offset := (page - 1) * limit
		if offset > total {
			offset = total
		}
		end := offset + limit
		if end > total {
			end = total
		}

		response := ProductsResponse{
			Data: records[offset:end],
			Pagination: Pagination{
				TotalPages:  totalPages,
				CurrentPage: page,
				Total:       total,
			},
		}
		writeJSON(w, response)
	}
}

func cyclesHandler(historyRepo *history.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		cycles, err := historyRepo.RecentCycles(limit)
		if err != nil {
			http.Error(w, "Failed to load cycles", http.StatusInternalServerError)
			return
		}
		if cycles == nil {
			cycles = []models.CycleStats{}
		}
		writeJSON(w, cycles)
	}
}

func statusHandler(productStore *store.FileStore, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := productStore.Load()
		if err != nil {
			http.Error(w, "Failed to load products", http.StatusInternalServerError)
			return
		}
		writeJSON(w, StatusResponse{
			UptimeSeconds: int64(time.Since(startedAt).Seconds()),
			LogicalCores:  utils.LogicalCores(),
			KnownProducts: len(records),
		})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
