// Package history keeps an operator-facing ledger of watch cycles and
// notification attempts in SQLite. The JSON product store stays the source
// of truth for diffing; this database is never read by the detection path.
package history

import (
	"database/sql"
	"log"
	"time"

	_ "modernc.org/sqlite" // pure Go driver

	"StoreWatch/internal/models"
)

// Repository wraps the history database connection.
type Repository struct {
	DB *sql.DB
}

// InitDB opens (and on first use creates) the history database. The
// watcher cannot run without its ledger, so failures are fatal.
func InitDB(filepath string) *Repository {
	db, err := sql.Open("sqlite", filepath)
	if err != nil {
		log.Fatalf("Error opening history database: %v", err)
	}
	if err = db.Ping(); err != nil {
		log.Fatalf("Error pinging history database: %v", err)
	}

	createCyclesTableSQL := `
	CREATE TABLE IF NOT EXISTS cycles (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"started_at" DATETIME,
		"finished_at" DATETIME,
		"state" TEXT,
		"seen_count" INTEGER,
		"new_count" INTEGER,
		"notified_count" INTEGER,
		"bootstrap" BOOLEAN DEFAULT 0,
		"error" TEXT
	);`
	if _, err = db.Exec(createCyclesTableSQL); err != nil {
		log.Fatalf("Error creating cycles table: %v", err)
	}

	createNotificationsTableSQL := `
	CREATE TABLE IF NOT EXISTS notifications (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"product_name" TEXT,
		"price" TEXT,
		"page_url" TEXT,
		"image_url" TEXT,
		"sent_at" DATETIME,
		"delivered" BOOLEAN,
		"error" TEXT
	);`
	if _, err = db.Exec(createNotificationsTableSQL); err != nil {
		log.Fatalf("Error creating notifications table: %v", err)
	}

	return &Repository{DB: db}
}

// Close closes the database connection.
func (repo *Repository) Close() {
	repo.DB.Close()
}

// RecordCycle appends one finished (or aborted) cycle to the ledger.
func (repo *Repository) RecordCycle(stats models.CycleStats) error {
	query := `
	INSERT INTO cycles (started_at, finished_at, state, seen_count, new_count, notified_count, bootstrap, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := repo.DB.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		stats.StartedAt, stats.FinishedAt, stats.State,
		stats.Seen, stats.New, stats.Notified, stats.Bootstrap, stats.Error,
	)
	return err
}

// RecordNotification appends one delivery attempt. deliveryErr may be nil.
func (repo *Repository) RecordNotification(rec models.ProductRecord, sentAt time.Time, deliveryErr error) error {
	errText := ""
	if deliveryErr != nil {
		errText = deliveryErr.Error()
	}

	query := `
	INSERT INTO notifications (product_name, price, page_url, image_url, sent_at, delivered, error)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := repo.DB.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(rec.Name, rec.Price, rec.PageURL, rec.ImageURL, sentAt, deliveryErr == nil, errText)
	return err
}

// RecentCycles returns the newest limit cycles, newest first.
func (repo *Repository) RecentCycles(limit int) ([]models.CycleStats, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := repo.DB.Query(`
		SELECT started_at, finished_at, state, seen_count, new_count, notified_count, bootstrap, error
		FROM cycles ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []models.CycleStats
	for rows.Next() {
		var c models.CycleStats
		if err := rows.Scan(&c.StartedAt, &c.FinishedAt, &c.State, &c.Seen, &c.New, &c.Notified, &c.Bootstrap, &c.Error); err != nil {
			log.Printf("Error scanning cycle row: %v", err)
			continue
		}
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}
