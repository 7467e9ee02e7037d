// Package runs records pipeline runs and their per-epoch metrics in a
// SQLite database.
package runs

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB
}

// Config is the run configuration snapshot stored alongside the metrics.
type Config struct {
	States       int
	Goals        int
	Rank         int
	LearningRate float64
	Epochs       int
	BatchSize    int
	Seed         int64
}

// Open opens or creates the SQLite database.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// RecordRun inserts a run row and returns its id.
func (d *DB) RecordRun(cfg Config) (int64, error) {
	res, err := d.db.Exec(`
		INSERT INTO runs (created_at, states, goals, svd_rank, learning_rate, epochs, batch_size, seed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		cfg.States, cfg.Goals, cfg.Rank, cfg.LearningRate, cfg.Epochs, cfg.BatchSize, cfg.Seed,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return res.LastInsertId()
}

// RecordMetrics stores the full train/test MSE histories for a run in one
// transaction.
func (d *DB) RecordMetrics(runID int64, trainMSE, testMSE []float64) error {
	if len(trainMSE) != len(testMSE) {
		return fmt.Errorf("history length mismatch: train %d, test %d", len(trainMSE), len(testMSE))
	}
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO metrics (run_id, epoch, train_mse, test_mse)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare metrics insert: %w", err)
	}
	defer stmt.Close()
	for epoch := range trainMSE {
		if _, err := stmt.Exec(runID, epoch, trainMSE[epoch], testMSE[epoch]); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert metrics for epoch %d: %w", epoch, err)
		}
	}
	return tx.Commit()
}

// Metrics returns the recorded histories of a run ordered by epoch.
func (d *DB) Metrics(runID int64) (trainMSE, testMSE []float64, err error) {
	rows, err := d.db.Query(`
		SELECT train_mse, test_mse FROM metrics
		WHERE run_id = ? ORDER BY epoch`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var train, test float64
		if err := rows.Scan(&train, &test); err != nil {
			return nil, nil, fmt.Errorf("failed to scan metrics: %w", err)
		}
		trainMSE = append(trainMSE, train)
		testMSE = append(testMSE, test)
	}
	return trainMSE, testMSE, rows.Err()
}
