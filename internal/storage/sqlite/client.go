package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/allerpredict/backend/internal/storage/models"
	"github.com/allerpredict/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_history (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		found INTEGER NOT NULL,
		product_name TEXT,
		risk_level TEXT,
		ethical_score INTEGER,
		confidence TEXT,
		match_score REAL,
		name_match_score REAL,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_created ON analysis_history(created_at);
	CREATE INDEX IF NOT EXISTS idx_history_product ON analysis_history(product_name);

	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis_id TEXT NOT NULL,
		helpful INTEGER NOT NULL,
		comment TEXT,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (analysis_id) REFERENCES analysis_history(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_analysis ON feedback(analysis_id);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertAnalysisRecord(record *models.AnalysisRecord) error {
	query := `
		INSERT INTO analysis_history (id, query, found, product_name, risk_level,
			ethical_score, confidence, match_score, name_match_score, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	found := 0
	if record.Found {
		found = 1
	}

	_, err := c.db.Exec(
		query,
		record.ID,
		record.Query,
		found,
		record.ProductName,
		record.RiskLevel,
		record.EthicalScore,
		record.Confidence,
		record.MatchScore,
		record.NameMatchScore,
		record.LatencyMS,
		record.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert analysis record: %w", err)
	}

	logger.Debug("Analysis recorded",
		zap.String("analysis_id", record.ID),
		zap.String("query", record.Query),
		zap.Bool("found", record.Found),
	)

	return nil
}

func (c *Client) GetAnalysisHistory(limit int) ([]models.AnalysisRecord, error) {
	query := `
		SELECT id, query, found, product_name, risk_level, ethical_score,
			confidence, match_score, name_match_score, latency_ms, created_at
		FROM analysis_history
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis history: %w", err)
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		var r models.AnalysisRecord
		var found int
		var createdAt int64

		err := rows.Scan(&r.ID, &r.Query, &found, &r.ProductName, &r.RiskLevel,
			&r.EthicalScore, &r.Confidence, &r.MatchScore, &r.NameMatchScore,
			&r.LatencyMS, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		r.Found = found == 1
		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, r)
	}

	return records, nil
}

func (c *Client) StoreFeedback(feedback *models.Feedback) error {
	query := `INSERT INTO feedback (analysis_id, helpful, comment, created_at) VALUES (?, ?, ?, ?)`

	helpful := 0
	if feedback.Helpful {
		helpful = 1
	}

	_, err := c.db.Exec(
		query,
		feedback.AnalysisID,
		helpful,
		feedback.Comment,
		time.Now().Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to store feedback: %w", err)
	}

	logger.Info("Feedback stored",
		zap.String("analysis_id", feedback.AnalysisID),
		zap.Bool("helpful", feedback.Helpful),
	)

	return nil
}
