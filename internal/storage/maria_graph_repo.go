package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/annel0/world-graph/internal/logging"
	"github.com/annel0/world-graph/internal/vec"
	"github.com/annel0/world-graph/internal/world"
)

// MariaGraphRepo хранит топологию мира в MariaDB/MySQL.
// Хранятся только позиции чанков и проходы; террейн живёт в BadgerDB.
type MariaGraphRepo struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewMariaGraphRepo подключается к MariaDB и создаёт схему при необходимости
func NewMariaGraphRepo(dsn string) (*MariaGraphRepo, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mariadb: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mariadb: %w", err)
	}

	repo := &MariaGraphRepo{db: db, logger: logging.GetStorageLogger()}
	if err := repo.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *MariaGraphRepo) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS worlds (
			id INT PRIMARY KEY,
			seed BIGINT NOT NULL,
			chunk_span INT NOT NULL,
			next_id BIGINT UNSIGNED NOT NULL,
			saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS chunks (
			id BIGINT UNSIGNED PRIMARY KEY,
			x INT NOT NULL,
			y INT NOT NULL,
			span INT NOT NULL,
			UNIQUE KEY uniq_pos (x, y)
		)`,
		`CREATE TABLE IF NOT EXISTS passages (
			from_id BIGINT UNSIGNED NOT NULL,
			to_id BIGINT UNSIGNED NOT NULL,
			kind TINYINT NOT NULL,
			length DOUBLE NOT NULL,
			PRIMARY KEY (from_id, to_id),
			FOREIGN KEY (from_id) REFERENCES chunks(id) ON DELETE CASCADE,
			FOREIGN KEY (to_id) REFERENCES chunks(id) ON DELETE CASCADE
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}

// SaveTopology перезаписывает топологию мира одной транзакцией
func (r *MariaGraphRepo) SaveTopology(ctx context.Context, snap *world.GraphSnapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"passages", "chunks", "worlds"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO worlds (id, seed, chunk_span, next_id) VALUES (1, ?, ?, ?)",
		snap.Seed, snap.ChunkSpan, uint64(snap.NextID)); err != nil {
		return fmt.Errorf("insert world: %w", err)
	}

	chunkStmt, err := tx.PrepareContext(ctx, "INSERT INTO chunks (id, x, y, span) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare chunk insert: %w", err)
	}
	defer chunkStmt.Close()
	for _, c := range snap.Chunks {
		if _, err := chunkStmt.ExecContext(ctx, uint64(c.ID), c.Pos.X, c.Pos.Y, c.Span); err != nil {
			return fmt.Errorf("insert chunk %d: %w", c.ID, err)
		}
	}

	passageStmt, err := tx.PrepareContext(ctx, "INSERT INTO passages (from_id, to_id, kind, length) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare passage insert: %w", err)
	}
	defer passageStmt.Close()
	for _, p := range snap.Passages {
		if _, err := passageStmt.ExecContext(ctx, uint64(p.From), uint64(p.To), int(p.Kind), p.Length); err != nil {
			return fmt.Errorf("insert passage %d -> %d: %w", p.From, p.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit topology: %w", err)
	}
	r.logger.Info("💾 Topology saved to MariaDB: %d chunks, %d passages", len(snap.Chunks), len(snap.Passages))
	return nil
}

// LoadTopology читает топологию; (nil, nil), если мир не сохранялся
func (r *MariaGraphRepo) LoadTopology(ctx context.Context) (*world.GraphSnapshot, error) {
	snap := &world.GraphSnapshot{}

	var nextID uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT seed, chunk_span, next_id FROM worlds WHERE id = 1").
		Scan(&snap.Seed, &snap.ChunkSpan, &nextID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select world: %w", err)
	}
	snap.NextID = world.ChunkID(nextID)

	rows, err := r.db.QueryContext(ctx, "SELECT id, x, y, span FROM chunks ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("select chunks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		var pos vec.Vec2
		var span int
		if err := rows.Scan(&id, &pos.X, &pos.Y, &span); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		snap.Chunks = append(snap.Chunks, world.ChunkSnapshot{ID: world.ChunkID(id), Pos: pos, Span: span})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	passageRows, err := r.db.QueryContext(ctx,
		"SELECT from_id, to_id, kind, length FROM passages ORDER BY from_id, to_id")
	if err != nil {
		return nil, fmt.Errorf("select passages: %w", err)
	}
	defer passageRows.Close()
	for passageRows.Next() {
		var from, to uint64
		var kind int
		var length float64
		if err := passageRows.Scan(&from, &to, &kind, &length); err != nil {
			return nil, fmt.Errorf("scan passage: %w", err)
		}
		snap.Passages = append(snap.Passages, world.PassageSnapshot{
			From:   world.ChunkID(from),
			To:     world.ChunkID(to),
			Kind:   world.PassageKind(kind),
			Length: length,
		})
	}
	if err := passageRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passages: %w", err)
	}
	return snap, nil
}

// Close закрывает подключение к базе
func (r *MariaGraphRepo) Close() error { return r.db.Close() }
