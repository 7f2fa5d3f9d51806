package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"goal-roadmap/internal/domain"
)

// RoadmapRepository define el contrato de persistencia para roadmaps.
type RoadmapRepository interface {
	Create(ctx context.Context, roadmap domain.Roadmap) error
	GetByID(ctx context.Context, id string) (domain.Roadmap, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Roadmap, error)
}

// PgRoadmapRepository implementa RoadmapRepository usando pgxpool. Los temas viajan como jsonb.
type PgRoadmapRepository struct {
	pool *pgxpool.Pool
}

func NewPgRoadmapRepository(pool *pgxpool.Pool) *PgRoadmapRepository {
	return &PgRoadmapRepository{pool: pool}
}

func (r *PgRoadmapRepository) Create(ctx context.Context, roadmap domain.Roadmap) error {
	topics, err := json.Marshal(roadmap.Topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}
	const query = `
		INSERT INTO roadmaps (id, user_id, goal, topics, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query,
		roadmap.ID,
		roadmap.UserID,
		roadmap.Goal,
		topics,
		roadmap.CreatedAt,
	)
	return err
}

func (r *PgRoadmapRepository) GetByID(ctx context.Context, id string) (domain.Roadmap, error) {
	const query = `
		SELECT id, user_id, goal, topics, created_at
		FROM roadmaps
		WHERE id = $1
	`
	var (
		rm     domain.Roadmap
		topics []byte
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rm.ID,
		&rm.UserID,
		&rm.Goal,
		&topics,
		&rm.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Roadmap{}, pgx.ErrNoRows
		}
		return domain.Roadmap{}, fmt.Errorf("get roadmap: %w", err)
	}
	if err := json.Unmarshal(topics, &rm.Topics); err != nil {
		return domain.Roadmap{}, fmt.Errorf("unmarshal topics: %w", err)
	}
	return rm, nil
}

func (r *PgRoadmapRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Roadmap, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, user_id, goal, topics, created_at
		FROM roadmaps
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRoadmaps(rows)
}

func scanRoadmaps(rows pgxRows) ([]domain.Roadmap, error) {
	var roadmaps []domain.Roadmap
	for rows.Next() {
		var (
			rm     domain.Roadmap
			topics []byte
		)
		if err := rows.Scan(&rm.ID, &rm.UserID, &rm.Goal, &topics, &rm.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(topics, &rm.Topics); err != nil {
			return nil, fmt.Errorf("unmarshal topics for roadmap %s: %w", rm.ID, err)
		}
		roadmaps = append(roadmaps, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roadmaps, nil
}

// pgxRows is a minimal interface to allow scanning from pgx rows and simplify testing.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
