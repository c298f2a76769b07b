// Package design persists customization sessions: a design row per
// shopper+product, plus versioned snapshots of the serialized placement
// configuration.
package design

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkthread/inkthread/backend-go/internal/placement"
	"github.com/inkthread/inkthread/backend-go/internal/typeid"
)

var (
	ErrNotFound      = errors.New("design not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidConfig = errors.New("invalid design config")
)

type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

type Design struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CustomerID string `json:"customerId"`
	ProductID  string `json:"productId"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// Snapshot is one persisted version of a design's placement configuration.
type Snapshot struct {
	ID       string          `json:"id"`
	DesignID string          `json:"designId"`
	Version  int             `json:"version"`
	Config   json.RawMessage `json:"config"`
}

// Create starts a design for a product and seeds version 1 with an empty
// placement configuration.
func (s *Service) Create(ctx context.Context, name, productID, customerID string) (*Design, error) {
	designID := typeid.NewDesignID()

	var d Design
	err := s.pool.QueryRow(ctx,
		`INSERT INTO designs (id, customer_id, product_id, name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, customer_id, product_id,
		           to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
		           to_char(updated_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')`,
		designID, customerID, productID, name,
	).Scan(&d.ID, &d.Name, &d.CustomerID, &d.ProductID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create design: %w", err)
	}

	emptyCfg, err := json.Marshal(placement.EmptyConfig())
	if err != nil {
		return nil, fmt.Errorf("marshal empty config: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO design_snapshots (id, design_id, version, config) VALUES ($1, $2, 1, $3)`,
		typeid.NewSnapshotID(), designID, emptyCfg,
	)
	if err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return &d, nil
}

func (s *Service) Get(ctx context.Context, designID, customerID string) (*Design, error) {
	d, err := s.get(ctx, designID)
	if err != nil {
		return nil, err
	}
	if d.CustomerID != customerID {
		return nil, ErrForbidden
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, customerID string) ([]Design, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, customer_id, product_id,
		        to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
		        to_char(updated_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		 FROM designs WHERE customer_id = $1 ORDER BY updated_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	var designs []Design
	for rows.Next() {
		var d Design
		if err := rows.Scan(&d.ID, &d.Name, &d.CustomerID, &d.ProductID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		designs = append(designs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	return designs, nil
}

func (s *Service) Delete(ctx context.Context, designID, customerID string) error {
	d, err := s.get(ctx, designID)
	if err != nil {
		return err
	}
	if d.CustomerID != customerID {
		return ErrForbidden
	}
	_, err = s.pool.Exec(ctx, `DELETE FROM designs WHERE id = $1`, designID)
	return err
}

// SaveSnapshot validates and persists a new configuration version. The blob
// is parsed through the engine's config sanitizer so stored state can never
// violate placement invariants.
func (s *Service) SaveSnapshot(ctx context.Context, designID, customerID string, config json.RawMessage) (*Snapshot, error) {
	d, err := s.get(ctx, designID)
	if err != nil {
		return nil, err
	}
	if d.CustomerID != customerID {
		return nil, ErrForbidden
	}

	cfg, err := placement.ParseConfig(config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	clean, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	snap := Snapshot{ID: typeid.NewSnapshotID(), DesignID: designID, Config: clean}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO design_snapshots (id, design_id, version, config)
		 SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3
		 FROM design_snapshots WHERE design_id = $2
		 RETURNING version`,
		snap.ID, designID, clean,
	).Scan(&snap.Version)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	_, err = s.pool.Exec(ctx, `UPDATE designs SET updated_at = now() WHERE id = $1`, designID)
	if err != nil {
		return nil, fmt.Errorf("touch design: %w", err)
	}
	return &snap, nil
}

// LatestSnapshot returns the newest configuration version for a design.
func (s *Service) LatestSnapshot(ctx context.Context, designID, customerID string) (*Snapshot, error) {
	d, err := s.get(ctx, designID)
	if err != nil {
		return nil, err
	}
	if d.CustomerID != customerID {
		return nil, ErrForbidden
	}
	return s.latest(ctx, designID)
}

// LatestConfig loads and parses the newest configuration, for hosts that
// need a live engine (the preview hub).
func (s *Service) LatestConfig(ctx context.Context, designID string) (placement.DesignConfig, error) {
	snap, err := s.latest(ctx, designID)
	if err != nil {
		return placement.DesignConfig{}, err
	}
	return placement.ParseConfig(snap.Config)
}

// SaveConfig persists a config on behalf of a system actor (the preview hub
// flushing a room), bypassing the ownership check.
func (s *Service) SaveConfig(ctx context.Context, designID string, cfg placement.DesignConfig) error {
	clean, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO design_snapshots (id, design_id, version, config)
		 SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3
		 FROM design_snapshots WHERE design_id = $2`,
		typeid.NewSnapshotID(), designID, clean,
	)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	return nil
}

// Owner reports the design's owning customer, for websocket access checks.
func (s *Service) Owner(ctx context.Context, designID string) (string, error) {
	d, err := s.get(ctx, designID)
	if err != nil {
		return "", err
	}
	return d.CustomerID, nil
}

// ProductID reports which product a design customizes, so hosts can load the
// product's print areas.
func (s *Service) ProductID(ctx context.Context, designID string) (string, error) {
	d, err := s.get(ctx, designID)
	if err != nil {
		return "", err
	}
	return d.ProductID, nil
}

func (s *Service) get(ctx context.Context, designID string) (*Design, error) {
	var d Design
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, customer_id, product_id,
		        to_char(created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
		        to_char(updated_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		 FROM designs WHERE id = $1`,
		designID,
	).Scan(&d.ID, &d.Name, &d.CustomerID, &d.ProductID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get design: %w", err)
	}
	return &d, nil
}

func (s *Service) latest(ctx context.Context, designID string) (*Snapshot, error) {
	var snap Snapshot
	err := s.pool.QueryRow(ctx,
		`SELECT id, design_id, version, config FROM design_snapshots
		 WHERE design_id = $1 ORDER BY version DESC LIMIT 1`,
		designID,
	).Scan(&snap.ID, &snap.DesignID, &snap.Version, &snap.Config)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &snap, nil
}
