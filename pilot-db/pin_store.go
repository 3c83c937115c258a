package pilot_db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pilot_userio "github.com/jacksonzamorano/pilot-io/pilot-userio"
)

const PinTable = "userio_pins"

const pinSchema = `CREATE TABLE IF NOT EXISTS ` + PinTable + ` (
	id TEXT PRIMARY KEY,
	enabled BOOLEAN NOT NULL,
	pin_type TEXT NOT NULL,
	direction TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PinStore keeps the pin configuration in PostgreSQL.
type PinStore struct {
	pool *pgxpool.Pool
}

// Connect opens a pool for connString and makes sure the pin table exists.
func Connect(ctx context.Context, connString string) (*PinStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}
	store := NewPinStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func NewPinStore(pool *pgxpool.Pool) *PinStore {
	return &PinStore{pool: pool}
}

func (s *PinStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, pinSchema); err != nil {
		return PostgresError(PinTable, err)
	}
	return nil
}

func pinFromRow(row pgx.Rows, pin *pilot_userio.Pin) error {
	var pinType, direction string
	if err := row.Scan(&pin.ID, &pin.Enabled, &pinType, &direction); err != nil {
		return err
	}
	if err := pin.Type.UnmarshalText([]byte(pinType)); err != nil {
		return err
	}
	if err := pin.Direction.UnmarshalText([]byte(direction)); err != nil {
		return err
	}
	if idx, ok := pilot_userio.PinIndex(pin.ID); ok {
		pin.Name = pilot_userio.PinNames[idx]
	}
	return nil
}

func selectPins(ctx context.Context, db Querier) *QueryBuilder[pilot_userio.Pin] {
	return Select(PinTable, ctx, db, pinFromRow).
		Select("id").
		Select("enabled").
		Select("pin_type").
		Select("direction").
		SortAsc("id")
}

func upsertPin(ctx context.Context, db Querier, pin pilot_userio.Pin) *QueryBuilder[pilot_userio.Pin] {
	return Insert(PinTable, ctx, db, pinFromRow).
		Set("id", pin.ID).
		Set("enabled", pin.Enabled).
		Set("pin_type", pin.Type.String()).
		Set("direction", pin.Direction.String()).
		OnConflict("id")
}

// Load returns the stored pins, or nil when none have been saved.
func (s *PinStore) Load(ctx context.Context) ([]pilot_userio.Pin, error) {
	pins, qerr := selectPins(ctx, s.pool).QueryMany()
	if qerr != nil {
		return nil, qerr
	}
	if len(pins) == 0 {
		return nil, nil
	}
	return pins, nil
}

// Save upserts every pin in one transaction.
func (s *PinStore) Save(ctx context.Context, pins []pilot_userio.Pin) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return PostgresError(PinTable, err)
	}
	defer tx.Rollback(ctx)
	for _, pin := range pins {
		if qerr := upsertPin(ctx, tx, pin).Exec(); qerr != nil {
			return qerr
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return PostgresError(PinTable, err)
	}
	return nil
}

// Clear removes every stored pin.
func (s *PinStore) Clear(ctx context.Context) error {
	if qerr := Delete(PinTable, ctx, s.pool, pinFromRow).Force().Exec(); qerr != nil {
		return qerr
	}
	return nil
}

func (s *PinStore) Close() {
	s.pool.Close()
}
