package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// SQLite is an offline copy of the KPI tables in a single file
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path and applies the schema.
// ":memory:" is accepted for tests.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Name identifies the source
func (s *SQLite) Name() string {
	return "sqlite"
}

// Ping checks the database handle
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InternetPenetration returns accesses per 100 households per province and quarter
func (s *SQLite) InternetPenetration(ctx context.Context) ([]contracts.Observation, error) {
	rows, err := s.db.QueryContext(ctx, selectInternet)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", QueryInternet, err)
	}
	defer rows.Close()

	var out []contracts.Observation
	for rows.Next() {
		var o contracts.Observation
		if err := rows.Scan(&o.Province, &o.Year, &o.Quarter, &o.Value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", QueryInternet, err)
		}
		out = append(out, o)
	}

	return out, rows.Err()
}

// Localities returns the connectivity map rows
func (s *SQLite) Localities(ctx context.Context) ([]contracts.Locality, error) {
	rows, err := s.db.QueryContext(ctx, selectLocalitiesSQLite)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", QueryLocalities, err)
	}
	defer rows.Close()

	var out []contracts.Locality
	for rows.Next() {
		var l contracts.Locality
		if err := rows.Scan(&l.ID, &l.Name, &l.Province, &l.Fiber, &l.Wireless, &l.Population); err != nil {
			return nil, fmt.Errorf("scan %s: %w", QueryLocalities, err)
		}
		out = append(out, l)
	}

	return out, rows.Err()
}

// MobileAccesses returns the national postpaid/prepaid split per quarter
func (s *SQLite) MobileAccesses(ctx context.Context) ([]contracts.MobileAccess, error) {
	rows, err := s.db.QueryContext(ctx, selectMobile)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", QueryMobile, err)
	}
	defer rows.Close()

	var out []contracts.MobileAccess
	for rows.Next() {
		var m contracts.MobileAccess
		if err := rows.Scan(&m.Year, &m.Quarter, &m.Postpaid, &m.Prepaid); err != nil {
			return nil, fmt.Errorf("scan %s: %w", QueryMobile, err)
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

// WriteDataset upserts every row of ds in one transaction
func (s *SQLite) WriteDataset(ctx context.Context, ds contracts.Dataset) (err error) {
	if err := validateDataset(ds); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	provinceIDs := make(map[string]int64)
	for _, name := range datasetProvinces(ds) {
		var id int64
		if err = tx.QueryRowContext(ctx, `
			INSERT INTO provincias (nombre_provincia) VALUES (?)
			ON CONFLICT(nombre_provincia) DO UPDATE SET nombre_provincia = excluded.nombre_provincia
			RETURNING id_provincia`, name).Scan(&id); err != nil {
			return fmt.Errorf("upsert province %q: %w", name, err)
		}
		provinceIDs[name] = id
	}

	periodIDs := make(map[contracts.Period]int64)
	for _, p := range datasetPeriods(ds) {
		var id int64
		if err = tx.QueryRowContext(ctx, `
			INSERT INTO periodos (anio, trimestre) VALUES (?, ?)
			ON CONFLICT(anio, trimestre) DO UPDATE SET anio = excluded.anio
			RETURNING id_periodo`, p.Year, p.Quarter).Scan(&id); err != nil {
			return fmt.Errorf("upsert period %s: %w", p.Label(), err)
		}
		periodIDs[p] = id
	}

	for _, o := range ds.Internet {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO penetracion_internet_hogares (id_provincia, id_periodo, accesos_por_100_hogares)
			VALUES (?, ?, ?)
			ON CONFLICT(id_provincia, id_periodo) DO UPDATE SET
				accesos_por_100_hogares = excluded.accesos_por_100_hogares`,
			provinceIDs[o.Province], periodIDs[o.Period()], o.Value); err != nil {
			return fmt.Errorf("upsert %s: %w", QueryInternet, err)
		}
	}

	for _, l := range ds.Localities {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO localidades (id_localidad, localidad, id_provincia)
			VALUES (?, ?, ?)
			ON CONFLICT(id_localidad) DO UPDATE SET
				localidad = excluded.localidad,
				id_provincia = excluded.id_provincia`,
			l.ID, l.Name, provinceIDs[l.Province]); err != nil {
			return fmt.Errorf("upsert locality %d: %w", l.ID, err)
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO mapa_conectividad (id_localidad, fibra_optica, wireless, poblacion)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id_localidad) DO UPDATE SET
				fibra_optica = excluded.fibra_optica,
				wireless = excluded.wireless,
				poblacion = excluded.poblacion`,
			l.ID, l.Fiber, l.Wireless, l.Population); err != nil {
			return fmt.Errorf("upsert %s: %w", QueryLocalities, err)
		}
	}

	for _, m := range ds.Mobile {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO accesos_telefonia_movil (id_periodo, total_accesos_pospago, total_accesos_prepago)
			VALUES (?, ?, ?)
			ON CONFLICT(id_periodo) DO UPDATE SET
				total_accesos_pospago = excluded.total_accesos_pospago,
				total_accesos_prepago = excluded.total_accesos_prepago`,
			periodIDs[m.Period()], m.Postpaid, m.Prepaid); err != nil {
			return fmt.Errorf("upsert %s: %w", QueryMobile, err)
		}
	}

	return tx.Commit()
}

func (s *SQLite) migrate() error {
	statements := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS provincias (
			id_provincia INTEGER PRIMARY KEY AUTOINCREMENT,
			nombre_provincia TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS periodos (
			id_periodo INTEGER PRIMARY KEY AUTOINCREMENT,
			anio INTEGER NOT NULL,
			trimestre INTEGER NOT NULL CHECK (trimestre BETWEEN 1 AND 4),
			UNIQUE (anio, trimestre)
		);`,
		`CREATE TABLE IF NOT EXISTS penetracion_internet_hogares (
			id_provincia INTEGER NOT NULL REFERENCES provincias (id_provincia),
			id_periodo INTEGER NOT NULL REFERENCES periodos (id_periodo),
			accesos_por_100_hogares REAL NOT NULL,
			PRIMARY KEY (id_provincia, id_periodo)
		);`,
		`CREATE TABLE IF NOT EXISTS localidades (
			id_localidad INTEGER PRIMARY KEY,
			localidad TEXT NOT NULL,
			id_provincia INTEGER NOT NULL REFERENCES provincias (id_provincia)
		);`,
		`CREATE TABLE IF NOT EXISTS mapa_conectividad (
			id_localidad INTEGER PRIMARY KEY REFERENCES localidades (id_localidad),
			fibra_optica INTEGER NOT NULL DEFAULT 0,
			wireless INTEGER NOT NULL DEFAULT 0,
			poblacion INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS accesos_telefonia_movil (
			id_periodo INTEGER PRIMARY KEY REFERENCES periodos (id_periodo),
			total_accesos_pospago INTEGER NOT NULL,
			total_accesos_prepago INTEGER NOT NULL
		);`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return fmt.Errorf("sqlite migrate: %w", err)
		}
	}

	return nil
}
