package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// Postgres reads and writes the KPI tables through a pgx pool
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres source
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Name identifies the source
func (p *Postgres) Name() string {
	return "postgres"
}

// Ping checks the pool
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// InternetPenetration returns accesses per 100 households per province and quarter
func (p *Postgres) InternetPenetration(ctx context.Context) ([]contracts.Observation, error) {
	rows, err := p.pool.Query(ctx, selectInternet)
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
func (p *Postgres) Localities(ctx context.Context) ([]contracts.Locality, error) {
	rows, err := p.pool.Query(ctx, selectLocalitiesPostgres)
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
func (p *Postgres) MobileAccesses(ctx context.Context) ([]contracts.MobileAccess, error) {
	rows, err := p.pool.Query(ctx, selectMobile)
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
func (p *Postgres) WriteDataset(ctx context.Context, ds contracts.Dataset) error {
	if err := validateDataset(ds); err != nil {
		return err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	provinceIDs, err := p.upsertProvinces(ctx, tx, datasetProvinces(ds))
	if err != nil {
		return err
	}
	periodIDs, err := p.upsertPeriods(ctx, tx, datasetPeriods(ds))
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, o := range ds.Internet {
		batch.Queue(`
			INSERT INTO penetracion_internet_hogares (id_provincia, id_periodo, accesos_por_100_hogares)
			VALUES ($1, $2, $3)
			ON CONFLICT (id_provincia, id_periodo) DO UPDATE SET
				accesos_por_100_hogares = EXCLUDED.accesos_por_100_hogares`,
			provinceIDs[o.Province], periodIDs[o.Period()], o.Value)
	}
	for _, l := range ds.Localities {
		batch.Queue(`
			INSERT INTO localidades (id_localidad, localidad, id_provincia)
			VALUES ($1, $2, $3)
			ON CONFLICT (id_localidad) DO UPDATE SET
				localidad = EXCLUDED.localidad,
				id_provincia = EXCLUDED.id_provincia`,
			l.ID, l.Name, provinceIDs[l.Province])
		batch.Queue(`
			INSERT INTO mapa_conectividad (id_localidad, fibra_optica, wireless, poblacion)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id_localidad) DO UPDATE SET
				fibra_optica = EXCLUDED.fibra_optica,
				wireless = EXCLUDED.wireless,
				poblacion = EXCLUDED.poblacion`,
			l.ID, l.Fiber, l.Wireless, l.Population)
	}
	for _, m := range ds.Mobile {
		batch.Queue(`
			INSERT INTO accesos_telefonia_movil (id_periodo, total_accesos_pospago, total_accesos_prepago)
			VALUES ($1, $2, $3)
			ON CONFLICT (id_periodo) DO UPDATE SET
				total_accesos_pospago = EXCLUDED.total_accesos_pospago,
				total_accesos_prepago = EXCLUDED.total_accesos_prepago`,
			periodIDs[m.Period()], m.Postpaid, m.Prepaid)
	}

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upsert dataset: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (p *Postgres) upsertProvinces(ctx context.Context, tx pgx.Tx, names []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(names))
	for _, name := range names {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO provincias (nombre_provincia) VALUES ($1)
			ON CONFLICT (nombre_provincia) DO UPDATE SET nombre_provincia = EXCLUDED.nombre_provincia
			RETURNING id_provincia`, name).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("upsert province %q: %w", name, err)
		}
		ids[name] = id
	}
	return ids, nil
}

func (p *Postgres) upsertPeriods(ctx context.Context, tx pgx.Tx, periods []contracts.Period) (map[contracts.Period]int64, error) {
	ids := make(map[contracts.Period]int64, len(periods))
	for _, period := range periods {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO periodos (anio, trimestre) VALUES ($1, $2)
			ON CONFLICT (anio, trimestre) DO UPDATE SET anio = EXCLUDED.anio
			RETURNING id_periodo`, period.Year, period.Quarter).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("upsert period %s: %w", period.Label(), err)
		}
		ids[period] = id
	}
	return ids, nil
}
