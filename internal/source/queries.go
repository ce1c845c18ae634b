package source

// Dataset names, used as query identifiers in errors, logs and cache keys
const (
	QueryInternet   = "internet_penetration"
	QueryLocalities = "localities"
	QueryMobile     = "mobile_accesses"
)

const selectInternet = `
	SELECT
		p.nombre_provincia,
		pe.anio,
		pe.trimestre,
		ph.accesos_por_100_hogares
	FROM penetracion_internet_hogares ph
	JOIN provincias p ON ph.id_provincia = p.id_provincia
	JOIN periodos pe ON ph.id_periodo = pe.id_periodo
	ORDER BY pe.anio, pe.trimestre, p.nombre_provincia`

// only localities with some connectivity (fiber or wireless) are part of the map
const selectLocalitiesPostgres = `
	SELECT
		l.id_localidad,
		l.localidad,
		p.nombre_provincia,
		mc.fibra_optica,
		mc.wireless,
		mc.poblacion
	FROM mapa_conectividad mc
	JOIN localidades l ON mc.id_localidad = l.id_localidad
	JOIN provincias p ON l.id_provincia = p.id_provincia
	WHERE mc.fibra_optica = TRUE OR mc.wireless = TRUE
	ORDER BY p.nombre_provincia, l.localidad`

const selectLocalitiesSQLite = `
	SELECT
		l.id_localidad,
		l.localidad,
		p.nombre_provincia,
		mc.fibra_optica,
		mc.wireless,
		mc.poblacion
	FROM mapa_conectividad mc
	JOIN localidades l ON mc.id_localidad = l.id_localidad
	JOIN provincias p ON l.id_provincia = p.id_provincia
	WHERE mc.fibra_optica = 1 OR mc.wireless = 1
	ORDER BY p.nombre_provincia, l.localidad`

const selectMobile = `
	SELECT
		pe.anio,
		pe.trimestre,
		atm.total_accesos_pospago,
		atm.total_accesos_prepago
	FROM accesos_telefonia_movil atm
	JOIN periodos pe ON atm.id_periodo = pe.id_periodo
	ORDER BY pe.anio, pe.trimestre`
