package contracts

import "context"

// ObservationSource is the data-access collaborator feeding the pipeline.
// Implementations: postgres, sqlite, redis-memoized wrapper.
// ⭐ SSOT: every KPI reads its raw rows through this interface
type ObservationSource interface {
	// InternetPenetration returns accesses per 100 households per province and quarter
	InternetPenetration(ctx context.Context) ([]Observation, error)

	// Localities returns the connectivity map: one row per locality
	Localities(ctx context.Context) ([]Locality, error)

	// MobileAccesses returns national postpaid/prepaid mobile accesses per quarter
	MobileAccesses(ctx context.Context) ([]MobileAccess, error)

	// Name identifies the source in logs and errors ("postgres", "sqlite")
	Name() string

	// Ping checks the source is reachable
	Ping(ctx context.Context) error
}

// Locality is one row of the connectivity map
type Locality struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Province   string `json:"province"`
	Fiber      bool   `json:"fiber"`
	Wireless   bool   `json:"wireless"`
	Population int64  `json:"population"`
}

// MobileAccess is the national postpaid/prepaid split for one quarter
type MobileAccess struct {
	Year     int   `json:"year"`
	Quarter  int   `json:"quarter"`
	Postpaid int64 `json:"postpaid"`
	Prepaid  int64 `json:"prepaid"`
}

// Period returns the (year, quarter) of the row
func (m MobileAccess) Period() Period {
	return Period{Year: m.Year, Quarter: m.Quarter}
}

// Dataset is a full load of the three KPI tables
type Dataset struct {
	Internet   []Observation  `json:"internet"`
	Localities []Locality     `json:"localities"`
	Mobile     []MobileAccess `json:"mobile"`
}

// Rows returns the total number of rows in the dataset
func (d Dataset) Rows() int {
	return len(d.Internet) + len(d.Localities) + len(d.Mobile)
}

// DatasetWriter upserts a Dataset into a source of truth
type DatasetWriter interface {
	WriteDataset(ctx context.Context, ds Dataset) error
}
