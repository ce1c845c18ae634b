package enacom

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wonny/telecom-kpi/internal/contracts"
)

// table is a parsed CSV export with columns looked up by header name
type table struct {
	columns map[string]int
	records [][]string
}

var headerFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ñ", "n",
)

// headerKey folds a header to lowercase ASCII words joined by spaces
func headerKey(h string) string {
	h = strings.ToLower(headerFolder.Replace(strings.TrimSpace(h)))
	h = strings.NewReplacer("_", " ", "-", " ").Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

func parseTable(data []byte) (*table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty csv")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	t := &table{columns: make(map[string]int, len(header))}
	for i, h := range header {
		t.columns[headerKey(h)] = i
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		t.records = append(t.records, rec)
	}
	return t, nil
}

// column resolves the first header present among names
func (t *table) column(names ...string) (int, error) {
	for _, n := range names {
		if i, ok := t.columns[headerKey(n)]; ok {
			return i, nil
		}
	}
	return 0, fmt.Errorf("missing column %q", names[0])
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseDecimal accepts "54.57", "54,57" and "1.234,5"
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}

// parseCount accepts "8398514", "8.398.514" and "8,398,514"
func parseCount(s string) (int64, error) {
	s = strings.NewReplacer(".", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	return strconv.ParseInt(s, 10, 64)
}

// parseFlag reads the SI / -- availability markers
func parseFlag(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SI", "SÍ", "1", "TRUE":
		return true
	}
	return false
}

// parseQuarter accepts "1", "T1" and "1er trimestre" style values
func parseQuarter(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) > 1 && (s[0] == 'T' || s[0] == 't') {
		s = strings.TrimSpace(s[1:])
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("invalid quarter %q", s)
	}
	return strconv.Atoi(s[:end])
}

func parsePeriod(yearStr, quarterStr string) (contracts.Period, error) {
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil {
		return contracts.Period{}, fmt.Errorf("invalid year %q", yearStr)
	}
	quarter, err := parseQuarter(quarterStr)
	if err != nil {
		return contracts.Period{}, err
	}
	p := contracts.Period{Year: year, Quarter: quarter}
	if err := p.Validate(); err != nil {
		return contracts.Period{}, err
	}
	return p, nil
}

// ParseInternetPenetration parses the accesses-per-100-households export
func ParseInternetPenetration(data []byte) ([]contracts.Observation, error) {
	t, err := parseTable(data)
	if err != nil {
		return nil, err
	}

	yearCol, err := t.column("Año", "anio")
	if err != nil {
		return nil, err
	}
	quarterCol, err := t.column("Trimestre")
	if err != nil {
		return nil, err
	}
	provinceCol, err := t.column("Provincia")
	if err != nil {
		return nil, err
	}
	valueCol, err := t.column("Accesos por cada 100 hogares", "accesos_por_100_hogares")
	if err != nil {
		return nil, err
	}

	out := make([]contracts.Observation, 0, len(t.records))
	for i, rec := range t.records {
		p, err := parsePeriod(field(rec, yearCol), field(rec, quarterCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		value, err := parseDecimal(field(rec, valueCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid value: %w", i+2, err)
		}
		out = append(out, contracts.Observation{
			Province: field(rec, provinceCol),
			Year:     p.Year,
			Quarter:  p.Quarter,
			Value:    value,
		})
	}
	return out, nil
}

// ParseConnectivityMap parses the per-locality connectivity export
func ParseConnectivityMap(data []byte) ([]contracts.Locality, error) {
	t, err := parseTable(data)
	if err != nil {
		return nil, err
	}

	idCol, err := t.column("Link", "id_localidad")
	if err != nil {
		return nil, err
	}
	provinceCol, err := t.column("Provincia")
	if err != nil {
		return nil, err
	}
	nameCol, err := t.column("Localidad")
	if err != nil {
		return nil, err
	}
	fiberCol, err := t.column("Fibra óptica", "FIBRAOPTICA", "fibra_optica")
	if err != nil {
		return nil, err
	}
	wirelessCol, err := t.column("Wireless")
	if err != nil {
		return nil, err
	}
	populationCol, err := t.column("Población", "poblacion")
	if err != nil {
		return nil, err
	}

	out := make([]contracts.Locality, 0, len(t.records))
	for i, rec := range t.records {
		id, err := parseCount(field(rec, idCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid locality id: %w", i+2, err)
		}
		var population int64
		if raw := field(rec, populationCol); raw != "" {
			if population, err = parseCount(raw); err != nil {
				return nil, fmt.Errorf("row %d: invalid population: %w", i+2, err)
			}
		}
		out = append(out, contracts.Locality{
			ID:         id,
			Name:       field(rec, nameCol),
			Province:   field(rec, provinceCol),
			Fiber:      parseFlag(field(rec, fiberCol)),
			Wireless:   parseFlag(field(rec, wirelessCol)),
			Population: population,
		})
	}
	return out, nil
}

// ParseMobileAccesses parses the national mobile accesses export
func ParseMobileAccesses(data []byte) ([]contracts.MobileAccess, error) {
	t, err := parseTable(data)
	if err != nil {
		return nil, err
	}

	yearCol, err := t.column("Año", "anio")
	if err != nil {
		return nil, err
	}
	quarterCol, err := t.column("Trimestre")
	if err != nil {
		return nil, err
	}
	postpaidCol, err := t.column("Total de accesos pospago", "total_accesos_pospago")
	if err != nil {
		return nil, err
	}
	prepaidCol, err := t.column("Total de accesos prepago", "total_accesos_prepago")
	if err != nil {
		return nil, err
	}

	out := make([]contracts.MobileAccess, 0, len(t.records))
	for i, rec := range t.records {
		p, err := parsePeriod(field(rec, yearCol), field(rec, quarterCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		postpaid, err := parseCount(field(rec, postpaidCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid postpaid: %w", i+2, err)
		}
		prepaid, err := parseCount(field(rec, prepaidCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid prepaid: %w", i+2, err)
		}
		out = append(out, contracts.MobileAccess{
			Year:     p.Year,
			Quarter:  p.Quarter,
			Postpaid: postpaid,
			Prepaid:  prepaid,
		})
	}
	return out, nil
}
