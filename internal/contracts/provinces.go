package contracts

import "strings"

// ProvinceInfo is the ISO 3166-2 code and centroid of an Argentine province
type ProvinceInfo struct {
	Name      string
	Code      string
	Latitude  float64
	Longitude float64
}

var provinces = []ProvinceInfo{
	{"CABA", "AR-C", -34.6037, -58.3816},
	{"Buenos Aires", "AR-B", -36.6769, -60.5588},
	{"Catamarca", "AR-K", -28.4696, -65.7852},
	{"Chaco", "AR-H", -27.4519, -58.9867},
	{"Chubut", "AR-U", -43.7924, -67.8076},
	{"Córdoba", "AR-X", -31.4173, -64.183},
	{"Corrientes", "AR-W", -27.4692, -58.8341},
	{"Entre Ríos", "AR-E", -32.0586, -60.4803},
	{"Formosa", "AR-P", -26.1775, -58.1781},
	{"Jujuy", "AR-Y", -24.1858, -65.3002},
	{"La Pampa", "AR-L", -36.6167, -64.2833},
	{"La Rioja", "AR-F", -29.4146, -66.8556},
	{"Mendoza", "AR-M", -32.8908, -68.8458},
	{"Misiones", "AR-N", -27.3769, -55.8961},
	{"Neuquén", "AR-Q", -38.9516, -68.0591},
	{"Río Negro", "AR-R", -40.8116, -63.0000},
	{"Salta", "AR-A", -24.7821, -65.4232},
	{"San Juan", "AR-J", -30.8654, -68.8896},
	{"San Luis", "AR-D", -33.3012, -66.3378},
	{"Santa Cruz", "AR-Z", -49.3167, -67.7333},
	{"Santa Fe", "AR-S", -31.6333, -60.7},
	{"Santiago del Estero", "AR-G", -27.7834, -63.2513},
	{"Tierra del Fuego", "AR-V", -54.8019, -68.3030},
	{"Tucumán", "AR-T", -26.8241, -65.2226},
}

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u",
)

// common spellings in ENACOM datasets
var provinceAliases = map[string]string{
	"capital federal":                                       "caba",
	"ciudad autonoma de buenos aires":                       "caba",
	"ciudad de buenos aires":                                "caba",
	"tierra del fuego, antartida e islas del atlantico sur": "tierra del fuego",
}

// NormalizeProvince lowercases, folds accents and resolves aliases
func NormalizeProvince(name string) string {
	key := strings.ToLower(strings.TrimSpace(accentFolder.Replace(name)))
	key = strings.Join(strings.Fields(key), " ")
	if alias, ok := provinceAliases[key]; ok {
		return alias
	}
	return key
}

var provinceIndex = func() map[string]ProvinceInfo {
	idx := make(map[string]ProvinceInfo, len(provinces))
	for _, p := range provinces {
		idx[NormalizeProvince(p.Name)] = p
	}
	return idx
}()

// LookupProvince finds a province by any spelling NormalizeProvince accepts
func LookupProvince(name string) (ProvinceInfo, bool) {
	p, ok := provinceIndex[NormalizeProvince(name)]
	return p, ok
}

// Provinces returns the 24 jurisdictions
func Provinces() []ProvinceInfo {
	out := make([]ProvinceInfo, len(provinces))
	copy(out, provinces)
	return out
}
