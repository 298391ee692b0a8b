package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleGDPCSV is a small World Bank style GDP table.
// "Korea, Rep." exercises quoting, Nowhere has gaps, and Aruba has no data.
const SampleGDPCSV = `Country Name,Country Code,1960,1961,1962,1963
China,CHN,59716467625.3148,50056868957.6732,47209359005.6056,50706799902.5103
"Korea, Rep.",KOR,3958190758.31778,2417558235.35579,2814318516.69385,3988784620.39059
United Kingdom,GBR,72328047042.1072,76694360635.6044,80601939635.2487,85443766670.4896
United States,USA,543300000000,563300000000,605100000000,638600000000
Nowhere,NWH,,5.5,,9.9
Aruba,ABW,,,,
`

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// WriteSampleGDP writes SampleGDPCSV into a temp dir and returns its path.
func WriteSampleGDP(t testing.TB) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "gdp.csv", SampleGDPCSV)
}
