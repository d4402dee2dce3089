package geodesy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeoscienceAustralia/geodesy"
)

func writeCatalog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ellipsoids.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadEllipsoidCatalog(t *testing.T) {
	path := writeCatalog(t, `
CLARKE1858:
  semi_major_axis: 6378293.645
  inverse_flattening: 294.26
GRS80:
  semi_major_axis: 6378137.0
  inverse_flattening: 298.3
`)

	ellipsoids, err := geodesy.LoadEllipsoidCatalog(path)
	require.NoError(t, err)

	// new entries merge over the built-in set
	clarke, ok := ellipsoids["CLARKE1858"]
	require.True(t, ok)
	assert.Equal(t, 6378293.645, clarke.SemiMajorAxis)

	// a catalogue entry replaces a built-in of the same name
	assert.Equal(t, 298.3, ellipsoids["GRS80"].InverseFlattening)

	// untouched built-ins survive
	assert.Equal(t, geodesy.WGS84, ellipsoids["WGS84"])
}

func TestLoadEllipsoidCatalogBadValues(t *testing.T) {
	path := writeCatalog(t, `
FLAT:
  semi_major_axis: 6378137.0
  inverse_flattening: 12.0
`)

	_, err := geodesy.LoadEllipsoidCatalog(path)
	var rangeErr *geodesy.ErrInputRange
	require.ErrorAs(t, err, &rangeErr)
}

func TestLoadEllipsoidCatalogMissingFile(t *testing.T) {
	_, err := geodesy.LoadEllipsoidCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEllipsoidCatalogMalformedYAML(t *testing.T) {
	path := writeCatalog(t, "CLARKE1858: [not, a, mapping]")
	_, err := geodesy.LoadEllipsoidCatalog(path)
	assert.Error(t, err)
}
