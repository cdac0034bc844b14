package testutil

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContributions_UniqueKeys(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Contributions() {
		assert.False(t, seen[c.Key()], "duplicate contribution %s", c.Key())
		seen[c.Key()] = true
	}
}

func TestContributions_GeometryTypes(t *testing.T) {
	// Every geometry type the geometry filter distinguishes must be present,
	// and nothing else.
	allowed := map[string]bool{
		orb.Point{}.GeoJSONType():        true,
		orb.LineString{}.GeoJSONType():   true,
		orb.Polygon{}.GeoJSONType():      true,
		orb.MultiPolygon{}.GeoJSONType(): true,
		orb.Collection{}.GeoJSONType():   true,
	}
	found := make(map[string]bool)
	for _, c := range Contributions() {
		typ := c.Geometry.GeoJSONType()
		assert.True(t, allowed[typ], "%s has unexpected geometry type %s", c.Key(), typ)
		found[typ] = true
	}
	assert.Len(t, found, len(allowed))
}

func TestContribution_Measures(t *testing.T) {
	byKey := make(map[string]Contribution)
	for _, c := range Contributions() {
		byKey[c.Key()] = c
	}

	tests := []struct {
		key       string
		minArea   float64
		maxArea   float64
		minLength float64
		maxLength float64
	}{
		{"node/1", 0, 0, 0, 0},
		{"way/1", 0, 0, 50, 99},
		{"way/7", 0, 0, 1000, 2000},
		{"way/4", 50, 120, 0, 0},
		{"way/6", 5e5, 1e6, 0, 0},
		{"relation/1", 1e6, 5e6, 0, 0},
		{"relation/2", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			c, ok := byKey[tt.key]
			require.True(t, ok)

			area, length := c.Measures()
			assert.GreaterOrEqual(t, area, tt.minArea)
			assert.LessOrEqual(t, area, tt.maxArea)
			assert.GreaterOrEqual(t, length, tt.minLength)
			assert.LessOrEqual(t, length, tt.maxLength)
		})
	}
}

func TestReplaceDBName(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://u:p@localhost:5432/postgres?sslmode=disable", "postgres://u:p@localhost:5432/test_1?sslmode=disable"},
		{"postgres://u@localhost/postgres", "postgres://u@localhost/test_1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, replaceDBName(tt.dsn, "test_1"))
	}
}
