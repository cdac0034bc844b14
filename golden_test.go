package filtersql_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	filtersql "github.com/GIScience/ohsome-filter-to-sql"
)

// renderGolden formats a translation for comparison with a golden file.
func renderGolden(filter string, shift int, res *filtersql.Result) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "-- filter --\n%s\n-- sql --\n%s\n-- args --\n", filter, res.SQL)
	for i, arg := range res.Args {
		fmt.Fprintf(&sb, "$%d %T %v\n", shift+i+1, arg, arg)
	}
	return []byte(sb.String())
}

func TestTranslate_Golden(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		shift  int
	}{
		// https://docs.ohsome.org/ohsome-api/v1/filter.html#examples
		{"ohsome_api_forest", "(landuse=forest or natural=wood) and geometry:polygon", 0},
		{"ohsome_api_park_bench", "leisure=park and geometry:polygon or amenity=bench and (geometry:point or geometry:line)", 0},
		{"ohsome_api_building", "building=* and building!=no and geometry:polygon", 0},
		{
			"ohsome_api_roads",
			"type:way and (highway in (motorway, motorway_link, trunk, trunk_link, " +
				"primary, primary_link, secondary, secondary_link, tertiary, " +
				"tertiary_link, unclassified, residential, living_street, pedestrian) " +
				"or (highway=service and service=alley))",
			0,
		},
		{"ohsome_api_unnamed_residential", "type:way and highway=residential and name!=* and noname!=yes", 0},
		{"ohsome_api_large_building", "geometry:polygon and building=* and building!=no and area:(1E6..)", 0},
		{
			"navigator_cycleways",
			"geometry:line and  (highway=* or railway=platform) and not " +
				`(cycleway=separate or "cycleway:both"=separate or ` +
				`("cycleway:right"=separate and "cycleway:left"=separate) or ` +
				"indoor=yes or indoor=corridor)",
			0,
		},
		{
			"navigator_walkable",
			"(((highway=footway) or (highway=path and (foot=designated or foot=yes)) or " +
				"(highway=pedestrian) or (highway=steps) or (highway=cycleway and foot=yes) " +
				"or (sidewalk=* and highway!=motorway) or (foot=yes)) and geometry:line)",
			0,
		},
		{"sql_injection", `"natural';drop table contributions;SELECT 'test"=*`, 0},
		{"shifted_type_id_list", "id:(node/1, way/2) and type:way", 2},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := filtersql.Translate(tt.filter, filtersql.WithShift(tt.shift))
			require.NoError(t, err)
			g.Assert(t, tt.name, renderGolden(tt.filter, tt.shift, res))
		})
	}
}
