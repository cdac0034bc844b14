package testutil

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/geo"
)

// Changeset is the changeset a contribution was made in.
type Changeset struct {
	ID        int64
	CreatedBy string
	Hashtags  []string
}

// Contribution is one row of the contributions table. The geometry type,
// area and length columns are derived from Geometry.
type Contribution struct {
	OSMType   string
	OSMID     int64
	Tags      map[string]string
	Geometry  orb.Geometry
	Changeset Changeset
}

// Key identifies the contribution as "type/id", e.g. "way/4".
func (c Contribution) Key() string {
	return fmt.Sprintf("%s/%d", c.OSMType, c.OSMID)
}

// Measures returns the area in square meters for polygonal geometries and
// the length in meters for linear ones.
func (c Contribution) Measures() (area, length float64) {
	switch c.Geometry.(type) {
	case orb.Polygon, orb.MultiPolygon:
		area = math.Abs(geo.Area(c.Geometry))
	case orb.LineString, orb.MultiLineString:
		length = geo.Length(c.Geometry)
	}
	return area, length
}

var (
	cs100 = Changeset{ID: 100, CreatedBy: "iD 2.20.0", Hashtags: []string{"missingmaps"}}
	cs101 = Changeset{ID: 101, CreatedBy: "JOSM/1.5"}
	cs102 = Changeset{ID: 102, CreatedBy: "JOSM/1.5", Hashtags: []string{"hotosm-project-1", "missingmaps"}}
	cs103 = Changeset{ID: 103, CreatedBy: "iD 2.20.0"}
	cs104 = Changeset{ID: 104, CreatedBy: "JOSM/1.5", Hashtags: []string{"hotosm-project-1"}}
	cs105 = Changeset{ID: 105, CreatedBy: "StreetComplete"}
	cs106 = Changeset{ID: 106, CreatedBy: "iD 2.20.0"}
	cs107 = Changeset{ID: 107, CreatedBy: "iD 2.20.0"}
	cs108 = Changeset{ID: 108, CreatedBy: "JOSM/1.6", Hashtags: []string{"missingmaps"}}
)

// square returns a closed ring of the given side length in degrees.
func square(lon, lat, side float64) orb.Ring {
	return orb.Ring{
		{lon, lat}, {lon + side, lat}, {lon + side, lat + side}, {lon, lat + side}, {lon, lat},
	}
}

// Contributions returns the rows seeded into every test database.
//
// Geometries are placed around Heidelberg. Polygon sizes are chosen so that
// buildings cover about 80 m², the park about 0.8 km² and the forest about
// 3.2 km². The footway is the only line longer than 1 km.
func Contributions() []Contribution {
	return []Contribution{
		{
			OSMType:   "node",
			OSMID:     1,
			Tags:      map[string]string{"natural": "tree", "leaf_type": "broadleaved"},
			Geometry:  orb.Point{8.6750, 49.4100},
			Changeset: cs100,
		},
		{
			OSMType:   "node",
			OSMID:     2,
			Tags:      map[string]string{"natural": "tree", "leaf_type": "needleleaved"},
			Geometry:  orb.Point{8.6751, 49.4101},
			Changeset: cs100,
		},
		{
			OSMType:   "node",
			OSMID:     3,
			Tags:      map[string]string{"amenity": "bench", "backrest": "yes"},
			Geometry:  orb.Point{8.6760, 49.4110},
			Changeset: cs101,
		},
		{
			OSMType:   "node",
			OSMID:     4540889804,
			Tags:      map[string]string{"natural": "tree"},
			Geometry:  orb.Point{8.6770, 49.4120},
			Changeset: cs105,
		},
		{
			OSMType:   "way",
			OSMID:     1,
			Tags:      map[string]string{"highway": "residential", "name": "Hauptstraße"},
			Geometry:  orb.LineString{{8.6700, 49.4100}, {8.6710, 49.4100}},
			Changeset: cs102,
		},
		{
			OSMType:   "way",
			OSMID:     2,
			Tags:      map[string]string{"highway": "living_street"},
			Geometry:  orb.LineString{{8.6710, 49.4100}, {8.6715, 49.4105}},
			Changeset: cs103,
		},
		{
			OSMType:   "way",
			OSMID:     3,
			Tags:      map[string]string{"highway": "residential"},
			Geometry:  orb.LineString{{8.6715, 49.4105}, {8.6720, 49.4110}},
			Changeset: cs103,
		},
		{
			OSMType: "way",
			OSMID:   4,
			Tags: map[string]string{
				"building":         "yes",
				"addr:housenumber": "45",
				"addr:street":      "Berliner Straße",
			},
			Geometry:  orb.Polygon{square(8.6730, 49.4150, 0.0001)},
			Changeset: cs104,
		},
		{
			OSMType:   "way",
			OSMID:     5,
			Tags:      map[string]string{"building": "house", "name": "HeiGIT"},
			Geometry:  orb.Polygon{square(8.6740, 49.4150, 0.0001)},
			Changeset: cs104,
		},
		{
			OSMType:   "way",
			OSMID:     6,
			Tags:      map[string]string{"leisure": "park", "name": "50%_park"},
			Geometry:  orb.Polygon{square(8.6800, 49.4000, 0.01)},
			Changeset: cs106,
		},
		{
			OSMType:   "way",
			OSMID:     7,
			Tags:      map[string]string{"highway": "footway"},
			Geometry:  orb.LineString{{8.6700, 49.4200}, {8.6900, 49.4200}},
			Changeset: cs106,
		},
		{
			OSMType:   "way",
			OSMID:     8,
			Tags:      map[string]string{"natural": "tree_row"},
			Geometry:  orb.LineString{{8.6780, 49.4130}, {8.6785, 49.4130}},
			Changeset: cs107,
		},
		{
			OSMType: "relation",
			OSMID:   1,
			Tags:    map[string]string{"type": "multipolygon", "landuse": "forest"},
			Geometry: orb.MultiPolygon{
				{square(8.7000, 49.3800, 0.02)},
				{square(8.7500, 49.3800, 0.001)},
			},
			Changeset: cs108,
		},
		{
			OSMType: "relation",
			OSMID:   2,
			Tags:    map[string]string{"type": "route", "route": "bicycle"},
			Geometry: orb.Collection{
				orb.LineString{{8.6700, 49.4100}, {8.6710, 49.4100}},
				orb.LineString{{8.6700, 49.4200}, {8.6900, 49.4200}},
			},
			Changeset: cs108,
		},
	}
}

// InsertContributions writes rows into the contributions table of db.
func InsertContributions(ctx context.Context, db *sql.DB, rows ...Contribution) error {
	const query = `
		INSERT INTO contributions (
			osm_id, osm_type, tags, status_geom_type, area, length,
			changeset_id, changeset_tags, changeset_hashtags, geom
		)
		VALUES ($1, $2, $3, ROW('latest', $4)::status_geom, $5, $6, $7, $8, $9, $10)
	`

	for _, c := range rows {
		tags, err := json.Marshal(c.Tags)
		if err != nil {
			return fmt.Errorf("%s: encode tags: %w", c.Key(), err)
		}
		changesetTags, err := json.Marshal(map[string]string{"created_by": c.Changeset.CreatedBy})
		if err != nil {
			return fmt.Errorf("%s: encode changeset tags: %w", c.Key(), err)
		}
		geom, err := wkb.Marshal(c.Geometry)
		if err != nil {
			return fmt.Errorf("%s: encode geometry: %w", c.Key(), err)
		}
		hashtags := c.Changeset.Hashtags
		if hashtags == nil {
			hashtags = []string{}
		}
		area, length := c.Measures()

		_, err = db.ExecContext(ctx, query,
			c.OSMID, c.OSMType, string(tags), c.Geometry.GeoJSONType(), area, length,
			c.Changeset.ID, string(changesetTags), hashtags, geom,
		)
		if err != nil {
			return fmt.Errorf("%s: insert: %w", c.Key(), err)
		}
	}
	return nil
}
