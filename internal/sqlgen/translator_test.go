package sqlgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GIScience/ohsome-filter-to-sql/pkg/parser"
)

func translate(t *testing.T, filter string, shift int) (*Translation, error) {
	t.Helper()
	root, err := parser.Parse(filter)
	require.NoError(t, err)
	return Translate(root, shift)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		filter   string
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "and of tag matches",
			filter:   "natural=tree and leaf_type=broadleaved",
			wantSQL:  "tags @> $1 AND tags @> $2",
			wantArgs: []any{`{"natural":"tree"}`, `{"leaf_type":"broadleaved"}`},
		},
		{
			name:     "or of tag matches",
			filter:   "natural=tree or leaf_type=broadleaved",
			wantSQL:  "tags @> $1 OR tags @> $2",
			wantArgs: []any{`{"natural":"tree"}`, `{"leaf_type":"broadleaved"}`},
		},
		{
			name:     "id range",
			filter:   "id:(1..9999)",
			wantSQL:  "(osm_id >= $1 AND osm_id <= $2)",
			wantArgs: []any{int64(1), int64(9999)},
		},
		{
			name:     "id range lower only",
			filter:   "id:(1..)",
			wantSQL:  "osm_id >= $1",
			wantArgs: []any{int64(1)},
		},
		{
			name:     "id range upper only",
			filter:   "id:(..9999)",
			wantSQL:  "osm_id <= $1",
			wantArgs: []any{int64(9999)},
		},
		{
			name:     "tag not match",
			filter:   "natural!=tree",
			wantSQL:  "NOT tags @> $1",
			wantArgs: []any{`{"natural":"tree"}`},
		},
		{
			name:     "tag wildcard",
			filter:   "natural=*",
			wantSQL:  "tags ? $1",
			wantArgs: []any{"natural"},
		},
		{
			name:     "tag not wildcard",
			filter:   "natural!=*",
			wantSQL:  "NOT tags ? $1",
			wantArgs: []any{"natural"},
		},
		{
			name:     "value pattern escapes like characters",
			filter:   `name ~ *"50%_off"*`,
			wantSQL:  "tags ->> $1 LIKE $2",
			wantArgs: []any{"name", `%50\%\_off%`},
		},
		{
			name:     "value pattern prefix",
			filter:   "name ~ S*",
			wantSQL:  "tags ->> $1 LIKE $2",
			wantArgs: []any{"name", "S%"},
		},
		{
			name:     "value pattern literal star and quote",
			filter:   `name ~ "Hotel *'s"`,
			wantSQL:  "tags ->> $1 LIKE $2",
			wantArgs: []any{"name", "Hotel *'s"},
		},
		{
			name:     "tag list",
			filter:   "highway in (residential, living_street)",
			wantSQL:  "tags ->> $1 = ANY($2)",
			wantArgs: []any{"highway", []string{"residential", "living_street"}},
		},
		{
			name:     "hashtag",
			filter:   "hashtag:missingmaps",
			wantSQL:  "$1 = ANY(changeset_hashtags)",
			wantArgs: []any{"missingmaps"},
		},
		{
			name:     "hashtag list",
			filter:   "hashtag:(missingmaps, type, other)",
			wantSQL:  "$1 && changeset_hashtags",
			wantArgs: []any{[]string{"missingmaps", "type", "other"}},
		},
		{
			name:     "type",
			filter:   "type:way",
			wantSQL:  "osm_type = $1",
			wantArgs: []any{"way"},
		},
		{
			name:     "id",
			filter:   "id:4540889804",
			wantSQL:  "osm_id = $1",
			wantArgs: []any{int64(4540889804)},
		},
		{
			name:     "type id",
			filter:   "id:node/42",
			wantSQL:  "(osm_type = $1 AND osm_id = $2)",
			wantArgs: []any{"node", int64(42)},
		},
		{
			name:     "id list",
			filter:   "id:(1, 2, 3)",
			wantSQL:  "osm_id = ANY($1)",
			wantArgs: []any{[]int64{1, 2, 3}},
		},
		{
			name:     "type id list",
			filter:   "id:(node/1, way/2)",
			wantSQL:  "((osm_id = $1 AND osm_type = $2) OR (osm_id = $3 AND osm_type = $4))",
			wantArgs: []any{int64(1), "node", int64(2), "way"},
		},
		{
			name:     "type id list of one",
			filter:   "id:(way/2)",
			wantSQL:  "(osm_id = $1 AND osm_type = $2)",
			wantArgs: []any{int64(2), "way"},
		},
		{
			name:    "geometry point",
			filter:  "geometry:point",
			wantSQL: "(status_geom_type).geom_type = 'Point'",
		},
		{
			name:    "geometry line",
			filter:  "geometry:line",
			wantSQL: "(status_geom_type).geom_type = 'LineString'",
		},
		{
			name:    "geometry polygon",
			filter:  "geometry:polygon",
			wantSQL: "((status_geom_type).geom_type = 'Polygon' OR (status_geom_type).geom_type = 'MultiPolygon')",
		},
		{
			name:    "geometry other",
			filter:  "geometry:other",
			wantSQL: "(status_geom_type).geom_type = 'GeometryCollection'",
		},
		{
			name:     "area lower only",
			filter:   "area:(1E6..)",
			wantSQL:  "area >= $1",
			wantArgs: []any{1e6},
		},
		{
			name:     "length range",
			filter:   "length:(1.5..10)",
			wantSQL:  "(length >= $1 AND length <= $2)",
			wantArgs: []any{1.5, 10.0},
		},
		{
			name:     "changeset",
			filter:   "changeset:111",
			wantSQL:  "changeset_id = $1",
			wantArgs: []any{int64(111)},
		},
		{
			name:     "changeset list",
			filter:   "changeset:(1, 2)",
			wantSQL:  "changeset_id = ANY($1)",
			wantArgs: []any{[]int64{1, 2}},
		},
		{
			name:     "changeset range",
			filter:   "changeset:(10..20)",
			wantSQL:  "(changeset_id >= $1 AND changeset_id <= $2)",
			wantArgs: []any{int64(10), int64(20)},
		},
		{
			name:     "changeset created by",
			filter:   `changeset.created_by:"iD 2.27.3"`,
			wantSQL:  "changeset_tags @> $1",
			wantArgs: []any{`{"created_by":"iD 2.27.3"}`},
		},
		{
			name:     "not",
			filter:   "not type:node",
			wantSQL:  "NOT osm_type = $1",
			wantArgs: []any{"node"},
		},
		{
			name:     "not not",
			filter:   "not not natural=tree",
			wantSQL:  "NOT NOT tags @> $1",
			wantArgs: []any{`{"natural":"tree"}`},
		},
		{
			name:     "not of parenthesized",
			filter:   "not (a=b)",
			wantSQL:  "NOT (tags @> $1)",
			wantArgs: []any{`{"a":"b"}`},
		},
		{
			name:     "parentheses round-trip",
			filter:   "((natural=tree))",
			wantSQL:  "((tags @> $1))",
			wantArgs: []any{`{"natural":"tree"}`},
		},
		{
			name:     "grouping keeps source order of parameters",
			filter:   "(a=b or c=d) and type:node",
			wantSQL:  "(tags @> $1 OR tags @> $2) AND osm_type = $3",
			wantArgs: []any{`{"a":"b"}`, `{"c":"d"}`, "node"},
		},
		{
			name:     "json keeps html characters and escapes quotes",
			filter:   `name="say \"<hi>\" & go"`,
			wantSQL:  "tags @> $1",
			wantArgs: []any{`{"name":"say \"<hi>\" & go"}`},
		},
		{
			name:     "sql injection stays in parameters",
			filter:   `name="x'; DROP TABLE contributions; --"`,
			wantSQL:  "tags @> $1",
			wantArgs: []any{`{"name":"x'; DROP TABLE contributions; --"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := translate(t, tt.filter, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, tr.SQL)
			if tt.wantArgs == nil {
				assert.Empty(t, tr.Args)
			} else {
				assert.Equal(t, tt.wantArgs, tr.Args)
			}
		})
	}
}

func TestTranslate_Shift(t *testing.T) {
	tr, err := translate(t, "natural=tree and id:(1..9999)", 3)
	require.NoError(t, err)
	assert.Equal(t, "tags @> $4 AND (osm_id >= $5 AND osm_id <= $6)", tr.SQL)
	assert.Len(t, tr.Args, 3)

	root, err := parser.Parse("natural=tree")
	require.NoError(t, err)
	_, err = Translate(root, -1)
	assert.Error(t, err)
}

func TestTranslate_RangeError(t *testing.T) {
	tests := []struct {
		filter string
		field  string
		lower  any
		upper  any
	}{
		{"id:(10..1)", "id", int64(10), int64(1)},
		{"area:(200..1)", "area", 200.0, 1.0},
		{"length:(5.5..1)", "length", 5.5, 1.0},
		{"changeset:(9..3)", "changeset", int64(9), int64(3)},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			tr, err := translate(t, tt.filter, 0)
			require.Error(t, err)
			assert.Nil(t, tr)
			assert.True(t, errors.Is(err, ErrRange))

			var rangeErr *RangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, tt.field, rangeErr.Field)
			assert.Equal(t, tt.lower, rangeErr.Lower)
			assert.Equal(t, tt.upper, rangeErr.Upper)
		})
	}

	_, err := translate(t, "id:(7..7)", 0)
	assert.NoError(t, err)
}

func TestTranslate_RangeErrorMessage(t *testing.T) {
	_, err := translate(t, "type:node and area:(200..1)", 0)
	require.Error(t, err)
	assert.Equal(t, "line 1:15 area range lower bound 200 exceeds upper bound 1", err.Error())
}

func TestTranslate_NotImplemented(t *testing.T) {
	tests := []struct {
		filter string
		rule   string
	}{
		{"hashtag:*", "hashtag:*"},
		{"perimeter:(1..2)", "perimeter"},
		{"geometry.vertices:(1..100)", "geometry.vertices"},
		{"geometry.outers:1", "geometry.outers"},
		{"geometry.outers:(1..2)", "geometry.outers"},
		{"geometry.inners:0", "geometry.inners"},
		{"natural=tree and geometry.inners:(..2)", "geometry.inners"},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			_, err := translate(t, tt.filter, 0)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotImplemented))

			var niErr *NotImplementedError
			require.ErrorAs(t, err, &niErr)
			assert.Equal(t, tt.rule, niErr.Rule)
		})
	}
}

func TestTranslate_NilRoot(t *testing.T) {
	_, err := Translate(nil, 0)
	assert.Error(t, err)
}

func TestTranslator_StackDiscipline(t *testing.T) {
	tr := &translator{}
	_, err := tr.popFragment()
	assert.Error(t, err)

	tr.pushValue("natural")
	_, err = tr.popFragment()
	assert.Error(t, err, "a value must not be popped as a fragment")

	tr.pushValue("tree")
	values, err := tr.popValues(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"natural", "tree"}, values)
	assert.Empty(t, tr.stack)
}
