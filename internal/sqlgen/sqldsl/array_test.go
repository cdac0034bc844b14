package sqldsl

import "testing"

func TestArrayContains_SQL(t *testing.T) {
	tests := []struct {
		name string
		ac   ArrayContains
		want string
	}{
		{
			name: "placeholder in column",
			ac:   ArrayContains{Value: Placeholder(1), Array: Col{Column: "changeset_hashtags"}},
			want: "$1 = ANY(changeset_hashtags)",
		},
		{
			name: "column in placeholder",
			ac:   ArrayContains{Value: Col{Column: "osm_id"}, Array: Placeholder(4)},
			want: "osm_id = ANY($4)",
		},
		{
			name: "jsonb member in placeholder",
			ac: ArrayContains{
				Value: JSONText{Doc: Col{Column: "tags"}, Key: Placeholder(1)},
				Array: Placeholder(2),
			},
			want: "tags ->> $1 = ANY($2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ac.SQL(); got != tt.want {
				t.Errorf("ArrayContains.SQL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArrayOverlap_SQL(t *testing.T) {
	ao := ArrayOverlap{Left: Placeholder(2), Right: Col{Column: "changeset_hashtags"}}
	want := "$2 && changeset_hashtags"
	if got := ao.SQL(); got != want {
		t.Errorf("ArrayOverlap.SQL() = %q, want %q", got, want)
	}
}
