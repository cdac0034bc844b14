package filtersql_test

import (
	"testing"

	filtersql "github.com/GIScience/ohsome-filter-to-sql"
)

var benchmarkFilters = map[string]string{
	"tag":   "natural=tree",
	"mixed": "type:way and highway in (residential, living_street) and not name=* and length:(..100)",
	"walkable": "(((highway=footway) or (highway=path and (foot=designated or foot=yes)) or " +
		"(highway=pedestrian) or (highway=steps) or (highway=cycleway and foot=yes) " +
		"or (sidewalk=* and highway!=motorway) or (foot=yes)) and geometry:line)",
}

func BenchmarkTranslate(b *testing.B) {
	for name, filter := range benchmarkFilters {
		b.Run(name, func(b *testing.B) {
			tr := filtersql.NewTranslator()
			b.ReportAllocs()
			for b.Loop() {
				if _, err := tr.Translate(filter); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run(name+"/cached", func(b *testing.B) {
			tr := filtersql.NewTranslator(filtersql.WithCache(filtersql.NewCache()))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := tr.Translate(filter); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
