package mongofluent_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinicius-lino-figueiredo/mongofluent"
	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/schema"
	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/searchquery"
	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
	"github.com/vinicius-lino-figueiredo/mongofluent/pkg/canonjson"
)

func golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func assertGolden(t *testing.T, name string, v any) {
	t.Helper()
	out, err := canonjson.MarshalIndent(v)
	require.NoError(t, err)
	golden(t).Assert(t, name, out)
}

func testSchema(t *testing.T) *mongofluent.Schema {
	t.Helper()
	s, err := mongofluent.NewSchema("default",
		schema.WithField("username", schema.FieldConfig{StringIndex: true}),
		schema.WithField("age", schema.FieldConfig{NumberIndex: true, NumberFacet: true}),
		schema.WithField("country", schema.FieldConfig{StringFacet: true}),
	)
	require.NoError(t, err)
	return s
}

// The canonical rendering of a full search stage stays stable across
// changes to the builders.
func TestGoldenSearchStage(t *testing.T) {
	stage, err := mongofluent.NewSearch(testSchema(t)).
		Text("john", "username").
		Facet("age", searchquery.WithBoundaries(18, 30, 50)).
		Facet("country").
		Count(domain.CountLowerBound, searchquery.WithCountThreshold(1000)).
		BuildStage()
	require.NoError(t, err)

	assertGolden(t, "search_stage", stage)
}

func TestGoldenSearchMetaStage(t *testing.T) {
	g := mongofluent.NewCompound()
	g.Must().Text("john", "username")

	stage, err := mongofluent.NewSearch(testSchema(t)).
		UseFacetOperator(g).
		FacetAll().
		BuildMetaStage()
	require.NoError(t, err)

	assertGolden(t, "search_meta_stage", stage)
}

func TestGoldenAggregatePipeline(t *testing.T) {
	p := mongofluent.NewPipeline()
	p.Match(bson.M{"status": "active"}).
		Sort(mongofluent.Desc("score"), mongofluent.Asc("name")).
		Skip(10).
		Limit(5)

	stages, err := p.Build()
	require.NoError(t, err)

	assertGolden(t, "aggregate_pipeline", stages)
}
