package searchquery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/schema"
	"github.com/vinicius-lino-figueiredo/mongofluent/adapter/search"
	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
)

type SearchQueryTestSuite struct {
	suite.Suite
	schema *schema.Schema
}

func (s *SearchQueryTestSuite) SetupTest() {
	sc, err := schema.New("default",
		schema.WithField("username", schema.FieldConfig{StringIndex: true}),
		schema.WithField("bio", schema.FieldConfig{StringIndex: true}),
		schema.WithField("age", schema.FieldConfig{NumberIndex: true, NumberFacet: true}),
		schema.WithField("country", schema.FieldConfig{StringFacet: true}),
		schema.WithField("joinedAt", schema.FieldConfig{DateFacet: true}),
		schema.WithFields(map[string]schema.FieldConfig{
			"price.amount": {NumberFacet: true},
		}),
	)
	s.Require().NoError(err)
	s.schema = sc
}

func (s *SearchQueryTestSuite) build(b *Builder) bson.M {
	doc, err := b.Build()
	s.Require().NoError(err)
	return doc
}

func (s *SearchQueryTestSuite) TestNilSchema() {
	b := New(nil)
	s.Error(b.Err())
	_, err := b.Build()
	s.Error(err)
}

// a single clause collapses to a bare top-level operator.
func (s *SearchQueryTestSuite) TestSingleClauseCollapses() {
	b := New(s.schema).Text("john", "username")
	s.Equal(bson.M{
		"index": "default",
		"text":  bson.M{"query": "john", "path": "username"},
	}, s.build(b))
}

// two or more clauses group under an implicit compound must.
func (s *SearchQueryTestSuite) TestMultipleClausesCompound() {
	b := New(s.schema).
		Text("john", "username").
		Phrase("loves coffee", "bio")

	s.Equal(bson.M{
		"index": "default",
		"compound": bson.M{
			"must": bson.A{
				bson.M{"text": bson.M{"query": "john", "path": "username"}},
				bson.M{"phrase": bson.M{"query": "loves coffee", "path": "bio"}},
			},
		},
	}, s.build(b))
}

// clause options flow through to the serialized operator.
func (s *SearchQueryTestSuite) TestClauseOptions() {
	b := New(s.schema).Autocomplete("jo", "username",
		search.WithAutocompleteFuzzy(search.Fuzzy{MaxEdits: 1}),
	)
	s.Equal(bson.M{
		"query": "jo",
		"path":  "username",
		"fuzzy": bson.M{"maxEdits": 1},
	}, s.build(b)["autocomplete"])
}

// clauses demand a string-indexed field and the error names the field.
func (s *SearchQueryTestSuite) TestClauseFieldValidation() {
	b := New(s.schema).Text("x", "missing")
	var notConfigured domain.ErrFieldNotConfigured
	s.ErrorAs(b.Err(), &notConfigured)
	s.True(notConfigured.Missing)

	b = New(s.schema).Text("30", "age")
	s.ErrorAs(b.Err(), &notConfigured)
	s.Equal("age", notConfigured.Field)
	s.Equal(domain.FieldTypeString, notConfigured.Want)
	s.ErrorContains(b.Err(), `field "age" is not configured for string search`)

	b = New(s.schema).Phrase("br", "country")
	s.ErrorAs(b.Err(), &notConfigured)
	s.Equal("country", notConfigured.Field)
}

// an explicit compound group is attached wholesale, never collapsed.
func (s *SearchQueryTestSuite) TestExplicitCompound() {
	g := search.NewGroup()
	g.Must().Text("john", "username")

	b := New(s.schema).Compound(g)
	s.Equal(bson.M{
		"index": "default",
		"compound": bson.M{
			"must": bson.A{
				bson.M{"text": bson.M{"query": "john", "path": "username"}},
			},
		},
	}, s.build(b))
}

func (s *SearchQueryTestSuite) TestCompoundExclusions() {
	b := New(s.schema).Compound(nil)
	s.ErrorContains(b.Err(), "group must not be nil")

	g := search.NewGroup()
	g.Must().Text("a", "username")

	b = New(s.schema).Text("john", "username").Compound(g)
	s.ErrorContains(b.Err(), "cannot combine a compound group with direct clauses")

	b = New(s.schema).Compound(g).Text("john", "username")
	s.ErrorContains(b.Err(), "cannot combine direct clauses with an attached compound group")

	b = New(s.schema).Compound(g).Compound(g)
	s.ErrorContains(b.Err(), "a compound group is already attached")
}

// string facets default to ten buckets.
func (s *SearchQueryTestSuite) TestStringFacet() {
	b := New(s.schema).Text("john", "username").Facet("country")
	doc := s.build(b)
	s.Equal(bson.M{"facets": bson.M{
		"country": bson.M{"type": "string", "path": "country", "numBuckets": 10},
	}}, doc["facet"])

	b = New(s.schema).Facet("country", WithNumBuckets(25))
	facets := s.build(b)["facet"].(bson.M)["facets"].(bson.M)
	s.Equal(25, facets["country"].(bson.M)["numBuckets"])
}

func (s *SearchQueryTestSuite) TestStringFacetRejectsBoundaries() {
	b := New(s.schema).Facet("country", WithBoundaries(1, 2))
	s.ErrorContains(b.Err(), `string facet on field "country" does not take boundaries`)

	b = New(s.schema).Facet("country", WithNumBuckets(0))
	s.ErrorContains(b.Err(), "numBuckets must be positive")
}

// number facets demand strictly ascending numeric boundaries.
func (s *SearchQueryTestSuite) TestNumberFacet() {
	b := New(s.schema).Facet("price.amount", WithBoundaries(0, 50, 100.5))
	facets := s.build(b)["facet"].(bson.M)["facets"].(bson.M)
	s.Equal(bson.M{
		"type":       "number",
		"path":       "price.amount",
		"boundaries": bson.A{0, 50, 100.5},
	}, facets["price.amount"])
}

func (s *SearchQueryTestSuite) TestNumberFacetValidation() {
	b := New(s.schema).Facet("age")
	s.ErrorContains(b.Err(), `number facet on field "age" requires at least two boundaries`)

	b = New(s.schema).Facet("age", WithBoundaries(18))
	s.ErrorContains(b.Err(), "requires at least two boundaries")

	b = New(s.schema).Facet("age", WithBoundaries(50, 18))
	s.ErrorContains(b.Err(), "boundaries must be strictly ascending")

	b = New(s.schema).Facet("age", WithBoundaries(18, 18))
	s.ErrorContains(b.Err(), "boundaries must be strictly ascending")

	b = New(s.schema).Facet("age", WithBoundaries(18, "thirty"))
	s.ErrorContains(b.Err(), "has boundary of type string")

	b = New(s.schema).Facet("age", WithNumBuckets(5))
	s.ErrorContains(b.Err(), `number facet on field "age" does not take numBuckets`)
}

func (s *SearchQueryTestSuite) TestDateFacet() {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	mid := start.AddDate(2, 0, 0)
	end := start.AddDate(4, 0, 0)

	b := New(s.schema).Facet("joinedAt", WithBoundaries(start, mid, end))
	facets := s.build(b)["facet"].(bson.M)["facets"].(bson.M)
	s.Equal(bson.A{start, mid, end}, facets["joinedAt"].(bson.M)["boundaries"])

	b = New(s.schema).Facet("joinedAt", WithBoundaries(start, 42))
	s.ErrorContains(b.Err(), "has boundary of type int")
}

func (s *SearchQueryTestSuite) TestFacetFieldValidation() {
	b := New(s.schema).Facet("username")
	var notConfigured domain.ErrFieldNotConfigured
	s.ErrorAs(b.Err(), &notConfigured)
	s.Equal("username", notConfigured.Field)
	s.Equal(domain.OperationFacet, notConfigured.Operation)

	b = New(s.schema).Facet("country").Facet("country")
	s.ErrorContains(b.Err(), `field "country" already holds a facet`)
}

// facet_all covers every facetable field with defaults.
func (s *SearchQueryTestSuite) TestFacetAll() {
	b := New(s.schema).FacetAll()
	facets := s.build(b)["facet"].(bson.M)["facets"].(bson.M)
	s.Len(facets, 4)
	s.Equal(bson.M{"type": "string", "path": "country", "numBuckets": 10}, facets["country"])
	s.Equal(bson.M{"type": "number", "path": "age"}, facets["age"])
	s.Equal(bson.M{"type": "number", "path": "price.amount"}, facets["price.amount"])
	s.Equal(bson.M{"type": "date", "path": "joinedAt"}, facets["joinedAt"])
}

// facet_all keeps facets that were already configured explicitly.
func (s *SearchQueryTestSuite) TestFacetAllKeepsExisting() {
	b := New(s.schema).
		Facet("age", WithBoundaries(18, 30, 50)).
		FacetAll()

	facets := s.build(b)["facet"].(bson.M)["facets"].(bson.M)
	s.Equal(bson.A{18, 30, 50}, facets["age"].(bson.M)["boundaries"])
	s.Contains(facets, "country")
}

// facet operator mode nests the operator next to the facet definitions.
func (s *SearchQueryTestSuite) TestUseFacetOperator() {
	g := search.NewGroup()
	g.Must().Text("john", "username")

	b := New(s.schema).
		UseFacetOperator(g).
		Facet("age", WithBoundaries(18, 30, 50))

	s.Equal(bson.M{
		"index": "default",
		"facet": bson.M{
			"operator": bson.M{
				"compound": bson.M{
					"must": bson.A{
						bson.M{"text": bson.M{"query": "john", "path": "username"}},
					},
				},
			},
			"facets": bson.M{
				"age": bson.M{
					"type":       "number",
					"path":       "age",
					"boundaries": bson.A{18, 30, 50},
				},
			},
		},
	}, s.build(b))
}

// a nil operator emits the facet composite without an operator.
func (s *SearchQueryTestSuite) TestFacetOperatorWithoutOperator() {
	b := New(s.schema).UseFacetOperator(nil).Facet("country")
	doc := s.build(b)
	facet := doc["facet"].(bson.M)
	s.NotContains(facet, "operator")
	s.Contains(facet, "facets")
}

func (s *SearchQueryTestSuite) TestFacetOperatorExclusions() {
	g := search.NewGroup()
	g.Must().Text("a", "username")

	b := New(s.schema).Text("john", "username").UseFacetOperator(g)
	s.ErrorContains(b.Err(), "cannot combine facet operator mode with query operators")

	b = New(s.schema).UseFacetOperator(g).Text("john", "username")
	s.ErrorContains(b.Err(), "cannot combine direct clauses with facet operator mode")

	b = New(s.schema).UseFacetOperator(g).UseFacetOperator(g)
	s.ErrorContains(b.Err(), "facet operator mode is already enabled")
}

func (s *SearchQueryTestSuite) TestCount() {
	b := New(s.schema).Text("john", "username").Count(domain.CountTotal)
	s.Equal(bson.M{"type": "total"}, s.build(b)["count"])

	b = New(s.schema).Count(domain.CountLowerBound, WithCountThreshold(500))
	s.Equal(bson.M{"type": "lowerBound", "threshold": 500}, s.build(b)["count"])

	b = New(s.schema).Count("approximate")
	s.ErrorContains(b.Err(), `count type must be "lowerBound" or "total"`)

	b = New(s.schema).Count(domain.CountTotal, WithCountThreshold(0))
	s.ErrorContains(b.Err(), "threshold must be positive")
}

// the documented compiler walkthrough, stage form included.
func (s *SearchQueryTestSuite) TestEndToEndStage() {
	stage, err := New(s.schema).
		Text("john", "username").
		Facet("age", WithBoundaries(18, 30, 50)).
		BuildStage()
	s.Require().NoError(err)

	s.Equal(bson.D{{Key: "$search", Value: bson.M{
		"index": "default",
		"text":  bson.M{"query": "john", "path": "username"},
		"facet": bson.M{
			"facets": bson.M{
				"age": bson.M{
					"type":       "number",
					"path":       "age",
					"boundaries": bson.A{18, 30, 50},
				},
			},
		},
	}}}, stage)
}

func (s *SearchQueryTestSuite) TestBuildMetaStage() {
	stage, err := New(s.schema).
		UseFacetOperator(nil).
		FacetAll().
		Count(domain.CountTotal).
		BuildMetaStage()
	s.Require().NoError(err)
	s.Equal("$searchMeta", stage[0].Key)

	doc := stage[0].Value.(bson.M)
	s.Contains(doc, "facet")
	s.Equal(bson.M{"type": "total"}, doc["count"])
}

// nested group errors surface when the query builds, even when the failed
// append left every bucket empty.
func (s *SearchQueryTestSuite) TestCompoundErrorSurfacesAtBuild() {
	g := search.NewGroup()
	g.Must().Range("price")
	s.Require().Error(g.Err())
	s.True(g.Empty())

	b := New(s.schema).Compound(g)
	_, err := b.Build()
	s.Equal(g.Err(), err)

	b = New(s.schema).UseFacetOperator(g)
	_, err = b.Build()
	s.Equal(g.Err(), err)
}

// a one-clause facet operator group keeps its compound wrapper.
func (s *SearchQueryTestSuite) TestFacetOperatorNeverCollapses() {
	g := search.NewGroup()
	g.Must().Phrase("loves coffee", "bio")

	b := New(s.schema).UseFacetOperator(g).Facet("country")
	facet := s.build(b)["facet"].(bson.M)
	s.Equal(bson.M{"compound": bson.M{
		"must": bson.A{
			bson.M{"phrase": bson.M{"query": "loves coffee", "path": "bio"}},
		},
	}}, facet["operator"])
}

// once an error is recorded the builder stops accepting calls.
func (s *SearchQueryTestSuite) TestStickyError() {
	b := New(s.schema).Text("", "username")
	first := b.Err()
	s.Error(first)

	b.Facet("country").Count(domain.CountTotal)
	s.Equal(first, b.Err())
	_, err := b.Build()
	s.Equal(first, err)
}

// repeated builds return equal but independent documents.
func (s *SearchQueryTestSuite) TestBuildIndependence() {
	b := New(s.schema).
		Text("john", "username").
		Facet("age", WithBoundaries(18, 30, 50))

	first := s.build(b)
	second := s.build(b)
	s.Equal(first, second)

	first["text"].(bson.M)["query"] = "jane"
	firstFacets := first["facet"].(bson.M)["facets"].(bson.M)
	firstFacets["age"].(bson.M)["boundaries"].(bson.A)[0] = 99

	s.Equal("john", second["text"].(bson.M)["query"])
	secondFacets := second["facet"].(bson.M)["facets"].(bson.M)
	s.Equal(18, secondFacets["age"].(bson.M)["boundaries"].(bson.A)[0])

	third := s.build(b)
	s.Equal(second, third)
}

func TestSearchQueryTestSuite(t *testing.T) {
	suite.Run(t, new(SearchQueryTestSuite))
}
