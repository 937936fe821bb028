package deepclone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
)

type DeepcloneTestSuite struct {
	suite.Suite
}

// mutating a clone should never reach the original.
func (s *DeepcloneTestSuite) TestNestedMapIndependence() {
	original := bson.M{
		"query": bson.M{"path": "title", "fuzzy": bson.M{"maxEdits": 2}},
		"tags":  bson.A{"a", "b"},
	}

	clone := M(original)
	s.Equal(original, clone)

	clone["query"].(bson.M)["path"] = "body"
	clone["query"].(bson.M)["fuzzy"].(bson.M)["maxEdits"] = 1
	clone["tags"] = append(clone["tags"].(bson.A), "c")

	s.Equal("title", original["query"].(bson.M)["path"])
	s.Equal(2, original["query"].(bson.M)["fuzzy"].(bson.M)["maxEdits"])
	s.Len(original["tags"], 2)
}

// ordered documents should keep their order and clone their values.
func (s *DeepcloneTestSuite) TestOrderedDocument() {
	original := bson.D{
		{Key: "$match", Value: bson.M{"status": "ok"}},
		{Key: "$limit", Value: int64(5)},
	}

	clone := D(original)
	s.Equal(original, clone)

	clone[0].Value.(bson.M)["status"] = "failed"
	s.Equal("ok", original[0].Value.(bson.M)["status"])
}

func (s *DeepcloneTestSuite) TestScalarsPassThrough() {
	now := time.Now()
	for _, v := range []any{nil, 12, "hey", 5.7, true, now} {
		s.Equal(v, Value(v))
	}
}

func (s *DeepcloneTestSuite) TestNilContainersStayNil() {
	s.Nil(Value((bson.M)(nil)))
	s.Nil(Value((bson.A)(nil)))
	s.Nil(Value(([]string)(nil)))
}

// types outside the fast paths should still clone deeply.
func (s *DeepcloneTestSuite) TestReflectFallback() {
	original := map[string][]int{"a": {1, 2}, "b": nil}

	clone := Value(original).(map[string][]int)
	s.Equal(original, clone)

	clone["a"][0] = 99
	s.Equal(1, original["a"][0])
	s.Nil(clone["b"])
}

func (s *DeepcloneTestSuite) TestSliceOfDocuments() {
	original := []bson.M{{"a": bson.A{1}}, {"b": 2}}

	clone := Value(original).([]bson.M)
	s.Equal(original, clone)

	clone[0]["a"].(bson.A)[0] = 99
	s.Equal(1, original[0]["a"].(bson.A)[0])
}

func TestDeepcloneTestSuite(t *testing.T) {
	suite.Run(t, new(DeepcloneTestSuite))
}
