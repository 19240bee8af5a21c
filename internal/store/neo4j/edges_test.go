package neo4j

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/transitload/internal/coerce"
	"github.com/vvka-141/transitload/internal/dataset"
	"github.com/vvka-141/transitload/internal/logging"
	"github.com/vvka-141/transitload/pkg/transitload"
)

type runCall struct {
	cypher string
	params map[string]any
}

type fakeRunner struct {
	calls  []runCall
	failOn string
}

func (f *fakeRunner) Run(_ context.Context, cypher string, params map[string]any) error {
	f.calls = append(f.calls, runCall{cypher, params})
	if f.failOn != "" && strings.Contains(cypher, f.failOn) {
		return errors.New("Neo.ClientError.Statement.SemanticError")
	}
	return nil
}

func str(s string) coerce.String { return coerce.String{V: s, Valid: true} }

func edge(id, fromType, toType, rel string) dataset.Edge {
	return dataset.Edge{
		EdgeID:       str(id),
		FromNodeID:   str("f-" + id),
		FromNodeType: str(fromType),
		ToNodeID:     str("t-" + id),
		ToNodeType:   str(toType),
		Relationship: str(rel),
	}
}

func TestMergeCypher(t *testing.T) {
	c := mergeCypher(groupKey{from: "Rider", to: "Trip", rel: "TOOK"})
	assert.True(t, strings.HasPrefix(c, "UNWIND $rows AS row\n"))
	assert.Contains(t, c, "MERGE (a:`Rider` {id: row.from_id})")
	assert.Contains(t, c, "MERGE (b:`Trip` {id: row.to_id})")
	assert.Contains(t, c, "MERGE (a)-[r:`TOOK` {edge_id: row.edge_id}]->(b)")
	assert.Contains(t, c, "r.timestamp = coalesce(row.timestamp, datetime())")
	assert.Contains(t, c, "r.citation_issued = row.citation_issued")
	assert.True(t, strings.HasSuffix(c, "ON MATCH SET\n  r.timestamp = coalesce(r.timestamp, row.timestamp)"))
}

func TestEdgeLoader_ConstraintsAndGroups(t *testing.T) {
	edges := []dataset.Edge{
		edge("1", "Trip", "Station", "ENDS_AT"),
		edge("2", "Rider", "Trip", "TOOK"),
		edge("3", "Rider", "Trip", "TOOK"),
		edge("4", "rider type", "Trip", "took-it"),
		{EdgeID: str("5"), FromNodeID: str("x"), ToNodeID: str("y")},
	}
	r := &fakeRunner{}
	logger := logging.NewRecordingLogger()

	n, err := NewEdgeLoader(500, logger).Load(context.Background(), r, edges)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	var constraints, merges []runCall
	for _, c := range r.calls {
		if strings.HasPrefix(c.cypher, "CREATE CONSTRAINT") {
			constraints = append(constraints, c)
		} else {
			merges = append(merges, c)
		}
	}

	require.Len(t, constraints, 5)
	assert.Equal(t, constraintCypher("Node"), constraints[0].cypher)
	assert.Equal(t, constraintCypher("Rider"), constraints[1].cypher)
	assert.Equal(t, constraintCypher("Station"), constraints[2].cypher)
	assert.Equal(t, constraintCypher("Trip"), constraints[3].cypher)
	assert.Equal(t, constraintCypher("rider_type"), constraints[4].cypher)

	require.Len(t, merges, 4)
	assert.Contains(t, merges[0].cypher, "(a:`Node`")
	assert.Contains(t, merges[0].cypher, "[r:`Node`")
	assert.Contains(t, merges[1].cypher, "[r:`TOOK`")
	assert.Len(t, merges[1].params["rows"], 2)
	assert.Contains(t, merges[2].cypher, "(a:`Trip`")
	assert.Contains(t, merges[3].cypher, "[r:`took_it`")

	lines := logger.Lines()
	assert.Equal(t, "Loaded 3 edges … (Rider)-[:TOOK]->(Trip)", lines[1])
	assert.Equal(t, "Loaded 5 edges … (rider_type)-[:took_it]->(Trip)", lines[3])
}

func TestEdgeLoader_Batches(t *testing.T) {
	edges := make([]dataset.Edge, 7)
	for i := range edges {
		edges[i] = edge(string(rune('a'+i)), "Rider", "Trip", "TOOK")
	}
	r := &fakeRunner{}
	logger := logging.NewRecordingLogger()

	n, err := NewEdgeLoader(3, logger).Load(context.Background(), r, edges)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	require.Len(t, r.calls, 2+3)
	assert.Len(t, r.calls[2].params["rows"], 3)
	assert.Len(t, r.calls[3].params["rows"], 3)
	assert.Len(t, r.calls[4].params["rows"], 1)

	rows := r.calls[2].params["rows"].([]any)
	first := rows[0].(map[string]any)
	assert.Equal(t, "f-a", first["from_id"])
	assert.Equal(t, "t-a", first["to_id"])
	assert.Equal(t, []string{"Loaded 3 edges … (Rider)-[:TOOK]->(Trip)", "Loaded 6 edges … (Rider)-[:TOOK]->(Trip)", "Loaded 7 edges … (Rider)-[:TOOK]->(Trip)"}, logger.Lines())
}

func TestEdgeLoader_MergeFailure(t *testing.T) {
	edges := []dataset.Edge{edge("1", "Rider", "Trip", "TOOK"), edge("2", "Trip", "Station", "ENDS_AT")}
	r := &fakeRunner{failOn: "ENDS_AT"}

	n, err := NewEdgeLoader(500, logging.NewNullLogger()).Load(context.Background(), r, edges)
	require.Error(t, err)
	assert.ErrorIs(t, err, transitload.ErrLoadFailed)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "(Trip)-[:ENDS_AT]->(Station)")
}

func TestNewEdgeLoader_DefaultBatch(t *testing.T) {
	assert.Equal(t, transitload.DefaultBatchSize, NewEdgeLoader(0, nil).batchSize)
}
