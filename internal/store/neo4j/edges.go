package neo4j

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vvka-141/transitload/internal/dataset"
	"github.com/vvka-141/transitload/pkg/transitload"
)

// onCreateProps are copied from the row onto a new relationship. timestamp
// is set separately.
var onCreateProps = []string{
	"trip_id", "rider_id", "route_id", "station_id", "mode", "rider_segment",
	"edge_strength", "fare_bucket", "region", "province", "city", "promotion",
	"same_household", "prior_interactions", "dwell_seconds", "distance_bucket",
	"total_fare_cad", "citation_issued",
}

type groupKey struct {
	from, to, rel string
}

func (k groupKey) String() string {
	return fmt.Sprintf("(%s)-[:%s]->(%s)", k.from, k.rel, k.to)
}

// mergeCypher builds the UNWIND statement for one group. Labels and the
// relationship type must already be sanitized.
func mergeCypher(k groupKey) string {
	var b strings.Builder
	b.WriteString("UNWIND $rows AS row\n")
	fmt.Fprintf(&b, "MERGE (a:`%s` {id: row.from_id})\n", k.from)
	fmt.Fprintf(&b, "MERGE (b:`%s` {id: row.to_id})\n", k.to)
	fmt.Fprintf(&b, "MERGE (a)-[r:`%s` {edge_id: row.edge_id}]->(b)\n", k.rel)
	b.WriteString("ON CREATE SET\n  r.timestamp = coalesce(row.timestamp, datetime())")
	for _, p := range onCreateProps {
		fmt.Fprintf(&b, ",\n  r.%s = row.%s", p, p)
	}
	b.WriteString("\nON MATCH SET\n  r.timestamp = coalesce(r.timestamp, row.timestamp)")
	return b.String()
}

func constraintCypher(label string) string {
	return fmt.Sprintf("CREATE CONSTRAINT IF NOT EXISTS FOR (n:`%s`) REQUIRE n.id IS UNIQUE", label)
}

// EdgeLoader merges edges in batches of at most batchSize rows.
type EdgeLoader struct {
	batchSize int
	logger    transitload.Logger
}

func NewEdgeLoader(batchSize int, logger transitload.Logger) *EdgeLoader {
	if batchSize < 1 {
		batchSize = transitload.DefaultBatchSize
	}
	return &EdgeLoader{batchSize: batchSize, logger: logger}
}

// Load ensures an id uniqueness constraint per node label, then merges the
// edges group by group in sorted (from, to, relationship) order.
func (l *EdgeLoader) Load(ctx context.Context, r Runner, edges []dataset.Edge) (int, error) {
	labelSet := make(map[string]struct{})
	groups := make(map[groupKey][]map[string]any)
	for i := range edges {
		e := &edges[i]
		k := groupKey{from: e.FromLabel(), to: e.ToLabel(), rel: e.RelType()}
		labelSet[k.from] = struct{}{}
		labelSet[k.to] = struct{}{}
		groups[k] = append(groups[k], e.Params())
	}

	labels := make([]string, 0, len(labelSet))
	for lbl := range labelSet {
		labels = append(labels, lbl)
	}
	slices.Sort(labels)
	for _, lbl := range labels {
		if err := r.Run(ctx, constraintCypher(lbl), nil); err != nil {
			return 0, fmt.Errorf("%w: constraint on %s: %w", transitload.ErrLoadFailed, lbl, err)
		}
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b groupKey) int {
		return cmp.Or(cmp.Compare(a.from, b.from), cmp.Compare(a.to, b.to), cmp.Compare(a.rel, b.rel))
	})

	total := 0
	for _, k := range keys {
		cypher := mergeCypher(k)
		for batch := range slices.Chunk(groups[k], l.batchSize) {
			rows := make([]any, len(batch))
			for i, row := range batch {
				rows[i] = row
			}
			if err := r.Run(ctx, cypher, map[string]any{"rows": rows}); err != nil {
				return total, fmt.Errorf("%w: merge %s: %w", transitload.ErrLoadFailed, k, err)
			}
			total += len(batch)
			l.logger.Info("Loaded %d edges … %s", total, k)
		}
	}
	return total, nil
}
