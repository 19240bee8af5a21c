package dataset

import (
	"strings"

	"github.com/vvka-141/transitload/internal/coerce"
	"github.com/vvka-141/transitload/pkg/transitload"
)

// EdgeColumns is the graph edge CSV header.
var EdgeColumns = []string{
	"edge_id", "from_node_id", "from_node_type", "to_node_id", "to_node_type", "relationship",
	"timestamp", "trip_id", "rider_id", "route_id", "station_id", "mode", "rider_segment",
	"edge_strength", "fare_bucket", "region", "province", "city", "promotion", "same_household",
	"prior_interactions", "dwell_seconds", "distance_bucket", "total_fare_cad", "citation_issued",
}

// Edge is one relationship between two typed entities.
type Edge struct {
	EdgeID            coerce.String `csv:"edge_id"`
	FromNodeID        coerce.String `csv:"from_node_id"`
	FromNodeType      coerce.String `csv:"from_node_type"`
	ToNodeID          coerce.String `csv:"to_node_id"`
	ToNodeType        coerce.String `csv:"to_node_type"`
	Relationship      coerce.String `csv:"relationship"`
	Timestamp         coerce.Time   `csv:"timestamp"`
	TripID            coerce.String `csv:"trip_id"`
	RiderID           coerce.String `csv:"rider_id"`
	RouteID           coerce.String `csv:"route_id"`
	StationID         coerce.String `csv:"station_id"`
	Mode              coerce.String `csv:"mode"`
	RiderSegment      coerce.String `csv:"rider_segment"`
	EdgeStrength      coerce.Float  `csv:"edge_strength"`
	FareBucket        coerce.String `csv:"fare_bucket"`
	Region            coerce.String `csv:"region"`
	Province          coerce.String `csv:"province"`
	City              coerce.String `csv:"city"`
	Promotion         coerce.String `csv:"promotion"`
	SameHousehold     coerce.Bool   `csv:"same_household"`
	PriorInteractions coerce.Int    `csv:"prior_interactions"`
	DwellSeconds      coerce.Int    `csv:"dwell_seconds"`
	DistanceBucket    coerce.String `csv:"distance_bucket"`
	TotalFareCAD      coerce.Float  `csv:"total_fare_cad"`
	CitationIssued    coerce.Bool   `csv:"citation_issued"`
}

// FromLabel is the sanitized label of the source node.
func (e *Edge) FromLabel() string { return sanitizeField(e.FromNodeType) }

// ToLabel is the sanitized label of the target node.
func (e *Edge) ToLabel() string { return sanitizeField(e.ToNodeType) }

// RelType is the sanitized relationship type.
func (e *Edge) RelType() string { return sanitizeField(e.Relationship) }

func sanitizeField(s coerce.String) string {
	if !s.Valid {
		return transitload.DefaultLabel
	}
	return SanitizeLabel(s.V)
}

// Params returns the per-row map consumed by the UNWIND merge. Node ids are
// keyed from_id/to_id; every other key matches its CSV column.
func (e *Edge) Params() map[string]any {
	return map[string]any{
		"edge_id":            e.EdgeID.Value(),
		"from_id":            e.FromNodeID.Value(),
		"to_id":              e.ToNodeID.Value(),
		"timestamp":          e.Timestamp.Value(),
		"trip_id":            e.TripID.Value(),
		"rider_id":           e.RiderID.Value(),
		"route_id":           e.RouteID.Value(),
		"station_id":         e.StationID.Value(),
		"mode":               e.Mode.Value(),
		"rider_segment":      e.RiderSegment.Value(),
		"edge_strength":      e.EdgeStrength.Value(),
		"fare_bucket":        e.FareBucket.Value(),
		"region":             e.Region.Value(),
		"province":           e.Province.Value(),
		"city":               e.City.Value(),
		"promotion":          e.Promotion.Value(),
		"same_household":     e.SameHousehold.Value(),
		"prior_interactions": e.PriorInteractions.Value(),
		"dwell_seconds":      e.DwellSeconds.Value(),
		"distance_bucket":    e.DistanceBucket.Value(),
		"total_fare_cad":     e.TotalFareCAD.Value(),
		"citation_issued":    e.CitationIssued.Value(),
	}
}

// SanitizeLabel makes s safe to splice into Cypher as a label or
// relationship type: surrounding whitespace is trimmed and every character
// outside [A-Za-z0-9_] becomes '_'. Empty input maps to
// transitload.DefaultLabel.
func SanitizeLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return transitload.DefaultLabel
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
