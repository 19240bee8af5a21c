package dataset

import "github.com/vvka-141/transitload/internal/coerce"

// EventColumns is the raw_events column order.
var EventColumns = []string{
	"event_id", "session_id", "mode", "event_type", "event_ts", "device_type", "os",
	"route_id", "vehicle_id", "from_station_id", "to_station_id",
	"latitude", "longitude", "speed_kmh", "dwell_seconds", "door_open",
	"passenger_delta", "load_factor", "validator_id", "inspector_id",
	"incident_code", "inspection_outcome", "city", "country", "province",
}

// Event is one vehicle or fare-gate telemetry event.
type Event struct {
	EventID           coerce.String `csv:"event_id"`
	SessionID         coerce.String `csv:"session_id"`
	Mode              coerce.String `csv:"mode"`
	EventType         coerce.String `csv:"event_type"`
	EventTS           coerce.Time   `csv:"event_ts"`
	DeviceType        coerce.String `csv:"device_type"`
	OS                coerce.String `csv:"os"`
	RouteID           coerce.String `csv:"route_id"`
	VehicleID         coerce.String `csv:"vehicle_id"`
	FromStationID     coerce.String `csv:"from_station_id"`
	ToStationID       coerce.String `csv:"to_station_id"`
	Latitude          coerce.Float  `csv:"latitude"`
	Longitude         coerce.Float  `csv:"longitude"`
	SpeedKMH          coerce.Float  `csv:"speed_kmh"`
	DwellSeconds      coerce.Int    `csv:"dwell_seconds"`
	DoorOpen          coerce.Bool   `csv:"door_open"`
	PassengerDelta    coerce.Int    `csv:"passenger_delta"`
	LoadFactor        coerce.Float  `csv:"load_factor"`
	ValidatorID       coerce.String `csv:"validator_id"`
	InspectorID       coerce.String `csv:"inspector_id"`
	IncidentCode      coerce.String `csv:"incident_code"`
	InspectionOutcome coerce.String `csv:"inspection_outcome"`
	City              coerce.String `csv:"city"`
	Country           coerce.String `csv:"country"`
	Province          coerce.String `csv:"province"`
}

// Values returns the row in EventColumns order, with int columns as int32.
func (e *Event) Values() []any {
	return []any{
		e.EventID.Value(), e.SessionID.Value(), e.Mode.Value(), e.EventType.Value(),
		e.EventTS.Value(), e.DeviceType.Value(), e.OS.Value(),
		e.RouteID.Value(), e.VehicleID.Value(), e.FromStationID.Value(), e.ToStationID.Value(),
		e.Latitude.Value(), e.Longitude.Value(), e.SpeedKMH.Value(), e.DwellSeconds.Int32Value(),
		e.DoorOpen.Value(), e.PassengerDelta.Int32Value(), e.LoadFactor.Value(),
		e.ValidatorID.Value(), e.InspectorID.Value(),
		e.IncidentCode.Value(), e.InspectionOutcome.Value(),
		e.City.Value(), e.Country.Value(), e.Province.Value(),
	}
}
