package dataset

import "github.com/vvka-141/transitload/internal/coerce"

// TripColumns is the public.raw_trips column order.
var TripColumns = []string{
	"trip_id", "rider_id", "route_id", "mode",
	"origin_station_id", "destination_station_id",
	"board_datetime", "alight_datetime",
	"country", "province", "fare_class", "payment_method",
	"transfers", "zones_charged", "distance_km",
	"base_fare_cad", "discount_rate", "discount_amount_cad",
	"yvr_addfare_cad", "total_fare_cad",
	"on_time_arrival", "service_disruption", "polyline_stations",
}

// Trip is one transit ride.
type Trip struct {
	TripID               coerce.String  `csv:"trip_id"`
	RiderID              coerce.String  `csv:"rider_id"`
	RouteID              coerce.String  `csv:"route_id"`
	Mode                 coerce.String  `csv:"mode"`
	OriginStationID      coerce.String  `csv:"origin_station_id"`
	DestinationStationID coerce.String  `csv:"destination_station_id"`
	BoardDatetime        coerce.Time    `csv:"board_datetime"`
	AlightDatetime       coerce.Time    `csv:"alight_datetime"`
	Country              coerce.String  `csv:"country"`
	Province             coerce.String  `csv:"province"`
	FareClass            coerce.String  `csv:"fare_class"`
	PaymentMethod        coerce.String  `csv:"payment_method"`
	Transfers            coerce.Int     `csv:"transfers"`
	ZonesCharged         coerce.Int     `csv:"zones_charged"`
	DistanceKM           coerce.Decimal `csv:"distance_km"`
	BaseFareCAD          coerce.Decimal `csv:"base_fare_cad"`
	DiscountRate         coerce.Decimal `csv:"discount_rate"`
	DiscountAmountCAD    coerce.Decimal `csv:"discount_amount_cad"`
	YVRAddFareCAD        coerce.Decimal `csv:"yvr_addfare_cad"`
	TotalFareCAD         coerce.Decimal `csv:"total_fare_cad"`
	OnTimeArrival        coerce.Bool    `csv:"on_time_arrival"`
	ServiceDisruption    coerce.Bool    `csv:"service_disruption"`
	PolylineStations     coerce.String  `csv:"polyline_stations"`
}

// Values returns the row in TripColumns order. Decimal columns are returned
// as their literal string; integer columns as int32.
func (t *Trip) Values() []any {
	return []any{
		t.TripID.Value(), t.RiderID.Value(), t.RouteID.Value(), t.Mode.Value(),
		t.OriginStationID.Value(), t.DestinationStationID.Value(),
		t.BoardDatetime.Value(), t.AlightDatetime.Value(),
		t.Country.Value(), t.Province.Value(), t.FareClass.Value(), t.PaymentMethod.Value(),
		t.Transfers.Int32Value(), t.ZonesCharged.Int32Value(), t.DistanceKM.Value(),
		t.BaseFareCAD.Value(), t.DiscountRate.Value(), t.DiscountAmountCAD.Value(),
		t.YVRAddFareCAD.Value(), t.TotalFareCAD.Value(),
		t.OnTimeArrival.Value(), t.ServiceDisruption.Value(), t.PolylineStations.Value(),
	}
}
