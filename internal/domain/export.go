package domain

// ExportRow is a single row in the bookings export.
// It is a flat, denormalized view: one row per booking with the trailer name
// resolved and the customer fields taken from the booking's own snapshot.
type ExportRow struct {
	BookingID       string
	TrailerName     string
	CustomerName    string
	CustomerPhone   string
	StartDate       string // "2006-01-02"
	EndDate         string // "2006-01-02"
	Days            int
	DeliveryAddress string
	DeliveryTime    string
	RentalRate      float64
	IceBagSize      string
	IceBagQty       int
	IcePricePerBag  float64
	RoundTripMiles  float64
	PricePerMile    float64
	PriceQuoted     float64
	Status          string
	Notes           string
}
