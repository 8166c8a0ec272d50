package handler

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/glirentals/rentals-admin/internal/domain"
)

// listResponse wraps every collection so the envelope can grow without
// breaking clients. Data is never null.
type listResponse[T any] struct {
	Data []T `json:"data"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type pagedResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination pagination `json:"pagination"`
}

// --- trailers ---------------------------------------------------------------

type trailerResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Identifier string    `json:"identifier"`
	Notes      string    `json:"notes"`
	Active     bool      `json:"active"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type trailerRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Category   string `json:"category" validate:"max=50"`
	Identifier string `json:"identifier" validate:"max=100"`
	Notes      string `json:"notes"`
	Active     *bool  `json:"active"`
}

type trailerPatchRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=100"`
	Category   *string `json:"category" validate:"omitempty,max=50"`
	Identifier *string `json:"identifier" validate:"omitempty,max=100"`
	Notes      *string `json:"notes"`
	Active     *bool   `json:"active"`
}

type reorderRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type trailerStatusResponse struct {
	Trailer trailerResponse  `json:"trailer"`
	Rented  bool             `json:"rented"`
	Booking *bookingResponse `json:"booking"`
}

type trailerBookingsResponse struct {
	Trailer trailerResponse   `json:"trailer"`
	Past    []bookingResponse `json:"past"`
	Current []bookingResponse `json:"current"`
	Future  []bookingResponse `json:"future"`
}

type trailerAvailabilityResponse struct {
	TrailerID uuid.UUID          `json:"trailer_id"`
	Start     openapi_types.Date `json:"start"`
	End       openapi_types.Date `json:"end"`
	Available bool               `json:"available"`
	Conflicts []bookingResponse  `json:"conflicts"`
}

func toTrailerResponse(t domain.Trailer) trailerResponse {
	return trailerResponse{
		ID:         t.ID,
		Name:       t.Name,
		Category:   t.Category,
		Identifier: t.Identifier,
		Notes:      t.Notes,
		Active:     t.Active,
		SortOrder:  t.SortOrder,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func toTrailerResponses(ts []domain.Trailer) []trailerResponse {
	out := make([]trailerResponse, len(ts))
	for i, t := range ts {
		out[i] = toTrailerResponse(t)
	}
	return out
}

func (req trailerRequest) toDomain() domain.Trailer {
	t := domain.Trailer{
		Name:       req.Name,
		Category:   req.Category,
		Identifier: req.Identifier,
		Notes:      req.Notes,
		Active:     true,
	}
	if req.Active != nil {
		t.Active = *req.Active
	}
	return t
}

func (req trailerPatchRequest) toDomain() domain.TrailerPatch {
	return domain.TrailerPatch{
		Name:       req.Name,
		Category:   req.Category,
		Identifier: req.Identifier,
		Notes:      req.Notes,
		Active:     req.Active,
	}
}

// --- customers --------------------------------------------------------------

type customerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type customerRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type customerPatchRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

func toCustomerResponse(c domain.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCustomerResponses(cs []domain.Customer) []customerResponse {
	out := make([]customerResponse, len(cs))
	for i, c := range cs {
		out[i] = toCustomerResponse(c)
	}
	return out
}

func (req customerRequest) toDomain() domain.Customer {
	return domain.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Notes:   req.Notes,
	}
}

func (req customerPatchRequest) toDomain() domain.CustomerPatch {
	return domain.CustomerPatch{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Notes:   req.Notes,
	}
}

// --- bookings ---------------------------------------------------------------

type bookingResponse struct {
	ID              uuid.UUID          `json:"id"`
	TrailerID       uuid.UUID          `json:"trailer_id"`
	CustomerID      *uuid.UUID         `json:"customer_id"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	StartDate       openapi_types.Date `json:"start_date"`
	EndDate         openapi_types.Date `json:"end_date"`
	Days            int                `json:"days"`
	DeliveryAddress string             `json:"delivery_address"`
	DeliveryTime    string             `json:"delivery_time"`
	RentalRate      float64            `json:"rental_rate"`
	IceBagSize      string             `json:"ice_bag_size"`
	IceBagQty       int                `json:"ice_bag_qty"`
	IcePricePerBag  float64            `json:"ice_price_per_bag"`
	RoundTripMiles  float64            `json:"round_trip_miles"`
	PricePerMile    float64            `json:"price_per_mile"`
	PriceQuoted     float64            `json:"price_quoted"`
	Notes           string             `json:"notes"`
	Status          string             `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type bookingRequest struct {
	TrailerID       uuid.UUID          `json:"trailer_id" validate:"required"`
	CustomerID      *uuid.UUID         `json:"customer_id"`
	CustomerName    string             `json:"customer_name" validate:"required,max=200"`
	CustomerPhone   string             `json:"customer_phone" validate:"max=50"`
	StartDate       openapi_types.Date `json:"start_date" validate:"required"`
	EndDate         openapi_types.Date `json:"end_date" validate:"required"`
	DeliveryAddress string             `json:"delivery_address"`
	DeliveryTime    string             `json:"delivery_time"`
	RentalRate      float64            `json:"rental_rate" validate:"gte=0"`
	IceBagSize      string             `json:"ice_bag_size" validate:"omitempty,oneof=20lb 7lb"`
	IceBagQty       int                `json:"ice_bag_qty" validate:"gte=0"`
	IcePricePerBag  *float64           `json:"ice_price_per_bag" validate:"omitempty,gte=0"`
	RoundTripMiles  float64            `json:"round_trip_miles" validate:"gte=0"`
	PricePerMile    *float64           `json:"price_per_mile" validate:"omitempty,gte=0"`
	Notes           string             `json:"notes"`
	Status          string             `json:"status" validate:"omitempty,oneof=confirmed tentative completed"`
	WalkIn          bool               `json:"walk_in"`
}

type bookingPatchRequest struct {
	TrailerID       *uuid.UUID          `json:"trailer_id"`
	CustomerID      *uuid.UUID          `json:"customer_id"`
	CustomerName    *string             `json:"customer_name" validate:"omitempty,max=200"`
	CustomerPhone   *string             `json:"customer_phone" validate:"omitempty,max=50"`
	StartDate       *openapi_types.Date `json:"start_date"`
	EndDate         *openapi_types.Date `json:"end_date"`
	DeliveryAddress *string             `json:"delivery_address"`
	DeliveryTime    *string             `json:"delivery_time"`
	RentalRate      *float64            `json:"rental_rate" validate:"omitempty,gte=0"`
	IceBagSize      *string             `json:"ice_bag_size" validate:"omitempty,oneof=20lb 7lb"`
	IceBagQty       *int                `json:"ice_bag_qty" validate:"omitempty,gte=0"`
	IcePricePerBag  *float64            `json:"ice_price_per_bag" validate:"omitempty,gte=0"`
	RoundTripMiles  *float64            `json:"round_trip_miles" validate:"omitempty,gte=0"`
	PricePerMile    *float64            `json:"price_per_mile" validate:"omitempty,gte=0"`
	Notes           *string             `json:"notes"`
	Status          *string             `json:"status" validate:"omitempty,oneof=confirmed tentative completed"`
}

type quoteRequest struct {
	RentalRate     float64  `json:"rental_rate" validate:"gte=0"`
	IceBagQty      int      `json:"ice_bag_qty" validate:"gte=0"`
	IcePricePerBag *float64 `json:"ice_price_per_bag" validate:"omitempty,gte=0"`
	RoundTripMiles float64  `json:"round_trip_miles" validate:"gte=0"`
	PricePerMile   *float64 `json:"price_per_mile" validate:"omitempty,gte=0"`
}

type quoteResponse struct {
	RentalRate    float64 `json:"rental_rate"`
	IceTotal      float64 `json:"ice_total"`
	BillableMiles float64 `json:"billable_miles"`
	MileageTotal  float64 `json:"mileage_total"`
	Total         float64 `json:"total"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		TrailerID:       b.TrailerID,
		CustomerID:      b.CustomerID,
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		StartDate:       openapi_types.Date{Time: b.StartDate},
		EndDate:         openapi_types.Date{Time: b.EndDate},
		Days:            b.Days(),
		DeliveryAddress: b.DeliveryAddress,
		DeliveryTime:    b.DeliveryTime,
		RentalRate:      b.Pricing.RentalRate,
		IceBagSize:      b.Pricing.IceBagSize,
		IceBagQty:       b.Pricing.IceBagQty,
		IcePricePerBag:  b.Pricing.IcePricePerBag,
		RoundTripMiles:  b.Pricing.RoundTripMiles,
		PricePerMile:    b.Pricing.PricePerMile,
		PriceQuoted:     b.PriceQuoted,
		Notes:           b.Notes,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBookingResponses(bs []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, len(bs))
	for i, b := range bs {
		out[i] = toBookingResponse(b)
	}
	return out
}

func (req bookingRequest) toDomain() (domain.Booking, *float64, *float64) {
	b := domain.Booking{
		TrailerID:       req.TrailerID,
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		StartDate:       req.StartDate.Time,
		EndDate:         req.EndDate.Time,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryTime:    req.DeliveryTime,
		Pricing: domain.Pricing{
			RentalRate:     req.RentalRate,
			IceBagSize:     req.IceBagSize,
			IceBagQty:      req.IceBagQty,
			RoundTripMiles: req.RoundTripMiles,
		},
		Notes:  req.Notes,
		Status: domain.BookingStatus(req.Status),
	}
	return b, req.PricePerMile, req.IcePricePerBag
}

func (req bookingPatchRequest) toDomain() domain.BookingPatch {
	p := domain.BookingPatch{
		TrailerID:       req.TrailerID,
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryTime:    req.DeliveryTime,
		RentalRate:      req.RentalRate,
		IceBagSize:      req.IceBagSize,
		IceBagQty:       req.IceBagQty,
		IcePricePerBag:  req.IcePricePerBag,
		RoundTripMiles:  req.RoundTripMiles,
		PricePerMile:    req.PricePerMile,
		Notes:           req.Notes,
	}
	if req.StartDate != nil {
		p.StartDate = &req.StartDate.Time
	}
	if req.EndDate != nil {
		p.EndDate = &req.EndDate.Time
	}
	if req.Status != nil {
		st := domain.BookingStatus(*req.Status)
		p.Status = &st
	}
	return p
}

func toQuoteResponse(q domain.Quote) quoteResponse {
	return quoteResponse{
		RentalRate:    q.RentalRate,
		IceTotal:      q.IceTotal,
		BillableMiles: q.BillableMiles,
		MileageTotal:  q.MileageTotal,
		Total:         q.Total,
	}
}
