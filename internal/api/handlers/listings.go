package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/selhaddad/sakanalert/internal/store"
	domain "github.com/selhaddad/sakanalert/pkg/types"
)

// ListingsHandler handles listing ingestion and query endpoints.
type ListingsHandler struct {
	store store.Store
}

// NewListingsHandler creates a new ListingsHandler.
func NewListingsHandler(s store.Store) *ListingsHandler {
	return &ListingsHandler{store: s}
}

// --- Input/Output types ---

// ListListingsInput is the input for listing listings with optional filters.
type ListListingsInput struct {
	City     string  `query:"city"      doc:"Filter by city (case-insensitive exact match)"`
	Status   string  `query:"status"    doc:"Filter by transaction type"     enum:"for_sale,for_rent,"`
	Type     string  `query:"type"      doc:"Filter by property type"        enum:"apartment,house,land,commercial,"`
	PriceMin float64 `query:"price_min" doc:"Minimum price"                  minimum:"0"`
	PriceMax float64 `query:"price_max" doc:"Maximum price"                  minimum:"0"`
	Limit    int     `query:"limit"     doc:"Number of results (default 50)" minimum:"1" maximum:"500"`
	Offset   int     `query:"offset"    doc:"Pagination offset"              minimum:"0"`
}

// ListListingsOutput is the response for listing listings.
type ListListingsOutput struct {
	Body struct {
		Listings []domain.Listing `json:"listings"`
		Total    int              `json:"total"`
		Limit    int              `json:"limit"`
		Offset   int              `json:"offset"`
	}
}

// GetListingInput is the input for getting a single listing.
type GetListingInput struct {
	ID string `path:"id" doc:"Listing UUID"`
}

// GetListingOutput is the response for getting a single listing.
type GetListingOutput struct {
	Body domain.Listing
}

// CreateListingInput is the input for ingesting one listing.
type CreateListingInput struct {
	Body struct {
		SourceRef string   `json:"source_ref" doc:"Upstream identifier, unique per listing" minLength:"1"`
		Title     string   `json:"title"      doc:"Listing title"                           minLength:"1"`
		Price     float64  `json:"price"      doc:"Asking price"                            minimum:"0"`
		Bedrooms  *int     `json:"bedrooms,omitempty"  doc:"Bedroom count, omitted when unknown"`
		Bathrooms *int     `json:"bathrooms,omitempty" doc:"Bathroom count, omitted when unknown"`
		Area      *float64 `json:"area,omitempty"      doc:"Surface area in square meters, omitted when unknown"`
		City      string   `json:"city"               doc:"City name" minLength:"1"`
		District  string   `json:"district,omitempty" doc:"District or neighborhood"`
		Address   string   `json:"address,omitempty"  doc:"Street address"`
		Status    string   `json:"status"   doc:"Transaction type" enum:"for_sale,for_rent"`
		Type      string   `json:"type"     doc:"Property type"    enum:"apartment,house,land,commercial"`
	}
}

// CreateListingOutput is the response for ingesting one listing.
type CreateListingOutput struct {
	Body domain.Listing
}

// --- Handlers ---

// ListListings returns listings with optional filters for city, transaction
// type, property type, price range, and pagination.
func (h *ListingsHandler) ListListings(
	ctx context.Context,
	input *ListListingsInput,
) (*ListListingsOutput, error) {
	q := &store.ListingQuery{
		Offset: input.Offset,
	}

	if input.City != "" {
		q.City = &input.City
	}

	if input.Status != "" {
		q.Status = &input.Status
	}

	if input.Type != "" {
		q.Type = &input.Type
	}

	if input.PriceMin != 0 {
		q.PriceMin = &input.PriceMin
	}

	if input.PriceMax != 0 {
		q.PriceMax = &input.PriceMax
	}

	if input.Limit != 0 {
		q.Limit = input.Limit
	}

	listings, total, err := h.store.ListListings(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing query failed: " + err.Error())
	}

	resp := &ListListingsOutput{}
	resp.Body.Listings = listings
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset

	return resp, nil
}

// GetListing returns a single listing by ID.
func (h *ListingsHandler) GetListing(
	ctx context.Context,
	input *GetListingInput,
) (*GetListingOutput, error) {
	listing, err := h.store.GetListing(ctx, input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("listing not found")
	}

	return &GetListingOutput{Body: *listing}, nil
}

// CreateListing ingests one listing. Listings are immutable: re-posting an
// existing source_ref returns the stored row unchanged.
func (h *ListingsHandler) CreateListing(
	ctx context.Context,
	input *CreateListingInput,
) (*CreateListingOutput, error) {
	l := &domain.Listing{
		SourceRef: input.Body.SourceRef,
		Title:     input.Body.Title,
		Price:     input.Body.Price,
		Bedrooms:  input.Body.Bedrooms,
		Bathrooms: input.Body.Bathrooms,
		Area:      input.Body.Area,
		City:      input.Body.City,
		District:  input.Body.District,
		Address:   input.Body.Address,
		Status:    domain.ListingStatus(input.Body.Status),
		Type:      domain.PropertyType(input.Body.Type),
	}

	if err := h.store.UpsertListing(ctx, l); err != nil {
		return nil, huma.Error500InternalServerError("ingesting listing: " + err.Error())
	}

	return &CreateListingOutput{Body: *l}, nil
}

// RegisterListingRoutes registers listing endpoints with the Huma API.
func RegisterListingRoutes(api huma.API, h *ListingsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings",
		Summary:     "List listings",
		Description: "Returns listings with optional filters for city, transaction type, property type, price range, and pagination.",
		Tags:        []string{"listings"},
	}, h.ListListings)

	huma.Register(api, huma.Operation{
		OperationID: "get-listing",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings/{id}",
		Summary:     "Get a listing by ID",
		Description: "Returns a single listing by its UUID.",
		Tags:        []string{"listings"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetListing)

	huma.Register(api, huma.Operation{
		OperationID:   "create-listing",
		Method:        http.MethodPost,
		Path:          "/api/v1/listings",
		Summary:       "Ingest a listing",
		Description:   "Ingests one listing. Re-posting an existing source_ref returns the stored row unchanged.",
		Tags:          []string{"listings"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusInternalServerError},
	}, h.CreateListing)
}
