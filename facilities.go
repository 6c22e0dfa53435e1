package leadscout

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Facility is one place record returned by the search proxy.
type Facility struct {
	ID                       int       `json:"id"`
	Name                     string    `json:"name"`
	ContactNumber            string    `json:"contact_number,omitempty"`
	WhatsappNumber           string    `json:"whatsapp_number,omitempty"`
	Email                    string    `json:"email,omitempty"`
	EstablishedYear          string    `json:"established_year,omitempty"`
	Location                 string    `json:"location,omitempty"`
	Address                  string    `json:"address,omitempty"`
	GoogleRating             float64   `json:"google_rating"`
	InstagramID              string    `json:"instagram_id,omitempty"`
	Linkedin                 string    `json:"linkedin,omitempty"`
	Website                  string    `json:"website,omitempty"`
	PlaceID                  string    `json:"place_id,omitempty"`
	FormattedAddress         string    `json:"formatted_address,omitempty"`
	InternationalPhoneNumber string    `json:"international_phone_number,omitempty"`
	FormattedPhoneNumber     string    `json:"formatted_phone_number,omitempty"`
	URL                      string    `json:"url,omitempty"`
	UserRatingsTotal         int       `json:"user_ratings_total"`
	PriceLevel               int       `json:"price_level"`
	BusinessStatus           string    `json:"business_status,omitempty"`
	CreatedAt                time.Time `json:"created_at"`
}

// FacilitySearchRequest is the payload for the places-proxy search.
type FacilitySearchRequest struct {
	APIKey           string `json:"api_key"`
	Country          string `json:"country"`
	State            string `json:"state,omitempty"`
	City             string `json:"city"`
	PlaceType        string `json:"place_type"`
	FacilityCategory string `json:"facility_category,omitempty"`
	MaxResults       int    `json:"max_results"`
}

// FacilitySearchResult is the proxy's response.
type FacilitySearchResult struct {
	Facilities   []Facility     `json:"facilities"`
	TotalFound   int            `json:"total_found"`
	SearchQuery  map[string]any `json:"search_query"`
	Timestamp    string         `json:"timestamp"`
	Success      bool           `json:"success"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// SearchRecord is one entry in the user's search history.
type SearchRecord struct {
	ID           int       `json:"id"`
	PlaceType    string    `json:"place_type"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	MaxResults   int       `json:"max_results"`
	ResultsCount int       `json:"results_count"`
	SearchQuery  string    `json:"search_query"`
	CreatedAt    time.Time `json:"created_at"`
}

// FacilitiesService covers the places search proxy and search history.
type FacilitiesService struct {
	client *Client
}

// Search runs a facility search. The proxy fans out to a third-party places
// API, so this call carries the client's longer search timeout.
func (s *FacilitiesService) Search(ctx context.Context, req FacilitySearchRequest) (*Envelope[FacilitySearchResult], error) {
	return doJSON[FacilitySearchResult](ctx, s.client, http.MethodPost, "/facilities/search", nil, req, s.client.searchTimeout)
}

// History lists past searches, newest first.
func (s *FacilitiesService) History(ctx context.Context, skip, limit int) (*Envelope[[]SearchRecord], error) {
	query := url.Values{}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))
	return doJSON[[]SearchRecord](ctx, s.client, http.MethodGet, "/facilities/history", query, nil, 0)
}

// HistoryFacilities returns the facilities captured by one past search.
func (s *FacilitiesService) HistoryFacilities(ctx context.Context, searchID int) (*Envelope[[]Facility], error) {
	return doJSON[[]Facility](ctx, s.client, http.MethodGet, "/facilities/history/"+strconv.Itoa(searchID)+"/facilities", nil, nil, 0)
}

// DeleteHistory removes one search record and its facilities.
func (s *FacilitiesService) DeleteHistory(ctx context.Context, searchID int) (*Envelope[Void], error) {
	return doVoid(ctx, s.client, http.MethodDelete, "/search-history/"+strconv.Itoa(searchID), nil, nil)
}

// DeleteAllHistory wipes the user's entire search history.
func (s *FacilitiesService) DeleteAllHistory(ctx context.Context) (*Envelope[Void], error) {
	return doVoid(ctx, s.client, http.MethodDelete, "/search-history/delete-all-search-history", nil, nil)
}
