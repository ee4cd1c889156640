// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package types

// Language selects the output language for prompts and user-facing text.
type Language string

const (
	LangVietnamese Language = "vi"
	LangEnglish    Language = "en"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == LangVietnamese || l == LangEnglish
}

// TravelMode is the primary means of transport for a trip.
type TravelMode string

const (
	ModeCar       TravelMode = "CAR"
	ModeMotorbike TravelMode = "MOTORBIKE"
	ModePlane     TravelMode = "PLANE"
)

// TripStyle is a user preference biasing itinerary and hotel suggestions.
type TripStyle string

const (
	StyleAdventure   TripStyle = "adventure"
	StyleRelaxing    TripStyle = "relaxing"
	StylePhotography TripStyle = "photography"
	StyleFoodie      TripStyle = "foodie"
	StyleCultural    TripStyle = "cultural"
	StyleNature      TripStyle = "nature"
)

// StopType classifies a single itinerary stop.
type StopType string

const (
	StopSightseeing StopType = "SIGHTSEEING"
	StopFood        StopType = "FOOD"
	StopRest        StopType = "REST"
	StopHotel       StopType = "HOTEL"
	StopPhotoOp     StopType = "PHOTO_OP"
	StopDeparture   StopType = "DEPARTURE"
	StopArrival     StopType = "ARRIVAL"
	StopTransit     StopType = "TRANSIT"
)

// StopTypes lists every valid stop type, in schema order.
func StopTypes() []StopType {
	return []StopType{
		StopSightseeing, StopFood, StopRest, StopHotel,
		StopPhotoOp, StopDeparture, StopArrival, StopTransit,
	}
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is one record of the static autocomplete dataset.
type Place struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	AsciiName   string      `json:"asciiName"`
	CountryCode string      `json:"countryCode"`
	Country     CountryName `json:"country"`
	Lat         float64     `json:"lat"`
	Lng         float64     `json:"lng"`
	Population  int64       `json:"population"`
}

// CountryName holds the localized country names shipped with the dataset.
type CountryName struct {
	En string `json:"en"`
	Vi string `json:"vi"`
}

// HotelBudget is the per-night budget range in VND.
type HotelBudget struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Travelers is the party composition used for cost accounting.
type Travelers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// SearchParams is the user's trip request. It is replaced wholesale on each
// new search and is a read-only input to every fetch.
type SearchParams struct {
	Origin        string       `json:"origin"`
	Destination   string       `json:"destination"`
	TravelMode    TravelMode   `json:"travelMode"`
	TripStyles    []TripStyle  `json:"tripStyles"`
	DepartureDate string       `json:"departureDate,omitempty"`
	Nights        int          `json:"nights,omitempty"`
	HotelBudget   *HotelBudget `json:"hotelBudget,omitempty"`
	Travelers     *Travelers   `json:"travelers,omitempty"`
}

// RouteOption is one of the candidate routes returned for a search.
// Immutable once fetched.
type RouteOption struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Distance    string   `json:"distance"`
	Duration    string   `json:"duration"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
}

// AlternativeOption is a substitute choice for one itinerary slot. Selecting
// one overrides the slot's displayed fields and costs without mutating the
// original item.
type AlternativeOption struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	CostPerAdult float64      `json:"costPerAdult"`
	CostPerChild float64      `json:"costPerChild"`
	Rating       string       `json:"rating,omitempty"`
	LocationName string       `json:"locationName"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	ImageURL     string       `json:"imageUrl,omitempty"`
}

// TimelineItem is one ordered stop of the itinerary.
type TimelineItem struct {
	Day          int                 `json:"day"`
	Time         string              `json:"time"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Type         StopType            `json:"type"`
	LocationName string              `json:"locationName"`
	Rating       string              `json:"rating,omitempty"`
	Coordinates  *Coordinates        `json:"coordinates,omitempty"`
	ImageURL     string              `json:"imageUrl,omitempty"`
	CostPerAdult float64             `json:"costPerAdult"`
	CostPerChild float64             `json:"costPerChild"`
	Alternatives []AlternativeOption `json:"alternatives"`
}

// HotelRecommendation is one suggested hotel for the stay.
type HotelRecommendation struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Rating        string       `json:"rating"`
	PricePerNight float64      `json:"pricePerNight"`
	TotalPrice    float64      `json:"totalPrice"`
	Description   string       `json:"description"`
	Amenities     []string     `json:"amenities"`
	Location      string       `json:"location"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
	ImageURL      string       `json:"imageUrl,omitempty"`
}

// FlightOption is one suggested flight for trips that require flying.
type FlightOption struct {
	ID              string  `json:"id"`
	Airline         string  `json:"airline"`
	FlightNumber    string  `json:"flightNumber"`
	DepartureTime   string  `json:"departureTime"`
	ArrivalTime     string  `json:"arrivalTime"`
	Duration        string  `json:"duration"`
	Stops           int     `json:"stops"`
	StopDescription string  `json:"stopDescription,omitempty"`
	PricePerAdult   float64 `json:"pricePerAdult"`
	PricePerChild   float64 `json:"pricePerChild"`
	CabinClass      string  `json:"cabinClass"`
}

// NavigationPath is the two-point path the map collaborator draws when the
// user asks to navigate to a stop. Origin is always the first itinerary item.
type NavigationPath struct {
	From TimelineItem `json:"from"`
	To   TimelineItem `json:"to"`
}
