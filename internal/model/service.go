package model

// Service identifies one Maps Platform endpoint checked by gmapscan.
type Service string

// The checked services. The declaration order below is the fixed
// execution order; dependent probes (static map, place details, ...)
// rely on the geocode probe running first.
const (
	// ServiceGeocode is the Geocoding API (address -> coordinates).
	ServiceGeocode Service = "geocode"

	// ServiceBatchGeocode is the batch variant of the Geocoding API.
	ServiceBatchGeocode Service = "batchgeocode"

	// ServiceStaticMap is the Static Maps image API.
	ServiceStaticMap Service = "staticmap"

	// ServiceStreetView is the Street View image API.
	ServiceStreetView Service = "streetview"

	// ServicePhotoReference is Find Place used to fetch a photo reference.
	ServicePhotoReference Service = "photoreference"

	// ServicePlaceDetails is the Place Details API.
	ServicePlaceDetails Service = "placedetails"

	// ServiceTextSearch is the Places Text Search API.
	ServiceTextSearch Service = "textsearch"

	// ServiceDistanceMatrix is the Distance Matrix API.
	ServiceDistanceMatrix Service = "distancematrix"

	// ServiceElevation is the Elevation API.
	ServiceElevation Service = "elevation"

	// ServiceTimeZone is the Time Zone API.
	ServiceTimeZone Service = "timezone"

	// ServiceNearbySearch is the Places Nearby Search API.
	ServiceNearbySearch Service = "nearbysearch"

	// ServiceAutocomplete is the Places Autocomplete API.
	ServiceAutocomplete Service = "autocomplete"

	// ServiceSnapToRoads is the Roads API snapToRoads endpoint.
	ServiceSnapToRoads Service = "snaptoroads"

	// ServiceNearestRoads is the Roads API nearestRoads endpoint.
	ServiceNearestRoads Service = "nearestroads"

	// ServiceGeolocate is the Geolocation API.
	ServiceGeolocate Service = "geolocate"
)

// Services returns all checked services in their fixed execution order.
// The report table preserves this order for recorded outcomes.
func Services() []Service {
	return []Service{
		ServiceGeocode,
		ServiceBatchGeocode,
		ServiceStaticMap,
		ServiceStreetView,
		ServicePhotoReference,
		ServicePlaceDetails,
		ServiceTextSearch,
		ServiceDistanceMatrix,
		ServiceElevation,
		ServiceTimeZone,
		ServiceNearbySearch,
		ServiceAutocomplete,
		ServiceSnapToRoads,
		ServiceNearestRoads,
		ServiceGeolocate,
	}
}

// String returns the service name as used in the report table.
func (s Service) String() string {
	return string(s)
}
