// Package concerts implements the concert-listing provider adapters and the aggregator that fans a query out to them.
//
// # Provider Interface
//
// Every source implements [Provider]: given an artist, a free-text "City, Region" location and an ISO-8601 date
// window, it returns normalized [models.Concert] records. Only the leading city token of the location is used.
//
// # Adapters
//
//   - [SeatGeek] : one request, filtered server-side by city; performers must equal the artist (case-insensitive)
//   - [Bandsintown] : one request per artist; venue city must contain the city token (case-insensitive)
//   - [Songkick] : resolves the city to a metro area ID first, then filters performers by exact name
//
// Only SeatGeek exposes prices; the others fill [models.Price] with its "not available" zero value.
//
// # Failure Policy
//
// Adapters are fail-soft: transport and HTTP errors are logged with the provider name and artist and produce an
// empty result, never an error. Errors are reserved for malformed input. The [Aggregator] additionally isolates
// any error or panic from a provider so one outage never suppresses results from the others.
//
// # HTTP
//
// All adapters share a [Client] that bounds each request with a timeout and paces requests with a
// [rate.Limiter]. No request is retried.
package concerts
