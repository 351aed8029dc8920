// Package models defines the domain entities for the gigx concert finder.
//
// The package contains two categories of types:
//
// 1. Run-scoped values: created per run, held in memory, discarded at exit
//   - [Artist] : an opaque, case-sensitive artist name from the music profile
//   - [CalendarEvent] : an upcoming calendar entry with an optional location
//   - [TravelPeriod] : a location plus a start/end window to search
//   - [Concert] : a normalized listing produced by a concert provider
//   - [DedupKey] : the (artist, venue, date) triple that collapses duplicate listings
//
// 2. Persistent Entities: database-backed history of past runs
//   - [SearchRun] : a completed sweep with its counts and concerts
//
// Persistent entities implement the [Model] interface providing ID, timestamps, and validation.
package models
