// Package services implements the external collaborators the concert finder reads from: the artist source
// (Spotify) and the calendar sources (Google Calendar, ICS feeds).
//
// # Artist Source
//
// [SpotifyService] implements [ArtistSource] and [OAuthService]. It uses OAuth2 with automatic token
// refresh; refreshed tokens are reported through [SpotifyService.SetTokenRefreshCallback] so the caller can
// persist them. [CollectArtists] merges followed and top artists with [MergeArtists] (exact-name dedup,
// first occurrence wins).
//
// # Calendar Sources
//
// [GoogleCalendar] and [ICSCalendar] implement [CalendarSource]. [TravelPeriods] turns their events into
// search windows by dropping events without a location and events located at home (exact string match).
//
// # OAuth
//
// [OAuthService] is implemented by [SpotifyService] and [GoogleOAuth] for the loopback flow run by the CLI.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrMissingCredentials] : client credentials absent
package services
