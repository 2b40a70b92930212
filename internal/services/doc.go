// Package services defines the [Searcher] interface for music catalogs and implements it for Spotify.
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the OAuth2 client-credentials grant from
// [golang.org/x/oauth2/clientcredentials]: the client id and secret are sent as HTTP Basic
// credentials with a form-encoded grant_type=client_credentials body.
//
// Tokens are not cached. Every [SpotifyService.Search] performs a fresh exchange followed by a
// bearer-authenticated GET /search?q={query}&type=track.
//
// Outbound searches go through a [rate.Limiter] so a fast typist cannot flood the API; waiting on the
// limiter honours context cancellation, which lets callers drop superseded requests early.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAuthFailed] : token exchange failed (transport or non-2xx)
//   - [shared.ErrAPIRequest] : search request failed (transport or non-2xx)
//   - [shared.ErrMalformedResponse] : a track lacks the fields the mapping needs
//
// # API Mappings
//
// Spotify search items map onto [models.Track]:
//   - title ← name, artist ← artists[0].name, album ← album.name
//   - image ← album.images[1].url (the medium rendition)
//   - durationSeconds ← round(duration_ms / 1000)
package services
