// Package reddit implements the authenticated Reddit API client: OAuth2
// password-grant login, rate-limited listing and comment fetches, and
// translation of Reddit's "thing" envelopes into model types.
package reddit
