// Package google provides OAuth2 authentication and token management for Google APIs.
//
// Tokens are stored per account under the user cache directory so that a single
// assistant process can act on behalf of several Google accounts. The
// TokenProvider interface allows other token sources to be plugged in, for
// example in tests.
package google
