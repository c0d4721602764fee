// Package nhost implements the live backend collaborators: the Nhost auth
// API, GraphQL over HTTP, and graphql-ws subscriptions.
package nhost

import "fmt"

// Config identifies an Nhost backend instance.
type Config struct {
	Subdomain string `json:"subdomain"`
	Region    string `json:"region"`
}

func (c Config) graphqlURL() string {
	return fmt.Sprintf("https://%s.graphql.%s.nhost.run/v1", c.Subdomain, c.Region)
}

func (c Config) graphqlWebsocketURL() string {
	return fmt.Sprintf("wss://%s.graphql.%s.nhost.run/v1", c.Subdomain, c.Region)
}

func (c Config) authURL() string {
	return fmt.Sprintf("https://%s.auth.%s.nhost.run/v1", c.Subdomain, c.Region)
}

// TokenSource returns the current access token, or "" when unauthenticated.
// Tokens refresh over time, so the transport re-reads it on every request.
type TokenSource func() string
