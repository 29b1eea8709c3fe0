package github

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// FineGrainedTokenPrefix marks a fine-grained personal access token
const FineGrainedTokenPrefix = "github_pat_"

// Authorization schemes understood by the GitHub API
const (
	SchemeBearer = "Bearer"
	SchemeToken  = "token"
)

// AuthScheme returns the Authorization scheme for a credential: fine-grained
// tokens are presented as Bearer, classic tokens with the legacy "token" scheme.
func AuthScheme(token string) string {
	if strings.HasPrefix(token, FineGrainedTokenPrefix) {
		return SchemeBearer
	}
	return SchemeToken
}

// AuthorizationHeader renders the full header value for a credential
func AuthorizationHeader(token string) string {
	return AuthScheme(token) + " " + token
}

func newAuthClient(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token, TokenType: AuthScheme(token)},
	)
	return oauth2.NewClient(ctx, ts)
}
