// Package stripeapi wraps the Stripe surface this application touches:
// the OAuth token endpoint, the disputes list, and evidence submission.
// Connected-account calls authenticate with the merchant's OAuth access
// token, not the platform secret key.
package stripeapi

import (
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
	"github.com/stripe/stripe-go/v72/oauth"
)

// API talks to Stripe on behalf of the platform and its connected
// accounts.
type API struct {
	clientID string
	backends *stripe.Backends
}

// New configures the package-level Stripe key and returns the API.
func New(secretKey, clientID string) *API {
	stripe.Key = secretKey
	return &API{clientID: clientID}
}

// AuthorizeURL builds the Stripe Connect authorization redirect URL.
func (a *API) AuthorizeURL(redirectURI, state string) string {
	return oauth.AuthorizeURL(&stripe.AuthorizeURLParams{
		ClientID:     stripe.String(a.clientID),
		ResponseType: stripe.String("code"),
		Scope:        stripe.String("read_write"),
		RedirectURI:  stripe.String(redirectURI),
		State:        stripe.String(state),
	})
}

// ExchangeCode trades an authorization code for an access/refresh token
// pair at the OAuth token endpoint.
func (a *API) ExchangeCode(code string) (*stripe.OAuthToken, error) {
	return oauth.New(&stripe.OAuthTokenParams{
		GrantType: stripe.String("authorization_code"),
		Code:      stripe.String(code),
	})
}

// RefreshToken obtains a fresh access token with the refresh_token grant.
func (a *API) RefreshToken(refreshToken string) (*stripe.OAuthToken, error) {
	return oauth.New(&stripe.OAuthTokenParams{
		GrantType:    stripe.String("refresh_token"),
		RefreshToken: stripe.String(refreshToken),
	})
}

// ListDisputes fetches one page of disputes for the connected account,
// with each dispute's charge expanded for the payment method snapshot.
// The iterator follows has_more across pages, so the loop stops at the
// bound itself; no records beyond it are fetched or returned.
func (a *API) ListDisputes(accessToken string, limit int64) ([]*stripe.Dispute, error) {
	api := &client.API{}
	api.Init(accessToken, a.backends)

	params := &stripe.DisputeListParams{}
	params.Limit = stripe.Int64(limit)
	params.AddExpand("data.charge")

	var disputes []*stripe.Dispute
	iter := api.Disputes.List(params)
	for int64(len(disputes)) < limit && iter.Next() {
		disputes = append(disputes, iter.Dispute())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return disputes, nil
}

// SubmitEvidence sends the response text as uncategorized evidence and
// submits it. The returned id identifies the remote submission.
func (a *API) SubmitEvidence(accessToken, disputeID, responseText string) (string, error) {
	api := &client.API{}
	api.Init(accessToken, a.backends)

	d, err := api.Disputes.Update(disputeID, &stripe.DisputeParams{
		Evidence: &stripe.DisputeEvidenceParams{
			UncategorizedText: stripe.String(responseText),
		},
		Submit: stripe.Bool(true),
	})
	if err != nil {
		return "", err
	}
	return d.ID, nil
}
