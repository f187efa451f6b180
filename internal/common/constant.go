// Package common contains shared constants and sentinel errors used across
// gatekeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry a signed
// identity token on inbound requests.
const AccessTokenHeaderName = "access_token"
