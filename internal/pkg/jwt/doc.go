// Package jwt verifies the bearer tokens issued by the primary
// authentication step and carries the authenticated principal on the
// request context.
package jwt
