package common

const (
	// AuthorizationHeaderName carries the bearer credential on every
	// authenticated request.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix is the only accepted authorization scheme.
	BearerPrefix = "Bearer "

	// DateLayout is the ISO-8601 calendar date layout used on the wire.
	DateLayout = "2006-01-02"
)
