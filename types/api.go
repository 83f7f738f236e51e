package types

// ErrorResponse is the generic error JSON shape returned by the REST routes
type ErrorResponse struct {
	Message string `json:"message"`
}
