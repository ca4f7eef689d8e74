package model

// OrderPage is the reply envelope for order listings. Total counts every
// active matching order regardless of the pagination window.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Offset int     `json:"offset"`
	Count  int     `json:"count"`
	Total  int64   `json:"total"`
}

// ErrorResponse is the standard envelope for error responses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the structured error information returned by the API:
// a stable machine-readable kind plus a human description.
type ErrorDetail struct {
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}
