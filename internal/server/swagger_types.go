package server

// Response envelopes referenced by handler annotations.
type DataResponse struct {
	Data any `json:"data"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
