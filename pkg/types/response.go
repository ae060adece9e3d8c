package types

// ErrorResponse is the wire shape for every error returned by the API.
// Timestamp is epoch milliseconds at the moment the response was written.
type ErrorResponse struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	Timestamp    int64  `json:"timestamp"`
}
