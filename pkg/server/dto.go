package server

// AddItemsRequest appends items to the pool in order.
type AddItemsRequest struct {
	Items []string `json:"items" validate:"required,min=1"`
}

type AddItemsResponse struct {
	Added int `json:"added"`
}

// ConsumeRequest withdraws every item matching Pattern.
// Mode "contains" (default) matches anywhere; "prefix" matches the trimmed start.
type ConsumeRequest struct {
	Pattern string `json:"pattern"`
	Mode    string `json:"mode" validate:"omitempty,oneof=contains prefix"`
}

type ConsumeResponse struct {
	Found bool     `json:"found"`
	Items []string `json:"items"`
}

type StatsRequest struct{}

type StatsResponse struct {
	Len  int   `json:"len"`
	Refs int64 `json:"refs,omitempty"`
}
