package tapev1

// Trade represents a single executed trade. Immutable once created.
type Trade struct {
	// Time is the execution time in epoch milliseconds.
	Time     int64   `json:"time"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}
