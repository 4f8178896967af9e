package model

// PricePoint is one sample of a price series. Timestamp is unix milliseconds.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
}

// ValuePoint is one sample of a pool metric history.
type ValuePoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}
