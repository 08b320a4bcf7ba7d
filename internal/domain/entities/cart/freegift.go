package cart

// FreeGiftProduct is one of the complimentary products offered when the
// cart total sits inside the gift eligibility band.
type FreeGiftProduct struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// FreeGiftState is derived promotion state, recomputed on every cart
// total change and never persisted. Selected is valid only while
// Eligible holds.
type FreeGiftState struct {
	Eligible     bool              `json:"eligible"`
	Selected     *FreeGiftProduct  `json:"selected"`
	Options      []FreeGiftProduct `json:"options"`
	Threshold    float64           `json:"threshold"`
	UpperBound   float64           `json:"upperBound"`
	CurrentTotal float64           `json:"currentTotal"`
}

// ShippingProgress describes progress toward the free-shipping threshold.
// Percentage is clamped to [0,100] for any total.
type ShippingProgress struct {
	Threshold  float64 `json:"threshold"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
	Remaining  float64 `json:"remaining"`
	Reached    bool    `json:"reached"`
}
