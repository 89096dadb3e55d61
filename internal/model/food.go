package model

// Food is a purchasable concession item with finite stock.
//
// Invariant: Quantity >= 0; every successful sale decrements Quantity and
// increments Sold by the same amount.  Version guards the commit-time
// decrement against concurrent sales.
type Food struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Sold     int    `json:"sold"`
	ImageURL string `json:"imageUrl"`
	Version  uint64 `json:"version"`
}
