package events

// AuctionEvent is published after an auction resolved one request.
type AuctionEvent struct {
	RequestID string
	WinnerID  string
	Bidders   int
	BestBid   float64
	Tie       bool
	Time      int64
}
