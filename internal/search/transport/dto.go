package transport

import "time"

type SearchRequest struct {
	Query  string `form:"q" json:"q" validate:"required,min=2,max=100"`
	Status string `form:"status" json:"status" validate:"omitempty,oneof=new contacted qualified converted"`
	Limit  int    `form:"limit" json:"limit" validate:"omitempty,min=1,max=50"`
}

type SearchResultItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`        // company, or contact when no company
	Subtitle     string    `json:"subtitle"`     // contact and phone
	Preview      string    `json:"preview"`      // highlighted note or e-mail
	Status       string    `json:"status"`       // pipeline status
	Link         string    `json:"link"`         // dashboard route
	Score        float64   `json:"score"`        // relevance
	MatchedField string    `json:"matchedField"` // company, contact, email, phone or notes
	CreatedAt    time.Time `json:"createdAt"`
}

type SearchResponse struct {
	Items []SearchResultItem `json:"items"`
	Total int                `json:"total"`
}
