package service

import (
	"context"
	"strings"
	"unicode"

	"sakkanal_backend/internal/search/repository"
	"sakkanal_backend/internal/search/transport"
	"sakkanal_backend/platform/apperr"
)

const (
	defaultLimit    = 10
	minPhoneDigits  = 4
	adminLeadsRoute = "/admin/leads/"
)

type leadSearcher interface {
	SearchLeads(ctx context.Context, query, digits string, status *string, limit int) ([]repository.SearchResult, error)
}

type Service struct {
	repo leadSearcher
}

func New(repo leadSearcher) *Service {
	return &Service{repo: repo}
}

func (s *Service) SearchLeads(ctx context.Context, req transport.SearchRequest) (*transport.SearchResponse, error) {
	q := strings.TrimSpace(req.Query)
	if q == "" {
		return &transport.SearchResponse{Items: []transport.SearchResultItem{}, Total: 0}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var status *string
	if req.Status != "" {
		status = &req.Status
	}

	results, err := s.repo.SearchLeads(ctx, q, phoneDigits(q), status, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "search failed", err).WithOp("search.SearchLeads")
	}

	total := 0
	if len(results) > 0 {
		// COUNT(*) OVER() is repeated on every row.
		total = int(results[0].Total)
	}

	items := make([]transport.SearchResultItem, len(results))
	for i, r := range results {
		items[i] = transport.SearchResultItem{
			ID:           r.ID.String(),
			Title:        r.Title,
			Subtitle:     r.Subtitle,
			Preview:      r.Preview,
			Status:       r.Status,
			Link:         adminLeadsRoute + r.ID.String(),
			Score:        float64(r.Score),
			MatchedField: r.MatchedField,
			CreatedAt:    r.CreatedAt,
		}
	}

	return &transport.SearchResponse{Items: items, Total: total}, nil
}

// phoneDigits returns the digits of q when q looks like a phone fragment.
func phoneDigits(q string) string {
	var b strings.Builder
	for _, r := range q {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '+' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return ""
		}
	}
	if b.Len() < minPhoneDigits {
		return ""
	}
	return b.String()
}
