package repository

import (
	"context"
	"fmt"
	"time"

	"sakkanal_backend/platform/db"

	"github.com/google/uuid"
)

type Repository struct {
	pool db.Pool
}

func New(pool db.Pool) *Repository {
	return &Repository{pool: pool}
}

type SearchResult struct {
	ID           uuid.UUID
	Title        string
	Subtitle     string
	Preview      string
	Status       string
	MatchedField string
	Score        float32
	CreatedAt    time.Time
	Total        int64
}

// SearchLeads ranks leads by their identity fields and, at a lower weight,
// the notes of their interactions. digits, when not empty, also matches
// phone numbers containing that digit sequence.
func (r *Repository) SearchLeads(ctx context.Context, query, digits string, status *string, limit int) ([]SearchResult, error) {
	querySQL := `
		WITH search_query AS (
			SELECT
				websearch_to_tsquery('simple', sakkanal_unaccent($1)) AS q_simple,
				websearch_to_tsquery('french', sakkanal_unaccent($1)) AS q_french
		),
		lead_docs AS (
			SELECT
				l.id,
				setweight(to_tsvector('simple', sakkanal_unaccent(l.company_name)), 'A') ||
				setweight(to_tsvector('simple', sakkanal_unaccent(l.contact_name)), 'A') ||
				setweight(to_tsvector('simple', sakkanal_unaccent(l.email)), 'B') ||
				setweight(to_tsvector('simple', sakkanal_unaccent(l.phone)), 'B') AS doc
			FROM leads l
			WHERE ($3::text IS NULL OR l.status = $3)
		),
		matching AS (
			SELECT
				d.id AS lead_id,
				CASE WHEN d.doc @@ (sq.q_simple || sq.q_french) THEN ts_rank(d.doc, (sq.q_simple || sq.q_french)) END AS field_rank,
				n.notes_rank,
				n.notes_preview,
				($2 <> '' AND regexp_replace(l.phone, '\D', '', 'g') LIKE '%' || $2 || '%') AS phone_hit
			FROM lead_docs d
			JOIN leads l ON l.id = d.id
			CROSS JOIN search_query sq
			LEFT JOIN LATERAL (
				SELECT
					MAX(ts_rank(to_tsvector('french', sakkanal_unaccent(i.notes)), (sq.q_simple || sq.q_french))) AS notes_rank,
					(
						SELECT ts_headline('french', i2.notes, (sq.q_simple || sq.q_french),
							'MaxWords=18, MinWords=6, ShortWord=2, StartSel=[, StopSel=]')
						FROM lead_interactions i2
						WHERE i2.lead_id = d.id
							AND to_tsvector('french', sakkanal_unaccent(i2.notes)) @@ (sq.q_simple || sq.q_french)
						ORDER BY i2.created_at DESC
						LIMIT 1
					) AS notes_preview
				FROM lead_interactions i
				WHERE i.lead_id = d.id
					AND to_tsvector('french', sakkanal_unaccent(i.notes)) @@ (sq.q_simple || sq.q_french)
			) n ON true
		)
		SELECT
			l.id,
			COALESCE(NULLIF(l.company_name, ''), l.contact_name) AS title,
			concat_ws(' • ', NULLIF(l.contact_name, ''), NULLIF(l.phone, '')) AS subtitle,
			COALESCE(NULLIF(m.notes_preview, ''), l.email) AS preview,
			l.status,
			CASE
				WHEN to_tsvector('simple', sakkanal_unaccent(l.company_name)) @@ (sq.q_simple || sq.q_french) THEN 'company'
				WHEN to_tsvector('simple', sakkanal_unaccent(l.contact_name)) @@ (sq.q_simple || sq.q_french) THEN 'contact'
				WHEN to_tsvector('simple', sakkanal_unaccent(l.email)) @@ (sq.q_simple || sq.q_french) THEN 'email'
				WHEN m.phone_hit OR to_tsvector('simple', sakkanal_unaccent(l.phone)) @@ (sq.q_simple || sq.q_french) THEN 'phone'
				ELSE 'notes'
			END AS matched_field,
			(COALESCE(m.field_rank, 0) + COALESCE(m.notes_rank * 0.30, 0) + CASE WHEN m.phone_hit THEN 0.5 ELSE 0 END)::real AS score,
			l.created_at,
			COUNT(*) OVER() AS total
		FROM matching m
		JOIN leads l ON l.id = m.lead_id
		CROSS JOIN search_query sq
		WHERE m.field_rank IS NOT NULL OR m.notes_rank IS NOT NULL OR m.phone_hit
		ORDER BY score DESC, l.created_at DESC
		LIMIT $4`

	rows, err := r.pool.Query(ctx, querySQL, query, digits, status, limit)
	if err != nil {
		return nil, fmt.Errorf("search leads: %w", err)
	}
	defer rows.Close()

	results := make([]SearchResult, 0)
	for rows.Next() {
		var res SearchResult
		if err := rows.Scan(
			&res.ID, &res.Title, &res.Subtitle, &res.Preview, &res.Status,
			&res.MatchedField, &res.Score, &res.CreatedAt, &res.Total,
		); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search results: %w", err)
	}
	return results, nil
}
