package postgres

import (
	"context"
	"fmt"
)

// The dashboard reads the primary store by category-hierarchy segment and by
// commercial-message tag. These aggregation queries are the read boundary the
// reporting layer consumes; nothing in the crawl pipeline calls them.

// CategoryCount is one count-by-group aggregation row.
type CategoryCount struct {
	Category string
	Tag      string
	Count    int64
}

// CategoryRating is one group-average aggregation row.
type CategoryRating struct {
	Category  string
	AvgRating float64
	Count     int64
}

// DistinctCategories lists the distinct category-hierarchy segments at the
// given level, sorted.
func (s *ProductStore) DistinctCategories(ctx context.Context, level int) ([]string, error) {
	query := fmt.Sprintf(`
SELECT DISTINCT document->'category_hierarchy'->>$1
FROM %s
WHERE document->'category_hierarchy'->>$1 IS NOT NULL
ORDER BY 1`, s.table)
	// The level travels as int32 so it arrives as integer, not bigint;
	// jsonb ->> has no bigint overload.
	rows, err := s.pool.Query(ctx, query, int32(level))
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// CountByMessageTag counts products per category segment and commercial
// message tag at the given hierarchy level.
func (s *ProductStore) CountByMessageTag(ctx context.Context, level int) ([]CategoryCount, error) {
	query := fmt.Sprintf(`
SELECT document->'category_hierarchy'->>$1 AS category, tag, COUNT(*)
FROM %s, jsonb_array_elements_text(document->'commercial_messages') AS tag
WHERE document->'category_hierarchy'->>$1 IS NOT NULL
GROUP BY 1, 2
ORDER BY 1, 2`, s.table)
	rows, err := s.pool.Query(ctx, query, int32(level))
	if err != nil {
		return nil, fmt.Errorf("count by message tag: %w", err)
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Tag, &c.Count); err != nil {
			return nil, fmt.Errorf("scan message count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message counts: %w", err)
	}
	return counts, nil
}

// AverageRatingByCategory averages the product rating per category segment at
// the given hierarchy level, skipping unrated products.
func (s *ProductStore) AverageRatingByCategory(ctx context.Context, level int) ([]CategoryRating, error) {
	query := fmt.Sprintf(`
SELECT document->'category_hierarchy'->>$1 AS category,
	AVG((document->>'rating')::double precision),
	COUNT(*)
FROM %s
WHERE document->'category_hierarchy'->>$1 IS NOT NULL
	AND (document->>'rating')::double precision > 0
GROUP BY 1
ORDER BY 1`, s.table)
	rows, err := s.pool.Query(ctx, query, int32(level))
	if err != nil {
		return nil, fmt.Errorf("average rating by category: %w", err)
	}
	defer rows.Close()

	var ratings []CategoryRating
	for rows.Next() {
		var r CategoryRating
		if err := rows.Scan(&r.Category, &r.AvgRating, &r.Count); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}
