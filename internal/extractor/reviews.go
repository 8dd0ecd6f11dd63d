package extractor

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

// apiReview mirrors one element of the review API's JSON array response.
type apiReview struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Reviewer struct {
		DisplayName string `json:"displayName"`
	} `json:"reviewer"`
	PrimaryRating    apiRating   `json:"primaryRating"`
	SecondaryRatings []apiRating `json:"secondaryRatings"`
	SubmissionOn     string      `json:"submissionOn"`
	SourceLocale     string      `json:"sourceLocale"`
}

type apiRating struct {
	Label       string  `json:"label"`
	Name        string  `json:"name"`
	RatingValue float64 `json:"ratingValue"`
	RatingRange int     `json:"ratingRange"`
}

// Reviews parses the review API payload into the normalized review list. A
// payload that is not a JSON array is a parse error; the caller degrades the
// record to an empty review list.
func (e *Extractor) Reviews(payload []byte) ([]crawler.Review, error) {
	var raw []apiReview
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode review payload: %w", err)
	}

	reviews := make([]crawler.Review, 0, len(raw))
	for _, r := range raw {
		review := crawler.Review{
			ID:       r.ID,
			Title:    r.Title,
			Text:     r.Text,
			Reviewer: r.Reviewer.DisplayName,
			Rating:   r.PrimaryRating.entry(),
			Locale:   r.SourceLocale,
		}
		for _, sec := range r.SecondaryRatings {
			review.SecondaryRatings = append(review.SecondaryRatings, sec.entry())
		}
		if r.SubmissionOn != "" {
			if ts, err := time.Parse(time.RFC3339, r.SubmissionOn); err == nil {
				review.SubmittedAt = ts
			}
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func (r apiRating) entry() crawler.RatingEntry {
	label := r.Label
	if label == "" {
		label = r.Name
	}
	return crawler.RatingEntry{
		Label: label,
		Value: r.RatingValue,
		Scale: r.RatingRange,
	}
}
