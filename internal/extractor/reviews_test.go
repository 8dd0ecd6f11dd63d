package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

const reviewPayload = `[
  {
    "id": "rev-1",
    "title": "Très pratique",
    "text": "Joli arrosoir, déco et fonctionnel.",
    "reviewer": {"displayName": "Camille"},
    "primaryRating": {"ratingValue": 5, "ratingRange": 5},
    "secondaryRatings": [
      {"label": "Qualité", "ratingValue": 4, "ratingRange": 5},
      {"name": "Rapport qualité-prix", "ratingValue": 5, "ratingRange": 5}
    ],
    "submissionOn": "2025-03-14T09:30:00Z",
    "sourceLocale": "fr-FR"
  },
  {
    "id": "rev-2",
    "title": "Correct",
    "text": "Fait le travail.",
    "primaryRating": {"ratingValue": 3, "ratingRange": 5}
  }
]`

func TestReviews(t *testing.T) {
	t.Parallel()

	e := New()
	reviews, err := e.Reviews([]byte(reviewPayload))
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	first := reviews[0]
	require.Equal(t, "rev-1", first.ID)
	require.Equal(t, "Très pratique", first.Title)
	require.Equal(t, "Camille", first.Reviewer)
	require.Equal(t, crawler.RatingEntry{Value: 5, Scale: 5}, first.Rating)
	require.Equal(t, []crawler.RatingEntry{
		{Label: "Qualité", Value: 4, Scale: 5},
		{Label: "Rapport qualité-prix", Value: 5, Scale: 5},
	}, first.SecondaryRatings)
	require.Equal(t, time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), first.SubmittedAt)
	require.Equal(t, "fr-FR", first.Locale)

	second := reviews[1]
	require.Equal(t, "rev-2", second.ID)
	require.Empty(t, second.SecondaryRatings)
	require.True(t, second.SubmittedAt.IsZero())
}

func TestReviews_InvalidJSONIsAParseError(t *testing.T) {
	t.Parallel()

	e := New()
	_, err := e.Reviews([]byte("<html>maintenance</html>"))
	require.Error(t, err)
}

func TestReviews_EmptyArray(t *testing.T) {
	t.Parallel()

	e := New()
	reviews, err := e.Reviews([]byte("[]"))
	require.NoError(t, err)
	require.Empty(t, reviews)
}
