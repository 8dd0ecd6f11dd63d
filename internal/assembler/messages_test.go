package assembler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

func TestDeriveTags_HighlightedPriceWithoutMessage(t *testing.T) {
	t.Parallel()

	tags := DeriveTags(nil, true)
	require.Equal(t, crawler.MessageTags{"Prix le plus bas"}, tags)
}

func TestDeriveTags_HighlightedPriceWithReduction(t *testing.T) {
	t.Parallel()

	tags := DeriveTags([]string{"21% de réduction"}, true)
	require.Contains(t, tags, "Prix le plus bas")
	require.Contains(t, tags, "Réduction 21%")

	// Re-running over the same input must not duplicate tags.
	again := DeriveTags([]string{"21% de réduction"}, true)
	require.Equal(t, tags, again)
	counts := map[string]int{}
	for _, tag := range again {
		counts[tag]++
	}
	for tag, n := range counts {
		require.Equal(t, 1, n, "tag %q appeared %d times", tag, n)
	}
}

func TestDeriveTags_FragmentsBecomeTagsInOrder(t *testing.T) {
	t.Parallel()

	tags := DeriveTags([]string{"Nouveau", "Nouveau", "Prix le plus bas"}, false)
	require.Equal(t, crawler.MessageTags{"Nouveau", "Prix le plus bas"}, tags)
}

func TestDeriveTags_ExistingLowestPriceFragmentNotDoubled(t *testing.T) {
	t.Parallel()

	tags := DeriveTags([]string{"Prix le plus bas"}, true)
	require.Equal(t, crawler.MessageTags{"Prix le plus bas"}, tags)
}

func TestDeriveTags_Empty(t *testing.T) {
	t.Parallel()

	require.Empty(t, DeriveTags(nil, false))
	require.Empty(t, DeriveTags([]string{"  ", ""}, false))
}
