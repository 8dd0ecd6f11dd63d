package assembler

import (
	"fmt"
	"strings"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

// DeriveTags turns the commercial-message fragments of a detail page into the
// normalized ordered tag sequence. The policy mirrors the source pages:
//   - every non-empty fragment becomes a tag,
//   - a highlighted price marker guarantees a "Prix le plus bas" tag at the
//     front when no fragment already carries it,
//   - a percentage-off phrase anywhere in the fragments adds a "Réduction N%"
//     tag,
//   - duplicates are removed preserving first-seen order, so repeated runs
//     over the same input produce the same tags.
func DeriveTags(fragments []string, highlightedPrice bool) crawler.MessageTags {
	tags := make(crawler.MessageTags, 0, len(fragments)+2)
	seen := make(map[string]struct{}, len(fragments)+2)
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	if highlightedPrice {
		hasLowest := false
		for _, fragment := range fragments {
			if strings.Contains(fragment, lowestPriceTag) {
				hasLowest = true
				break
			}
		}
		if !hasLowest {
			add(lowestPriceTag)
		}
	}

	for _, fragment := range fragments {
		add(fragment)
		if m := reductionPattern.FindStringSubmatch(fragment); m != nil {
			add(fmt.Sprintf("Réduction %s%%", m[1]))
		}
	}

	return tags
}
