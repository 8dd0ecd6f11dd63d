package frontier

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

func TestFrontier_EnterSeedsOneTaskPerRoot(t *testing.T) {
	t.Parallel()

	f := New(zap.NewNop())
	tasks := f.Enter([]string{
		"https://www.ikea.com/fr/fr/cat/produits-products/",
		"https://www.ikea.com/fr/fr/cat/nouveautes-news/",
	})

	require.Len(t, tasks, 2)
	for _, task := range tasks {
		require.Equal(t, crawler.TaskCategory, task.Kind)
		require.Empty(t, task.Path)
	}
}

func TestFrontier_ExpandRecursesIntoSubcategories(t *testing.T) {
	t.Parallel()

	f := New(zap.NewNop())
	nav := crawler.CategoryNav{Entries: []crawler.NavEntry{
		{Name: "Canapés", URL: "https://www.ikea.com/fr/fr/cat/canapes-fu003/"},
		{Name: "Tables", URL: "https://www.ikea.com/fr/fr/cat/tables-fu004/"},
		{Name: "Rangements", URL: "https://www.ikea.com/fr/fr/cat/rangements-fu005/"},
	}}
	parent := crawler.CategoryPath{"Produits", "Meubles"}

	tasks := f.Expand("https://www.ikea.com/fr/fr/cat/meubles-fu001/", nav, parent)

	require.Len(t, tasks, 3)
	for i, task := range tasks {
		require.Equal(t, crawler.TaskCategory, task.Kind)
		require.Equal(t, nav.Entries[i].URL, task.URL)
		require.Equal(t, crawler.CategoryPath{"Produits", "Meubles", nav.Entries[i].Name}, task.Path)
	}
	// The parent path itself must be untouched.
	require.Equal(t, crawler.CategoryPath{"Produits", "Meubles"}, parent)
}

func TestFrontier_ExpandLeafYieldsSingleListingTask(t *testing.T) {
	t.Parallel()

	f := New(zap.NewNop())
	parent := crawler.CategoryPath{"Produits", "Meubles", "Canapés"}

	tasks := f.Expand("https://www.ikea.com/fr/fr/cat/canapes-fu003/", crawler.CategoryNav{}, parent)

	require.Len(t, tasks, 1)
	require.Equal(t, crawler.TaskListing, tasks[0].Kind)
	require.Equal(t, "https://www.ikea.com/fr/fr/cat/canapes-fu003/", tasks[0].URL)
	require.Equal(t, parent, tasks[0].Path)
}

func TestFrontier_ExpandListing(t *testing.T) {
	t.Parallel()

	f := New(zap.NewNop())
	path := crawler.CategoryPath{"Produits", "Décoration"}
	links := []string{
		"https://www.ikea.com/fr/fr/p/vattenkrasse-arrosoir-40394118/",
		"https://www.ikea.com/fr/fr/p/fejka-plante-artificielle-00339555/",
	}

	tasks := f.ExpandListing("https://www.ikea.com/fr/fr/cat/decoration-de001/", links, path)

	require.Len(t, tasks, 2)
	for i, task := range tasks {
		require.Equal(t, crawler.TaskDetail, task.Kind)
		require.Equal(t, links[i], task.URL)
		require.Equal(t, path, task.Path)
	}
}

func TestFrontier_ExpandListingEmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	f := New(zap.NewNop())
	tasks := f.ExpandListing("https://www.ikea.com/fr/fr/cat/soldes-epuises/", nil, crawler.CategoryPath{"Produits"})
	require.Empty(t, tasks)
}
