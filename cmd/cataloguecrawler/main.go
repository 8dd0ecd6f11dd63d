// Package main hosts the catalogue crawler entrypoint.
//
// Architecture overview:
//   - Frontier: the category tree is crawled recursively; a page whose
//     navigation carousel is empty is a leaf and yields a product listing.
//   - Two-stage products: every product detail fetch chains into a review
//     API fetch; the partial record travels inside the review task and is
//     finalized when the reviews arrive (or degrade to an empty list).
//   - Pipeline: a per-run visited set admits each canonical product URL
//     once; admitted records go to Postgres synchronously and to OpenSearch
//     in bulk batches, with the index dropped and rebuilt per run.
//   - Fetching: Colly performs static fetches; when a page comes back as an
//     unhydrated shell, an optional Chromedp renderer refetches it.
//   - Plumbing: Viper populates config from file and CRAWLER_* env vars,
//     zap provides structured logging, Prometheus metrics are exported on
//     the ops port next to /healthz.
package main

import "github.com/furnishdata/catalogue-crawler/cmd"

func main() {
	cmd.Execute()
}
