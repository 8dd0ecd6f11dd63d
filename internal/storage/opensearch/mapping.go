package opensearch

// indexMapping is the fixed schema provisioned before every run. The index is
// dropped and recreated from scratch so a field-type change here is never
// silently rejected by a stale mapping.
//
// Reviews are denormalized as a nested sub-structure, and every secondary
// rating across a product's reviews is additionally flattened into the
// top-level secondary_ratings list so cross-review aggregations need no join.
const indexMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0
  },
  "mappings": {
    "properties": {
      "url":                 {"type": "keyword"},
      "product_id":          {"type": "keyword"},
      "name":                {"type": "text"},
      "description":         {"type": "text"},
      "price":               {"type": "double"},
      "image_url":           {"type": "keyword", "index": false},
      "category_hierarchy":  {"type": "keyword"},
      "rating":              {"type": "float"},
      "review_count":        {"type": "integer"},
      "commercial_messages": {"type": "keyword"},
      "has_reviews":         {"type": "boolean"},
      "crawled_at":          {"type": "date"},
      "reviews": {
        "type": "nested",
        "properties": {
          "id":           {"type": "keyword"},
          "title":        {"type": "text"},
          "text":         {"type": "text"},
          "reviewer":     {"type": "keyword"},
          "rating":       {"type": "float"},
          "rating_scale": {"type": "integer"},
          "submitted_at": {"type": "date"},
          "locale":       {"type": "keyword"}
        }
      },
      "secondary_ratings": {
        "type": "nested",
        "properties": {
          "review_id": {"type": "keyword"},
          "label":     {"type": "keyword"},
          "value":     {"type": "float"},
          "scale":     {"type": "integer"}
        }
      }
    }
  }
}`
