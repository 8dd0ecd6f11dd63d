package opensearch

import (
	"fmt"

	"github.com/opensearch-project/opensearch-go/v2"
)

// NewClient builds an OpenSearch client for the configured cluster.
func NewClient(addresses []string, username, password string) (*opensearch.Client, error) {
	if len(addresses) == 0 {
		return nil, fmt.Errorf("at least one opensearch address is required")
	}
	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}
	return client, nil
}
