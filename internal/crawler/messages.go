package crawler

import "encoding/json"

// MessageTags is the ordered sequence of commercial-message tags on a record
// ("Nouveau", "Prix le plus bas", "Réduction 21%"). The source data carries
// the field in two incompatible shapes, a bare string in older documents and
// a list of tags in newer ones; both unmarshal into the same normalized
// sequence so the ambiguity never reaches the sinks.
type MessageTags []string

// UnmarshalJSON accepts either a single string or a list of strings.
func (m *MessageTags) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*m = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	if one == "" {
		*m = nil
		return nil
	}
	*m = MessageTags{one}
	return nil
}

// Contains reports whether tag is present.
func (m MessageTags) Contains(tag string) bool {
	for _, t := range m {
		if t == tag {
			return true
		}
	}
	return false
}
