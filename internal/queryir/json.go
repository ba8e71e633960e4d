package queryir

import "encoding/json"

// Conditions marshal with a "kind" discriminator so the JSON form of a
// ParsedQuery is self-describing.

func (c Comparison) MarshalJSON() ([]byte, error) {
	type plain Comparison
	return json.Marshal(struct {
		Kind string `json:"kind"`
		plain
	}{"comparison", plain(c)})
}

func (f FreeText) MarshalJSON() ([]byte, error) {
	type plain FreeText
	return json.Marshal(struct {
		Kind string `json:"kind"`
		plain
	}{"free_text", plain(f)})
}

func (e IsEmpty) MarshalJSON() ([]byte, error) {
	type plain IsEmpty
	return json.Marshal(struct {
		Kind string `json:"kind"`
		plain
	}{"is_empty", plain(e)})
}

func (e IsNotEmpty) MarshalJSON() ([]byte, error) {
	type plain IsNotEmpty
	return json.Marshal(struct {
		Kind string `json:"kind"`
		plain
	}{"is_not_empty", plain(e)})
}
