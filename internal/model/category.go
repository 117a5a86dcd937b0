package model

// Category is one entry of the fixed destination category set.
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}
