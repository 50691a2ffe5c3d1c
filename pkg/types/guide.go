// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Guide is the manual completion guide written next to the extracted
// records. It tells the person finishing the data which null fields need
// entry and how to fill them.
type Guide struct {
	Instructions GuideInstructions `json:"instructions" yaml:"instructions"`
	Statistics   GuideStatistics   `json:"statistics" yaml:"statistics"`

	// SampleParty is the first extracted record, or nil when none were found.
	SampleParty *Party `json:"sample_party" yaml:"sample_party"`
}

// GuideInstructions lists the fields to complete and the tools to use.
type GuideInstructions struct {
	Overview          string           `json:"overview" yaml:"overview"`
	RequiredFields    []string         `json:"required_fields" yaml:"required_fields"`
	RecommendedFields []string         `json:"recommended_fields" yaml:"recommended_fields"`
	DateConversion    DateConversion   `json:"date_conversion" yaml:"date_conversion"`
	SymbolExtraction  SymbolExtraction `json:"symbol_extraction" yaml:"symbol_extraction"`
}

// DateConversion points at converters for BS→AD dates, which are filled by hand.
type DateConversion struct {
	Info  string   `json:"info" yaml:"info"`
	Tools []string `json:"tools" yaml:"tools"`
}

// SymbolExtraction describes how to capture election symbol images by hand.
type SymbolExtraction struct {
	Info  string   `json:"info" yaml:"info"`
	Steps []string `json:"steps" yaml:"steps"`
}

// GuideStatistics summarises the size of the manual completion job.
type GuideStatistics struct {
	TotalParties             int    `json:"total_parties" yaml:"total_parties"`
	PartiesNeedingCompletion int    `json:"parties_needing_completion" yaml:"parties_needing_completion"`
	EstimatedTime            string `json:"estimated_time" yaml:"estimated_time"`
}
