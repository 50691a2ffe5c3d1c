// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package guide builds the manual completion guide that accompanies the
// extracted party records.
package guide

import (
	"fmt"

	"github.com/pdiddy/ecn-parties/internal/extract"
	"github.com/pdiddy/ecn-parties/pkg/types"
)

// MinutesPerParty is the estimated manual effort per record.
const MinutesPerParty = 3

// Build returns the completion guide for parties. The first party, if any,
// is included as a sample.
func Build(parties []types.Party) types.Guide {
	g := types.Guide{
		Instructions: types.GuideInstructions{
			Overview: "Complete the missing fields for each party",
			RequiredFields: []string{
				"name (English translation)",
				"symbolName (English translation)",
				"symbolUrl (upload symbol and add path)",
			},
			RecommendedFields: []string{
				"shortName (e.g., NC, UML, Maoist Center)",
				"contactPhone (parse from contactInfo)",
				"chairpersonName (parse from leadershipInfo)",
				"province/district (extract from headquarters)",
				"website (search online)",
				"isMajorParty (true for NC, UML, Maoist, RSP, RPP, JSP)",
			},
			DateConversion: types.DateConversion{
				Info: "Convert BS dates to AD using online converter",
				Tools: []string{
					"https://www.ashesh.com.np/nepali-date-converter/",
					"https://nepalicalendar.rat32.com/index.php",
				},
			},
			SymbolExtraction: types.SymbolExtraction{
				Info: "Extract symbol images from PDF",
				Steps: []string{
					"1. Open PDF in Preview/Adobe",
					"2. Screenshot each symbol",
					"3. Save as PNG in /apps/web/public/party-symbols/",
					"4. Add path like '/party-symbols/nepal-congress.png'",
				},
			},
		},
		Statistics: types.GuideStatistics{
			TotalParties:             len(parties),
			PartiesNeedingCompletion: len(parties),
			EstimatedTime:            fmt.Sprintf("%d minutes (%d min per party)", len(parties)*MinutesPerParty, MinutesPerParty),
		},
	}

	if len(parties) > 0 {
		sample := parties[0]
		g.SampleParty = &sample
	}
	return g
}

// Write builds the guide for parties and saves it to path.
func Write(path string, parties []types.Party) error {
	return extract.SaveJSON(path, Build(parties))
}
