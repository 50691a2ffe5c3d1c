// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"
)

// Location is a district and the province it belongs to.
type Location struct {
	District string
	Province string
}

// districts maps the Nepali spelling of a district to its location. Order
// matters: the first district named in a headquarters address wins.
var districts = []struct {
	nepali string
	loc    Location
}{
	{"काठमाडौं", Location{"Kathmandu", "Bagmati"}},
	{"भक्तपुर", Location{"Bhaktapur", "Bagmati"}},
	{"ललितपुर", Location{"Lalitpur", "Bagmati"}},
	{"धनुषा", Location{"Dhanusha", "Madhesh"}},
	{"रौतहट", Location{"Rautahat", "Madhesh"}},
	{"सर्लाही", Location{"Sarlahi", "Madhesh"}},
	{"पर्सा", Location{"Parsa", "Madhesh"}},
	{"सुनसरी", Location{"Sunsari", "Koshi"}},
	{"मोरङ", Location{"Morang", "Koshi"}},
	{"झापा", Location{"Jhapa", "Koshi"}},
	{"बारा", Location{"Bara", "Madhesh"}},
	{"सिरहा", Location{"Siraha", "Madhesh"}},
	{"सप्तरी", Location{"Saptari", "Madhesh"}},
	{"महोत्तरी", Location{"Mahottari", "Madhesh"}},
	{"चितवन", Location{"Chitwan", "Bagmati"}},
	{"मकवानपुर", Location{"Makwanpur", "Bagmati"}},
	{"कास्की", Location{"Kaski", "Gandaki"}},
	{"रुपन्देही", Location{"Rupandehi", "Lumbini"}},
	{"बाँके", Location{"Banke", "Lumbini"}},
	{"सुर्खेत", Location{"Surkhet", "Karnali"}},
	{"कैलाली", Location{"Kailali", "Sudurpashchim"}},
}

// LookupLocation finds the first known district named in a headquarters
// address.
func LookupLocation(headquarters string) (Location, bool) {
	for _, d := range districts {
		if strings.Contains(headquarters, d.nepali) {
			return d.loc, true
		}
	}
	return Location{}, false
}

var (
	// leaderTitle matches a leading office title: chair, president,
	// general secretary, convener. The separator is a visarga or a colon.
	leaderTitle = regexp.MustCompile(`^(अध्यक्ष|सभापति|महासचिव|संयोजक|प्रेसिडेण्ट)\s*[ः:]\s*`)

	// secretaryTitle marks the general secretary within a leadership cell.
	secretaryTitle = regexp.MustCompile(`महासचिव\s*[ः:]\s*`)
)

// Chairperson returns the leader's Nepali name from a leadership cell with
// the office title removed. When the cell also names a general secretary,
// only the text before that title is kept.
func Chairperson(leadership string) string {
	s := StripCitations(leadership)
	if loc := secretaryTitle.FindStringIndex(s); loc != nil && loc[0] > 0 {
		s = s[:loc[0]]
	}
	s = leaderTitle.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.Trim(s, " ,;।")
}

// GeneralSecretary returns the Nepali name following the general secretary
// title, or "" when the cell names none.
func GeneralSecretary(leadership string) string {
	s := StripCitations(leadership)
	loc := secretaryTitle.FindStringIndex(s)
	if loc == nil {
		return ""
	}
	return strings.Trim(s[loc[1]:], " ,;।")
}

// majorParties lists the Nepali names of the parties treated as major,
// based on the 2022 election results.
var majorParties = setOf(
	"नेपाली काँग्रेस",
	"नेपाल कम्युनिष्ट पार्टी (एकीकृत मार्क्सवादी लेलिनवादी)",
	"नेपाल कम्युनिष्ट पार्टी (माओवादी केन्द्र)",
	"राष्ट्रिय स्वतन्त्र पार्टी",
	"राष्ट्रिय प्रजातन्त्र पार्टी नेपाल",
	"नेपाल कम्युनिष्ट पार्टी (एकीकृत समाजवादी)",
	"जनता समाजवादी पार्टी, नेपाल",
	"लोकतान्त्रिक समाजवादी पार्टी नेपाल",
	"राष्ट्रिय जनमोर्चा",
)

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// IsMajor reports whether nameNepali is one of the major parties.
func IsMajor(nameNepali string) bool {
	return majorParties[strings.TrimSpace(nameNepali)]
}
