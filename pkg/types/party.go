// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strconv"

// VerificationStatus tracks whether a party record has been checked by a human.
type VerificationStatus string

const (
	VerificationPending     VerificationStatus = "PENDING"
	VerificationNeedsReview VerificationStatus = "NEEDS_REVIEW"
	VerificationVerified    VerificationStatus = "VERIFIED"
)

// DefaultDataSource labels records extracted from the 2080 BS ECN registration PDF.
const DefaultDataSource = "ECN-2080-PDF"

// Party is one political party registration record. The first eight fields
// are read positionally from a table row; the rest are left null for manual
// completion. Nil pointers serialize as JSON null.
//
// Field order is the on-disk key order of parties-extracted.json.
type Party struct {
	RegistrationNumber *string `json:"registrationNumber" yaml:"registrationNumber"`
	NameNepali         *string `json:"nameNepali" yaml:"nameNepali"`
	ApplicationDateBs  *string `json:"applicationDateBs" yaml:"applicationDateBs"`
	RegistrationDateBs *string `json:"registrationDateBs" yaml:"registrationDateBs"`
	Headquarters       *string `json:"headquarters" yaml:"headquarters"`
	ContactInfo        *string `json:"contactInfo" yaml:"contactInfo"`
	LeadershipInfo     *string `json:"leadershipInfo" yaml:"leadershipInfo"`
	SymbolNameNepali   *string `json:"symbolNameNepali" yaml:"symbolNameNepali"`

	// Manual completion fields.
	Name                       *string `json:"name" yaml:"name"`
	ShortName                  *string `json:"shortName" yaml:"shortName"`
	ShortNameNepali            *string `json:"shortNameNepali" yaml:"shortNameNepali"`
	ApplicationDateAd          *string `json:"applicationDateAd" yaml:"applicationDateAd"`
	RegistrationDateAd         *string `json:"registrationDateAd" yaml:"registrationDateAd"`
	RenewalDateBs              *string `json:"renewalDateBs" yaml:"renewalDateBs"`
	RenewalDateAd              *string `json:"renewalDateAd" yaml:"renewalDateAd"`
	Province                   *string `json:"province" yaml:"province"`
	District                   *string `json:"district" yaml:"district"`
	ContactPhone               *string `json:"contactPhone" yaml:"contactPhone"`
	ContactEmail               *string `json:"contactEmail" yaml:"contactEmail"`
	ChairpersonName            *string `json:"chairpersonName" yaml:"chairpersonName"`
	ChairpersonNameNepali      *string `json:"chairpersonNameNepali" yaml:"chairpersonNameNepali"`
	GeneralSecretaryName       *string `json:"generalSecretaryName" yaml:"generalSecretaryName"`
	GeneralSecretaryNameNepali *string `json:"generalSecretaryNameNepali" yaml:"generalSecretaryNameNepali"`
	SymbolName                 *string `json:"symbolName" yaml:"symbolName"`
	SymbolURL                  *string `json:"symbolUrl" yaml:"symbolUrl"`
	SymbolDescription          *string `json:"symbolDescription" yaml:"symbolDescription"`
	FoundedYear                *int    `json:"foundedYear" yaml:"foundedYear"`
	Website                    *string `json:"website" yaml:"website"`
	Ideology                   *string `json:"ideology" yaml:"ideology"`

	IsActive           bool               `json:"isActive" yaml:"isActive"`
	IsMajorParty       bool               `json:"isMajorParty" yaml:"isMajorParty"`
	DataSource         string             `json:"dataSource" yaml:"dataSource"`
	VerificationStatus VerificationStatus `json:"verificationStatus" yaml:"verificationStatus"`

	// Extraction provenance, kept for debugging and removed before import.
	PageNumber  int    `json:"_pageNumber" yaml:"_pageNumber"`
	RowIndex    int    `json:"_rowIndex" yaml:"_rowIndex"`
	RawRow      string `json:"_rawRow" yaml:"_rawRow"`
	ExtractedAt string `json:"_extractedAt" yaml:"_extractedAt"`
}

// DisplayName returns the Nepali name, or "Unknown" when the row had none.
func (p Party) DisplayName() string {
	if p.NameNepali == nil {
		return "Unknown"
	}
	return *p.NameNepali
}

// Key returns the identifier the store uses for this party: the registration
// number when present, otherwise the page/row position.
func (p Party) Key() string {
	if p.RegistrationNumber != nil && *p.RegistrationNumber != "" {
		return *p.RegistrationNumber
	}
	return "p" + strconv.Itoa(p.PageNumber) + "r" + strconv.Itoa(p.RowIndex)
}

// Str returns a pointer to s, for filling nullable fields.
func Str(s string) *string {
	return &s
}

// Deref returns *s or "" when s is nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
