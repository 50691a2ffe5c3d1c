// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize fills the party fields that can be derived from the
// extracted cells without translation or calendar conversion: ASCII
// registration numbers, ISO-shaped BS dates, province and district from the
// headquarters address, leader names from the leadership cell, and the
// major-party flag. Fields that already hold a value are left alone.
package normalize

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/pdiddy/ecn-parties/pkg/types"
)

// Summary counts the parties touched by each normalization step.
type Summary struct {
	Parties   int
	Numbers   int
	Dates     int
	Locations int
	Leaders   int
	Major     int
}

// Apply normalizes parties in place, printing one line per changed party to w.
func Apply(parties []types.Party, w io.Writer, log *zap.Logger) Summary {
	if log == nil {
		log = zap.NewNop()
	}

	var s Summary
	for i := range parties {
		p := &parties[i]
		s.Parties++

		var changed []string
		if normalizeNumber(p) {
			s.Numbers++
			changed = append(changed, "number")
		}
		if normalizeDates(p) {
			s.Dates++
			changed = append(changed, "dates")
		}
		if fillLocation(p) {
			s.Locations++
			changed = append(changed, "location")
		}
		if fillLeaders(p) {
			s.Leaders++
			changed = append(changed, "leaders")
		}
		if !p.IsMajorParty && IsMajor(types.Deref(p.NameNepali)) {
			p.IsMajorParty = true
			s.Major++
			changed = append(changed, "major")
		}

		if len(changed) > 0 {
			fmt.Fprintf(w, "normalized: %s %v\n", p.DisplayName(), changed)
			log.Debug("party normalized", zap.String("key", p.Key()), zap.Strings("steps", changed))
		}
	}

	fmt.Fprintf(w, "\nNormalize summary: %d numbers, %d dates, %d locations, %d leaders, %d major (total: %d)\n",
		s.Numbers, s.Dates, s.Locations, s.Leaders, s.Major, s.Parties)
	return s
}

func normalizeNumber(p *types.Party) bool {
	if p.RegistrationNumber == nil {
		return false
	}
	n := Digits(StripCitations(*p.RegistrationNumber))
	if n == "" || n == *p.RegistrationNumber {
		return false
	}
	p.RegistrationNumber = types.Str(n)
	return true
}

func normalizeDates(p *types.Party) bool {
	changed := false
	for _, field := range []**string{&p.ApplicationDateBs, &p.RegistrationDateBs, &p.RenewalDateBs} {
		if *field == nil {
			continue
		}
		d, ok := BSDate(**field)
		if !ok || d == **field {
			continue
		}
		*field = types.Str(d)
		changed = true
	}
	return changed
}

func fillLocation(p *types.Party) bool {
	if p.Headquarters == nil || (p.Province != nil && p.District != nil) {
		return false
	}
	loc, ok := LookupLocation(*p.Headquarters)
	if !ok {
		return false
	}
	if p.Province == nil {
		p.Province = types.Str(loc.Province)
	}
	if p.District == nil {
		p.District = types.Str(loc.District)
	}
	return true
}

func fillLeaders(p *types.Party) bool {
	if p.LeadershipInfo == nil {
		return false
	}
	changed := false
	if p.ChairpersonNameNepali == nil {
		if name := Chairperson(*p.LeadershipInfo); name != "" {
			p.ChairpersonNameNepali = types.Str(name)
			changed = true
		}
	}
	if p.GeneralSecretaryNameNepali == nil {
		if name := GeneralSecretary(*p.LeadershipInfo); name != "" {
			p.GeneralSecretaryNameNepali = types.Str(name)
			changed = true
		}
	}
	return changed
}
