// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package guide

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ecn-parties/pkg/types"
)

func TestBuild_Statistics(t *testing.T) {
	tests := []struct {
		name     string
		parties  []types.Party
		wantTime string
	}{
		{name: "no parties", parties: nil, wantTime: "0 minutes (3 min per party)"},
		{name: "one party", parties: make([]types.Party, 1), wantTime: "3 minutes (3 min per party)"},
		{name: "many parties", parties: make([]types.Party, 120), wantTime: "360 minutes (3 min per party)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.parties)
			assert.Equal(t, len(tt.parties), g.Statistics.TotalParties)
			assert.Equal(t, len(tt.parties), g.Statistics.PartiesNeedingCompletion)
			assert.Equal(t, tt.wantTime, g.Statistics.EstimatedTime)
		})
	}
}

func TestBuild_SampleParty(t *testing.T) {
	assert.Nil(t, Build(nil).SampleParty)

	parties := []types.Party{
		{NameNepali: types.Str("नेपाली काँग्रेस")},
		{NameNepali: types.Str("राष्ट्रिय जनमोर्चा")},
	}
	g := Build(parties)
	require.NotNil(t, g.SampleParty)
	assert.Equal(t, "नेपाली काँग्रेस", types.Deref(g.SampleParty.NameNepali))

	// The sample is a copy; editing it leaves the records alone.
	g.SampleParty.NameNepali = nil
	assert.NotNil(t, parties[0].NameNepali)
}

func TestBuild_Instructions(t *testing.T) {
	g := Build(nil)
	assert.Len(t, g.Instructions.RequiredFields, 3)
	assert.Contains(t, g.Instructions.RequiredFields, "symbolUrl (upload symbol and add path)")
	assert.Len(t, g.Instructions.RecommendedFields, 6)
	assert.Len(t, g.Instructions.DateConversion.Tools, 2)
	assert.Len(t, g.Instructions.SymbolExtraction.Steps, 4)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "parties-completion-guide.json")
	parties := []types.Party{{NameNepali: types.Str("नेपाली काँग्रेस"), IsActive: true}}

	require.NoError(t, Write(path, parties))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "{\n  \"instructions\": {"), "two-space indented object")
	assert.Contains(t, content, `"nameNepali": "नेपाली काँग्रेस"`, "Devanagari is not escaped")
	assert.Contains(t, content, `"name": null`)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "instructions")
	assert.Contains(t, decoded, "statistics")
	assert.Contains(t, decoded, "sample_party")

	require.NoError(t, Write(path, nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sample_party": null`)
}
