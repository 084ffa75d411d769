package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	assert.Equal(t, TierHigh, TierFor(100))
	assert.Equal(t, TierHigh, TierFor(80))
	assert.Equal(t, TierMedium, TierFor(79))
	assert.Equal(t, TierMedium, TierFor(60))
	assert.Equal(t, TierLow, TierFor(59))
	assert.Equal(t, TierLow, TierFor(0))
	assert.Equal(t, "medium", TierMedium.String())
}

func TestExplain_OrderAndTiers(t *testing.T) {
	b := Breakdown{Basic: 100, Style: 0, Experience: 60, Audience: 79}
	got := Explain(b, EnglishPhrasebook)

	want := strings.Join([]string{
		EnglishPhrasebook[FactorBasic][TierHigh],
		EnglishPhrasebook[FactorStyle][TierLow],
		EnglishPhrasebook[FactorExperience][TierMedium],
		EnglishPhrasebook[FactorAudience][TierMedium],
	}, " ")
	assert.Equal(t, want, got)
}

func TestExplain_TierUsesRoundedScore(t *testing.T) {
	// 79.6 rounds to 80 and is described as high.
	_, b, text := Aggregate(SubScores{Basic: 79.6}, EnglishPhrasebook)
	assert.Equal(t, 80, b.Basic)
	assert.True(t, strings.HasPrefix(text, EnglishPhrasebook[FactorBasic][TierHigh]))
}

func TestPhrasebooks_Complete(t *testing.T) {
	for _, locale := range []string{"en", "ko", " KO "} {
		pb, ok := PhrasebookFor(locale)
		require.True(t, ok, locale)
		for _, f := range Factors {
			for tier := TierLow; tier <= TierHigh; tier++ {
				assert.NotEmpty(t, pb.Sentence(f, tier), "%s %s %s", locale, f, tier)
			}
		}
	}
	_, ok := PhrasebookFor("fr")
	assert.False(t, ok)
}

func TestPhrasebook_MissingEntries(t *testing.T) {
	pb := Phrasebook{FactorStyle: {"a", "b", "c"}}
	assert.Equal(t, "", pb.Sentence(FactorBasic, TierHigh))
	assert.Equal(t, "", pb.Sentence(FactorStyle, Tier(7)))
	assert.Equal(t, "c", Explain(Breakdown{Style: 90}, pb))
}
