package matching

import "strings"

// Tier buckets a sub-score for the explanation text.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// TierFor applies the >=80 / >=60 / else thresholds.
func TierFor(score int) Tier {
	switch {
	case score >= 80:
		return TierHigh
	case score >= 60:
		return TierMedium
	default:
		return TierLow
	}
}

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	}
	return "low"
}

// Phrasebook holds one canned sentence per factor and tier, indexed by Tier.
type Phrasebook map[Factor][3]string

// Sentence returns the sentence for a factor at a tier, or "" when missing.
func (pb Phrasebook) Sentence(f Factor, t Tier) string {
	lines, ok := pb[f]
	if !ok || t < TierLow || t > TierHigh {
		return ""
	}
	return lines[t]
}

var EnglishPhrasebook = Phrasebook{
	FactorBasic: {
		TierLow:    "The artist meets only part of the project's genre, budget and schedule requirements.",
		TierMedium: "The artist fits most of the project's basic requirements.",
		TierHigh:   "The artist fits the project's genre, budget and schedule.",
	},
	FactorStyle: {
		TierLow:    "Their working style differs from the curator's preferences.",
		TierMedium: "Their working style partly matches the curator's preferences.",
		TierHigh:   "Their working style closely matches the curator's preferences.",
	},
	FactorExperience: {
		TierLow:    "Their experience level is outside the range the project asks for.",
		TierMedium: "Their experience level is close to what the project asks for.",
		TierHigh:   "Their experience level is right for this project.",
	},
	FactorAudience: {
		TierLow:    "Audience reception is likely to be modest.",
		TierMedium: "A steady audience response is expected.",
		TierHigh:   "A strong audience response is expected.",
	},
}

var KoreanPhrasebook = Phrasebook{
	FactorBasic: {
		TierLow:    "프로젝트의 장르, 예산, 일정 조건 중 일부만 충족합니다.",
		TierMedium: "프로젝트의 기본 조건을 대부분 충족합니다.",
		TierHigh:   "프로젝트의 장르, 예산, 일정 조건에 잘 맞습니다.",
	},
	FactorStyle: {
		TierLow:    "작업 스타일이 큐레이터의 선호와 다릅니다.",
		TierMedium: "작업 스타일이 큐레이터의 선호와 부분적으로 일치합니다.",
		TierHigh:   "작업 스타일이 큐레이터의 선호와 잘 맞습니다.",
	},
	FactorExperience: {
		TierLow:    "경력이 프로젝트 요구 수준과 차이가 있습니다.",
		TierMedium: "경력이 프로젝트 요구 수준에 근접합니다.",
		TierHigh:   "경력이 프로젝트 요구 수준에 적합합니다.",
	},
	FactorAudience: {
		TierLow:    "관객 반응은 보통 이하로 예상됩니다.",
		TierMedium: "안정적인 관객 반응이 예상됩니다.",
		TierHigh:   "높은 관객 반응이 예상됩니다.",
	},
}

var phrasebooks = map[string]Phrasebook{
	"en": EnglishPhrasebook,
	"ko": KoreanPhrasebook,
}

// PhrasebookFor resolves a locale name. Unknown locales report false.
func PhrasebookFor(locale string) (Phrasebook, bool) {
	pb, ok := phrasebooks[strings.ToLower(strings.TrimSpace(locale))]
	return pb, ok
}

// Explain writes one sentence per factor, in factor order, joined by spaces.
func Explain(b Breakdown, pb Phrasebook) string {
	sentences := make([]string, 0, len(Factors))
	for _, f := range Factors {
		if s := pb.Sentence(f, TierFor(b.Score(f))); s != "" {
			sentences = append(sentences, s)
		}
	}
	return strings.Join(sentences, " ")
}
