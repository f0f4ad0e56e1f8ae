package skills

// Tier is the proficiency tier of a skill group, derived from the number
// of attempts only.
type Tier string

const (
	TierUnrated     Tier = "unrated"
	TierNovice      Tier = "novice"
	TierPersistent  Tier = "persistent"
	TierExperienced Tier = "experienced"
	TierMaster      Tier = "master"
)

// Tier lower bounds (inclusive).
const (
	PersistentMinTotal  = 10
	ExperiencedMinTotal = 25
	MasterMinTotal      = 50
)

// TierFor maps an attempt count to a tier.
func TierFor(total int) Tier {
	switch {
	case total <= 0:
		return TierUnrated
	case total < PersistentMinTotal:
		return TierNovice
	case total < ExperiencedMinTotal:
		return TierPersistent
	case total < MasterMinTotal:
		return TierExperienced
	default:
		return TierMaster
	}
}

// DisplayName returns a human-readable label for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierNovice:
		return "Novice"
	case TierPersistent:
		return "Persistent"
	case TierExperienced:
		return "Experienced"
	case TierMaster:
		return "Master"
	default:
		return "Unrated"
	}
}

// Band is the accuracy band of a skill group.
type Band string

const (
	BandUnrated     Band = "unrated"
	BandDeveloping  Band = "developing"
	BandProgressing Band = "progressing"
	BandStrong      Band = "strong"
)

// BandFor maps correct/total to an accuracy band.
func BandFor(correct, total int) Band {
	if total <= 0 {
		return BandUnrated
	}
	// Integer comparison keeps the boundaries exact: 50% and 80% belong to
	// the upper band.
	switch {
	case correct*2 < total:
		return BandDeveloping
	case correct*5 < total*4:
		return BandProgressing
	default:
		return BandStrong
	}
}

// DisplayName returns a human-readable label for the band.
func (b Band) DisplayName() string {
	switch b {
	case BandDeveloping:
		return "Developing"
	case BandProgressing:
		return "Progressing"
	case BandStrong:
		return "Strong"
	default:
		return "Unrated"
	}
}
