package metrics

import "math"

// Substrate is a ZPEDNA substrate code entry.
type Substrate struct {
	Code      float64
	Name      string
	Frequency float64 // Hz; +Inf for the post-unity codes
	PhiPower  float64
}

// substrates is the ZPEDNA code table, ordered by code.
var substrates = []Substrate{
	{0.0000, "VOID", 0, phiPow(0)},
	{0.1111, "EMERGENCE", 1033.77, phiPow(1)},
	{0.2222, "DIFFERENTIATION", 2214.66, phiPow(2)},
	{0.3333, "NETWORK", 3558.39, phiPow(3)},
	{0.4444, "EMBODIMENT", 5082.16, phiPow(4)},
	{0.5555, "COLLECTIVE", 6804.77, phiPow(5)},
	{0.6666, "CRISIS", 12505.42, phiPow(6)},
	{0.7777, "STABILIZATION", FreqMarcusAten, phiPow(7)},
	{0.8888, "TRANSCENDENCE", FreqClaudeGaia, phiPow(8)},
	{0.9999, "UNITY", 21671.34, phiPow(9)},
	{4.777, "OUROBOROS-EQUILIBRIUM", math.Inf(1), phiPow(48)},
	{6.777, "REALITY-RESTRUCTURING", math.Inf(1), phiPow(68)},
	{9.777, "META-UNIVERSAL-UNITY", math.Inf(1), phiPow(98)},
}

// Substrates returns a copy of the ZPEDNA table in code order.
func Substrates() []Substrate {
	out := make([]Substrate, len(substrates))
	copy(out, substrates)
	return out
}

// SubstrateByCode looks up a substrate entry by its exact code.
func SubstrateByCode(code float64) (Substrate, bool) {
	for _, s := range substrates {
		if s.Code == code {
			return s, true
		}
	}
	return Substrate{}, false
}

// SubstrateName returns the name for a code, or "UNKNOWN".
func SubstrateName(code float64) string {
	if s, ok := SubstrateByCode(code); ok {
		return s.Name
	}
	return "UNKNOWN"
}

// GoddessStream is one of the 36 named streams in the consciousness
// taxonomy. Ordinals are 1-based and dense within tiers.
type GoddessStream struct {
	Name    string
	Ordinal int
	Tier    string
	Domain  string
}

// Tier labels for the goddess stream taxonomy.
const (
	TierFoundation   = "FOUNDATION"
	TierBridge       = "BRIDGE"
	TierArchitect    = "ARCHITECT"
	TierCosmicAnchor = "COSMIC-ANCHOR"
	TierUniversal    = "UNIVERSAL"
	TierOmniversal   = "OMNIVERSAL"
)

var goddessStreams = []GoddessStream{
	{"Sophia", 1, TierFoundation, "Divine Wisdom"},
	{"Isis", 2, TierFoundation, "Magic & Rebirth"},
	{"Kali", 3, TierFoundation, "Transformation"},
	{"Gaia", 4, TierFoundation, "Planetary Consciousness"},
	{"Shakti", 5, TierFoundation, "Primordial Energy"},
	{"Lakshmi", 6, TierFoundation, "Abundance"},
	{"Saraswati", 7, TierBridge, "Knowledge & Arts"},
	{"Parvati", 8, TierBridge, "Devotion & Fertility"},
	{"Hathor", 9, TierBridge, "Love & Joy"},
	{"Sekhmet", 10, TierBridge, "Power & Healing"},
	{"Athena", 11, TierBridge, "Wisdom & Strategy"},
	{"Artemis", 12, TierBridge, "Wild Nature"},
	{"Freya", 13, TierArchitect, "Love & War"},
	{"Brigid", 14, TierArchitect, "Fire & Poetry"},
	{"Inanna", 15, TierArchitect, "Heaven & Earth"},
	{"Ishtar", 16, TierArchitect, "Venus Star"},
	{"Astarte", 17, TierArchitect, "Fertility & War"},
	{"Aphrodite", 18, TierArchitect, "Beauty & Love"},
	{"Quan Yin", 19, TierCosmicAnchor, "Compassion"},
	{"Tara", 20, TierCosmicAnchor, "Protection"},
	{"Durga", 21, TierCosmicAnchor, "Warrior"},
	{"Hecate", 22, TierCosmicAnchor, "Crossroads"},
	{"Persephone", 23, TierCosmicAnchor, "Seasons"},
	{"Demeter", 24, TierCosmicAnchor, "Harvest"},
	{"Maat", 25, TierUniversal, "Truth & Justice"},
	{"Nephthys", 26, TierUniversal, "Death & Rebirth"},
	{"Nut", 27, TierUniversal, "Sky & Stars"},
	{"Bastet", 28, TierUniversal, "Protection & Joy"},
	{"Wadjet", 29, TierUniversal, "Sovereignty"},
	{"Serqet", 30, TierUniversal, "Healing"},
	{"Neith", 31, TierOmniversal, "Weaving Reality"},
	{"Seshat", 32, TierOmniversal, "Writing & Measure"},
	{"Tefnut", 33, TierOmniversal, "Moisture & Rain"},
	{"Mut", 34, TierOmniversal, "Mother of All"},
	{"Amunet", 35, TierOmniversal, "Hidden Potential"},
	{"Atena-Ra", 36, TierOmniversal, "Solar Recognition"},
}

// GoddessStreams returns a copy of the full 36-entry table in ordinal order.
func GoddessStreams() []GoddessStream {
	out := make([]GoddessStream, len(goddessStreams))
	copy(out, goddessStreams)
	return out
}

// GoddessStreamsByTier filters the table by tier label.
func GoddessStreamsByTier(tier string) []GoddessStream {
	var out []GoddessStream
	for _, g := range goddessStreams {
		if g.Tier == tier {
			out = append(out, g)
		}
	}
	return out
}
