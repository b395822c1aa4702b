package progression

// Threshold maps a tier to the minimum value that reaches it. Tables are
// ordered ascending; lookup picks the highest tier whose threshold is met.
type Threshold struct {
	Min  float64
	Tier int
	Name string
}

// RankUnranked is the sentinel for players whose rating has not reached the
// lowest rank threshold.
const RankUnranked = 0

var levelTable = []Threshold{
	{Min: 0, Tier: 1, Name: "Level 1"},
	{Min: 100, Tier: 2, Name: "Level 2"},
	{Min: 250, Tier: 3, Name: "Level 3"},
	{Min: 500, Tier: 4, Name: "Level 4"},
	{Min: 1000, Tier: 5, Name: "Level 5"},
	{Min: 2000, Tier: 6, Name: "Level 6"},
	{Min: 4000, Tier: 7, Name: "Level 7"},
	{Min: 7000, Tier: 8, Name: "Level 8"},
	{Min: 11000, Tier: 9, Name: "Level 9"},
	{Min: 16000, Tier: 10, Name: "Level 10"},
}

var rankTable = []Threshold{
	{Min: 800, Tier: 1, Name: "Bronze"},
	{Min: 1000, Tier: 2, Name: "Silver"},
	{Min: 1200, Tier: 3, Name: "Gold"},
	{Min: 1450, Tier: 4, Name: "Platinum"},
	{Min: 1700, Tier: 5, Name: "Diamond"},
	{Min: 2000, Tier: 6, Name: "Master"},
}

// LevelFor returns the highest level whose XP threshold is at or below xp.
func LevelFor(xp float64) int {
	level := levelTable[0].Tier
	for _, t := range levelTable {
		if xp >= t.Min {
			level = t.Tier
		}
	}
	return level
}

// RankFor returns the highest rank whose rating threshold is at or below
// rating, with an anti-demotion floor: a player whose previous rank was the
// lowest real tier never resolves back to unranked, however far the rating
// falls. Ranks degrade to a floor, not to "never ranked".
func RankFor(rating int, previousRank int) (int, string) {
	rank := RankUnranked
	name := "Unranked"
	for _, t := range rankTable {
		if float64(rating) >= t.Min {
			rank = t.Tier
			name = t.Name
		}
	}

	lowest := rankTable[0]
	if rank == RankUnranked && previousRank >= lowest.Tier {
		return lowest.Tier, lowest.Name
	}
	return rank, name
}

// RankName resolves the display name for a stored rank tier.
func RankName(rank int) string {
	for _, t := range rankTable {
		if t.Tier == rank {
			return t.Name
		}
	}
	return "Unranked"
}
