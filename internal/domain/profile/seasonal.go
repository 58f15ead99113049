package profile

import "time"

// Season is one of the four listening seasons.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// SeasonOf maps a point in time to its season by fixed month buckets:
// Mar-May spring, Jun-Aug summer, Sep-Nov fall, Dec-Feb winter.
func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonFall
	default:
		return SeasonWinter
	}
}

// defaultSeasonal holds plausible genre-to-season associations, used
// whenever no per-user seasonal analysis is available.
func defaultSeasonal() map[Season][]string {
	return map[Season][]string{
		SeasonSpring: {"progressive house", "melodic house"},
		SeasonSummer: {"edm", "festival", "dance"},
		SeasonFall:   {"techno", "deep house"},
		SeasonWinter: {"trance", "ambient", "downtempo"},
	}
}
