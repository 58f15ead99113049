package features

import (
	"sort"
	"strings"

	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
)

// genreDefaults maps a genre keyword to a typical feature vector. EDM
// subgenres carry higher confidence than the catch-all and non-electronic
// entries because their sonic signature is narrower.
var genreDefaults = map[string]model.AudioFeatures{
	"techno":            {Energy: 0.85, Danceability: 0.80, Valence: 0.40, Tempo: 130, Acousticness: 0.05, Instrumentalness: 0.80, Speechiness: 0.05, Confidence: 0.75},
	"acid techno":       {Energy: 0.88, Danceability: 0.78, Valence: 0.38, Tempo: 135, Acousticness: 0.03, Instrumentalness: 0.85, Speechiness: 0.04, Confidence: 0.75},
	"melodic techno":    {Energy: 0.75, Danceability: 0.72, Valence: 0.45, Tempo: 124, Acousticness: 0.08, Instrumentalness: 0.78, Speechiness: 0.04, Confidence: 0.73},
	"house":             {Energy: 0.78, Danceability: 0.85, Valence: 0.60, Tempo: 124, Acousticness: 0.08, Instrumentalness: 0.60, Speechiness: 0.06, Confidence: 0.75},
	"deep house":        {Energy: 0.65, Danceability: 0.80, Valence: 0.55, Tempo: 120, Acousticness: 0.12, Instrumentalness: 0.65, Speechiness: 0.05, Confidence: 0.73},
	"tech house":        {Energy: 0.80, Danceability: 0.85, Valence: 0.50, Tempo: 126, Acousticness: 0.05, Instrumentalness: 0.70, Speechiness: 0.05, Confidence: 0.73},
	"progressive house": {Energy: 0.74, Danceability: 0.70, Valence: 0.52, Tempo: 126, Acousticness: 0.08, Instrumentalness: 0.68, Speechiness: 0.04, Confidence: 0.72},
	"trance":            {Energy: 0.82, Danceability: 0.65, Valence: 0.55, Tempo: 138, Acousticness: 0.05, Instrumentalness: 0.75, Speechiness: 0.04, Confidence: 0.72},
	"psytrance":         {Energy: 0.90, Danceability: 0.62, Valence: 0.48, Tempo: 145, Acousticness: 0.02, Instrumentalness: 0.88, Speechiness: 0.03, Confidence: 0.70},
	"dubstep":           {Energy: 0.90, Danceability: 0.65, Valence: 0.35, Tempo: 140, Acousticness: 0.03, Instrumentalness: 0.55, Speechiness: 0.10, Confidence: 0.70},
	"drum and bass":     {Energy: 0.92, Danceability: 0.70, Valence: 0.45, Tempo: 174, Acousticness: 0.02, Instrumentalness: 0.65, Speechiness: 0.07, Confidence: 0.72},
	"hardstyle":         {Energy: 0.95, Danceability: 0.60, Valence: 0.40, Tempo: 150, Acousticness: 0.02, Instrumentalness: 0.60, Speechiness: 0.06, Confidence: 0.70},
	"electro":           {Energy: 0.80, Danceability: 0.75, Valence: 0.50, Tempo: 128, Acousticness: 0.05, Instrumentalness: 0.60, Speechiness: 0.06, Confidence: 0.68},
	"future bass":       {Energy: 0.75, Danceability: 0.68, Valence: 0.58, Tempo: 150, Acousticness: 0.08, Instrumentalness: 0.40, Speechiness: 0.08, Confidence: 0.66},
	"trap":              {Energy: 0.78, Danceability: 0.72, Valence: 0.40, Tempo: 140, Acousticness: 0.05, Instrumentalness: 0.35, Speechiness: 0.15, Confidence: 0.65},
	"garage":            {Energy: 0.76, Danceability: 0.80, Valence: 0.55, Tempo: 132, Acousticness: 0.06, Instrumentalness: 0.50, Speechiness: 0.08, Confidence: 0.65},
	"minimal":           {Energy: 0.68, Danceability: 0.74, Valence: 0.42, Tempo: 126, Acousticness: 0.06, Instrumentalness: 0.82, Speechiness: 0.04, Confidence: 0.68},
	"ambient":           {Energy: 0.30, Danceability: 0.35, Valence: 0.45, Tempo: 90, Acousticness: 0.45, Instrumentalness: 0.85, Speechiness: 0.03, Confidence: 0.60},
	"downtempo":         {Energy: 0.40, Danceability: 0.55, Valence: 0.48, Tempo: 100, Acousticness: 0.30, Instrumentalness: 0.70, Speechiness: 0.05, Confidence: 0.60},
	"edm":               {Energy: 0.82, Danceability: 0.75, Valence: 0.58, Tempo: 128, Acousticness: 0.05, Instrumentalness: 0.40, Speechiness: 0.07, Confidence: 0.65},
	"dance":             {Energy: 0.80, Danceability: 0.82, Valence: 0.62, Tempo: 125, Acousticness: 0.08, Instrumentalness: 0.35, Speechiness: 0.07, Confidence: 0.62},
	"electronic":        {Energy: 0.75, Danceability: 0.70, Valence: 0.50, Tempo: 125, Acousticness: 0.10, Instrumentalness: 0.55, Speechiness: 0.06, Confidence: 0.60},
	"pop":               {Energy: 0.68, Danceability: 0.66, Valence: 0.60, Tempo: 118, Acousticness: 0.20, Instrumentalness: 0.05, Speechiness: 0.08, Confidence: 0.55},
	"hip hop":           {Energy: 0.70, Danceability: 0.75, Valence: 0.50, Tempo: 95, Acousticness: 0.12, Instrumentalness: 0.05, Speechiness: 0.25, Confidence: 0.55},
	"rock":              {Energy: 0.80, Danceability: 0.50, Valence: 0.52, Tempo: 125, Acousticness: 0.15, Instrumentalness: 0.10, Speechiness: 0.06, Confidence: 0.55},
	"jazz":              {Energy: 0.45, Danceability: 0.50, Valence: 0.55, Tempo: 110, Acousticness: 0.60, Instrumentalness: 0.50, Speechiness: 0.05, Confidence: 0.55},
}

// genreKeys ordered longest first so "deep house" wins over "house" when
// both are substrings of the input.
var genreKeys = sortedGenreKeys()

func sortedGenreKeys() []string {
	keys := make([]string, 0, len(genreDefaults))
	for k := range genreDefaults {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// unknownDefault is the floor of the fallback chain: mid-range values at
// low confidence, so scoring still has a full-shape vector to work with.
var unknownDefault = model.AudioFeatures{
	Energy:           0.50,
	Danceability:     0.50,
	Valence:          0.50,
	Tempo:            120,
	Acousticness:     0.20,
	Instrumentalness: 0.30,
	Speechiness:      0.08,
	Confidence:       0.30,
}

// flagshipTracks names one representative track per well-known artist. When
// the live path resolves one of these artists it asks for this track instead
// of whatever the catalog lists first.
var flagshipTracks = map[string]string{
	"charlotte de witte": "Doppler",
	"amelie lens":        "Higher",
	"adam beyer":         "Your Mind",
	"dj snake":           "Turn Down for What",
	"skrillex":           "Bangarang",
	"deadmau5":           "Strobe",
	"eric prydz":         "Opus",
	"carl cox":           "I Want You (Forever)",
	"nina kraviz":        "Ghetto Kraviz",
	"lane 8":             "Brightest Lights",
	"boris brejcha":      "Gravity",
	"tale of us":         "Monument",
	"above & beyond":     "Sun & Moon",
	"armin van buuren":   "This Is What It Feels Like",
	"martin garrix":      "Animals",
}

// genreFallback walks the genres in order (first is considered primary) and
// returns the most specific table entry contained in one of them. The second
// return reports whether any entry matched.
func genreFallback(genres []string) (model.AudioFeatures, bool) {
	for _, genre := range genres {
		lowered := strings.ToLower(genre)
		for _, key := range genreKeys {
			if strings.Contains(lowered, key) {
				v := genreDefaults[key]
				v.Source = model.FeatureSourceFallback
				return v, true
			}
		}
	}
	return model.AudioFeatures{}, false
}

// FlagshipTrack returns the curated representative track for an artist, or
// the empty string when none is curated.
func FlagshipTrack(artistName string) string {
	return flagshipTracks[strings.ToLower(strings.TrimSpace(artistName))]
}
