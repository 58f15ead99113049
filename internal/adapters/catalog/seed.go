package catalog

import "github.com/Sonar-glitch/sonar-match/internal/domain/resolver"

// DefaultSeed returns the built-in electronic music roster. It is a
// starting point, not an authority: live discovery registers artists it
// meets, and registered entries overwrite seed entries of the same name.
func DefaultSeed() []resolver.Artist {
	return []resolver.Artist{
		{Name: "Charlotte de Witte", Genres: []string{"techno", "acid techno"}, CatalogID: "1lJhME1ZpzsEa5M0wW6Mso"},
		{Name: "Amelie Lens", Genres: []string{"techno"}, CatalogID: "3EjCdkyxdZOSmSvUeYibMY"},
		{Name: "Adam Beyer", Genres: []string{"techno", "tech house"}, CatalogID: "0Mz5XE0kb1GBnbLQm2VbcO"},
		{Name: "Nina Kraviz", Genres: []string{"techno", "acid techno"}, CatalogID: "5gqvkErVdkGrPnIgDzXMGC"},
		{Name: "Richie Hawtin", OriginalName: "Plastikman", Genres: []string{"minimal", "techno"}, CatalogID: "7CjHDd2lu7sLUo8jSpHVS7"},
		{Name: "Carl Cox", Genres: []string{"techno", "house"}, CatalogID: "162DCkd8aDKwvjBb74Gu8b"},
		{Name: "Boris Brejcha", Genres: []string{"minimal", "techno"}, CatalogID: "6caPJFPMeMDTRUFqSUHF3g"},
		{Name: "Tale of Us", Genres: []string{"melodic techno"}, CatalogID: "7wQpAvDczPYqHTWrhX5HnP"},
		{Name: "Solomun", Genres: []string{"deep house", "melodic techno"}, CatalogID: "5mRRa4hjB6HPYTUSxwHh9V"},
		{Name: "Dixon", Genres: []string{"deep house"}, CatalogID: "4oCdvOumlUAUTsiFy1BLQQ"},
		{Name: "Peggy Gou", Genres: []string{"house", "techno"}, CatalogID: "2eSaVLTrLnayvZfWngFB8w"},
		{Name: "Fisher", Genres: []string{"tech house"}, CatalogID: "2CCvIEpW1n2eWIHXvGIDgv"},
		{Name: "Chris Lake", Genres: []string{"tech house", "house"}, CatalogID: "6hEKTBBYREXQt2cRl3pqBt"},
		{Name: "Disclosure", Genres: []string{"house", "garage"}, CatalogID: "6nS5roXSAGhTGr34W6n7Et"},
		{Name: "Fred again..", Genres: []string{"house", "electronic"}, CatalogID: "4oLeXFyACqeem2VImYeBFe"},
		{Name: "Four Tet", OriginalName: "Kieran Hebden", Genres: []string{"electronic", "ambient"}, CatalogID: "7Eu1txygG6nJttLHbZdQOh"},
		{Name: "Bonobo", OriginalName: "Simon Green", Genres: []string{"downtempo", "electronic"}, CatalogID: "0cmWgDlu9CwTgxPhf403hb"},
		{Name: "Lane 8", Genres: []string{"progressive house", "deep house"}, CatalogID: "6tbLPxj1uQ6vsRQZI2YFCT"},
		{Name: "Ben Bohmer", Genres: []string{"melodic techno", "progressive house"}, CatalogID: "5tDjiBYUsTqzd0RkTZxK7u"},
		{Name: "Yotto", Genres: []string{"progressive house", "deep house"}, CatalogID: "4SsVbpTthjScTDgLMzolYT"},
		{Name: "Above & Beyond", Genres: []string{"trance", "progressive house"}, CatalogID: "10gzBoINW3cLJfZUka8Zoe"},
		{Name: "Armin van Buuren", Genres: []string{"trance"}, CatalogID: "0SfsnGyD8FpIN4U4WCkBZ5"},
		{Name: "Paul van Dyk", Genres: []string{"trance"}, CatalogID: "7mFjVyFXG5AcvOFyGYLgZ8"},
		{Name: "Eric Prydz", OriginalName: "Pryda", Genres: []string{"progressive house", "techno"}, CatalogID: "5sm0jDx6rTLy0TMK66YzSL"},
		{Name: "deadmau5", OriginalName: "Joel Zimmerman", Genres: []string{"progressive house", "electro"}, CatalogID: "2CIMQHirSU0MQqyYHq0eOx"},
		{Name: "Skrillex", OriginalName: "Sonny Moore", Genres: []string{"dubstep", "edm"}, CatalogID: "5he5w2lnU9x7JFhnwcekXX"},
		{Name: "DJ Snake", Genres: []string{"edm", "trap"}, CatalogID: "540vIaP2JwjQb9dm3aArA4"},
		{Name: "Diplo", Genres: []string{"edm", "trap"}, CatalogID: "5fMUXHkw8R8eOP2RNVYEZX"},
		{Name: "Calvin Harris", Genres: []string{"edm", "dance"}, CatalogID: "7CajNmpbOovFoOoasH2HaY"},
		{Name: "David Guetta", Genres: []string{"edm", "dance"}, CatalogID: "1Cs0zKBU1kc0i8ypK3B9ai"},
		{Name: "Tiesto", Genres: []string{"edm", "trance"}, CatalogID: "2o5jDhtHVPhrJdv3cEQ99Z"},
		{Name: "Martin Garrix", Genres: []string{"edm", "progressive house"}, CatalogID: "60d24wfXkVzDSfLS6hyCjZ"},
		{Name: "Swedish House Mafia", Genres: []string{"progressive house", "edm"}, CatalogID: "1h6Cn3P4NGzXbaXIFoNeHG"},
		{Name: "Odesza", Genres: []string{"future bass", "electronic"}, CatalogID: "21mKp7DqtSNHhCAU2ugvUw"},
		{Name: "Flume", OriginalName: "Harley Streten", Genres: []string{"future bass", "electronic"}, CatalogID: "6nxWCVXbOlEVRexSbLsTer"},
		{Name: "Illenium", Genres: []string{"future bass", "edm"}, CatalogID: "45eNHdiiabvmbp4erw26rg"},
		{Name: "Rezz", Genres: []string{"dubstep", "bass"}, CatalogID: "6KCzeoC51zNMFCILacHDcj"},
		{Name: "Subtronics", Genres: []string{"dubstep"}, CatalogID: "2sQZIRzqH9POizrzvO4BVt"},
		{Name: "Excision", Genres: []string{"dubstep"}, CatalogID: "52UXAAmUZj2WIv9YasmGAO"},
		{Name: "Netsky", Genres: []string{"drum and bass"}, CatalogID: "1EpyA68dKpjf7jXmusDWmw"},
		{Name: "Pendulum", Genres: []string{"drum and bass"}, CatalogID: "1lzN0jU9nZBYdnJXXVGdmP"},
		{Name: "Sub Focus", Genres: []string{"drum and bass"}, CatalogID: "0QaSiI5TLA4N7mcsdxShDO"},
		{Name: "Headhunterz", Genres: []string{"hardstyle"}, CatalogID: "5WqGHg2B6LHYSTCdw4bqNx"},
		{Name: "Aphex Twin", OriginalName: "Richard D James", Genres: []string{"electronic", "ambient"}, CatalogID: "6kBDZFXuLrZgHnvmPu9NsG"},
		{Name: "Kaytranada", Genres: []string{"house", "hip hop"}, CatalogID: "6qgnBH6iDM91ipVXv28OMu"},
		{Name: "Jamie xx", Genres: []string{"house", "electronic"}, CatalogID: "6U3ybJ9UHNKEdsH7ktGBZ7"},
	}
}
