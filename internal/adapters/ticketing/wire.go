package ticketing

import (
	"strconv"
	"time"

	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
)

// discoveryResponse mirrors the slice of the discovery payload this adapter
// reads. Everything else in the response is ignored.
type discoveryResponse struct {
	Embedded struct {
		Events []wireEvent `json:"events"`
	} `json:"_embedded"`
}

type wireEvent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Info   string `json:"info"`
	URL    string `json:"url"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
	Dates struct {
		Start struct {
			DateTime string `json:"dateTime"`
		} `json:"start"`
	} `json:"dates"`
	Classifications []struct {
		Genre struct {
			Name string `json:"name"`
		} `json:"genre"`
		SubGenre struct {
			Name string `json:"name"`
		} `json:"subGenre"`
	} `json:"classifications"`
	Embedded struct {
		Venues      []wireVenue      `json:"venues"`
		Attractions []wireAttraction `json:"attractions"`
	} `json:"_embedded"`
}

type wireVenue struct {
	Name string `json:"name"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		StateCode string `json:"stateCode"`
	} `json:"state"`
	Country struct {
		CountryCode string `json:"countryCode"`
	} `json:"country"`
	Address struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	Location struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"location"`
}

type wireAttraction struct {
	Name string `json:"name"`
}

// toEvent maps a wire listing to the domain event. Only the identity pair
// is mandatory; every other field degrades to its zero value.
func (w wireEvent) toEvent() (model.Event, bool) {
	if w.ID == "" || w.Name == "" {
		return model.Event{}, false
	}

	event := model.Event{
		Source:      SourceName,
		SourceID:    w.ID,
		Name:        w.Name,
		Description: w.Info,
		TicketURL:   w.URL,
	}
	if len(w.Images) > 0 {
		event.ImageURL = w.Images[0].URL
	}
	if t, err := time.Parse(time.RFC3339, w.Dates.Start.DateTime); err == nil {
		event.StartTime = t
	}
	for _, c := range w.Classifications {
		if c.Genre.Name != "" {
			event.Genres = append(event.Genres, c.Genre.Name)
		}
		if c.SubGenre.Name != "" {
			event.Genres = append(event.Genres, c.SubGenre.Name)
		}
	}
	for _, a := range w.Embedded.Attractions {
		if a.Name != "" {
			event.Artists = append(event.Artists, a.Name)
		}
	}
	if len(w.Embedded.Venues) > 0 {
		event.Venue = w.Embedded.Venues[0].toVenue()
	}
	return event, true
}

func (w wireVenue) toVenue() model.Venue {
	v := model.Venue{
		Name:    w.Name,
		Address: w.Address.Line1,
		City:    w.City.Name,
		Region:  w.State.StateCode,
		Country: w.Country.CountryCode,
	}
	v.Lat = parseCoord(w.Location.Latitude)
	v.Lon = parseCoord(w.Location.Longitude)
	return v
}

func parseCoord(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
