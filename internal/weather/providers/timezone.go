package providers

import (
	"fmt"
	"time"

	"github.com/ringsaturn/tzf"

	"github.com/i474232898/weather-timeline/internal/weather"
)

// TZFinder implements weather.ZoneFinder with an offline polygon lookup.
type TZFinder struct {
	finder tzf.F
}

// NewZoneFinder loads the bundled timezone polygons.
func NewZoneFinder() (*TZFinder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("load timezone finder: %w", err)
	}
	return &TZFinder{finder: f}, nil
}

func (z *TZFinder) ZoneName(c weather.Coordinate) string {
	if z == nil || z.finder == nil {
		return ""
	}
	return z.finder.GetTimezoneName(c.Longitude, c.Latitude)
}

// placeZone fills the zone of p from zones. A name the runtime cannot load
// leaves the place without a zone.
func placeZone(p *weather.Place, zones weather.ZoneFinder) {
	if zones == nil {
		return
	}
	name := zones.ZoneName(p.Coordinate)
	if name == "" {
		return
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return
	}
	p.TimezoneID = name
	p.Timezone = loc
}

var _ weather.ZoneFinder = (*TZFinder)(nil)
