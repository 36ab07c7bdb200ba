// ABOUTME: Client map markers, viewport bounds and navigation links
// ABOUTME: Only clients with a location get a marker
package viz

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/harperreed/salescrm/models"
)

const directionsBase = "https://www.google.com/maps/dir/?api=1&destination="

type MapMarker struct {
	ClientID      string
	Name          string
	City          string
	Segment       models.Segment
	Lat           float64
	Lng           float64
	DirectionsURL string
}

type Bounds struct {
	MinLat, MinLng float64
	MaxLat, MaxLng float64
}

func MapMarkers(ds models.Dataset) []MapMarker {
	var out []MapMarker
	for _, c := range ds.Clients {
		if c.Geo == nil {
			continue
		}
		out = append(out, MapMarker{
			ClientID:      c.ID,
			Name:          c.CompanyName,
			City:          c.City,
			Segment:       c.Segment,
			Lat:           c.Geo.Lat,
			Lng:           c.Geo.Lng,
			DirectionsURL: DirectionsURL(c),
		})
	}
	return out
}

// MarkerBounds returns the box enclosing every marker. A single marker gets a
// one-degree margin on each side; no markers gives nil.
func MarkerBounds(markers []MapMarker) *Bounds {
	if len(markers) == 0 {
		return nil
	}
	first := markers[0]
	if len(markers) == 1 {
		return &Bounds{
			MinLat: first.Lat - 1, MinLng: first.Lng - 1,
			MaxLat: first.Lat + 1, MaxLng: first.Lng + 1,
		}
	}

	b := &Bounds{MinLat: first.Lat, MinLng: first.Lng, MaxLat: first.Lat, MaxLng: first.Lng}
	for _, m := range markers[1:] {
		b.MinLat = min(b.MinLat, m.Lat)
		b.MinLng = min(b.MinLng, m.Lng)
		b.MaxLat = max(b.MaxLat, m.Lat)
		b.MaxLng = max(b.MaxLng, m.Lng)
	}
	return b
}

// DirectionsURL links to driving directions to the client's postal address.
// The address is escaped as a query component, spaces as %20.
func DirectionsURL(c models.Client) string {
	addr := fmt.Sprintf("%s, %s %s, %s", c.Street, c.PostalCode, c.City, c.Country)
	return directionsBase + strings.ReplaceAll(url.QueryEscape(addr), "+", "%20")
}

func RenderMap(markers []MapMarker) string {
	var out strings.Builder

	b := MarkerBounds(markers)
	if b == nil {
		return "No clients with a location\n"
	}
	out.WriteString(fmt.Sprintf("Bounds: %.4f,%.4f → %.4f,%.4f\n\n", b.MinLat, b.MinLng, b.MaxLat, b.MaxLng))

	for _, m := range markers {
		out.WriteString(fmt.Sprintf("[%s] %-32s %-12s %8.4f %8.4f\n    %s\n",
			m.Segment, truncate(m.Name, 32), truncate(m.City, 12), m.Lat, m.Lng, m.DirectionsURL))
	}
	return out.String()
}
