package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"ummana/internal/types"
)

// RouteService handles interactions with the Google Maps Directions API. It is
// an optional enrichment: dispatch decisions use great-circle estimates, and
// road figures are attached to responses only when a client is configured.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// RoadEstimate is the driving distance and duration along the road network.
type RoadEstimate struct {
	DistanceKm float64
	Duration   time.Duration
}

// DrivingEstimate returns the road distance and duration from origin to
// destination, assuming driving mode.
func (s *RouteService) DrivingEstimate(ctx context.Context, origin, destination types.Point) (RoadEstimate, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination: fmt.Sprintf("%f,%f", destination.Lat, destination.Lng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return RoadEstimate{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return RoadEstimate{}, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return RoadEstimate{
		DistanceKm: float64(leg.Distance.Meters) / 1000.0,
		Duration:   leg.Duration,
	}, nil
}
