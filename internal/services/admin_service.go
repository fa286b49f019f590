package services

import (
	"context"
	"strings"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
	"travel-tracker/internal/identity"
)

var featuredDestinations = []Destination{
	{
		Name:        "Alappuzha",
		Location:    domain.Location{Lat: 9.5011, Lng: 76.3388},
		Description: "Alappuzha, also known as the 'Venice of the East', is renowned for its picturesque backwaters, tranquil houseboat cruises, and lush paddy fields. It's the heart of Kerala's backwater tourism.",
	},
	{
		Name:        "Fort Kochi",
		Location:    domain.Location{Lat: 9.9667, Lng: 76.2422},
		Description: "Fort Kochi is a historic coastal town known for its colonial architecture, charming streets, Chinese fishing nets, and vibrant arts scene. It's a cultural hub blending Portuguese, Dutch, and British influences.",
	},
	{
		Name:        "Kovalam",
		Location:    domain.Location{Lat: 8.4133, Lng: 76.9784},
		Description: "Kovalam is a famous beach destination with golden sands, palm-fringed shores, and vibrant nightlife. It's ideal for water sports, relaxation, and enjoying Kerala's coastal beauty.",
	},
	{
		Name:        "Munnar",
		Location:    domain.Location{Lat: 10.0889, Lng: 77.0595},
		Description: "Munnar, nestled in the Western Ghats, is famous for its rolling tea plantations, misty hills, and serene natural beauty. It's a haven for nature lovers, trekkers, and photographers seeking breathtaking landscapes.",
	},
	{
		Name:        "Wayanad",
		Location:    domain.Location{Lat: 11.6857, Lng: 76.1314},
		Description: "Wayanad is a lush, green district in the Western Ghats, offering scenic views, wildlife sanctuaries, waterfalls, and spice plantations. It's perfect for adventure seekers and nature enthusiasts.",
	},
}

var systemIssues = []SystemIssue{
	{
		Area:   "Roads",
		Status: HealthWarning,
		Problems: []string{
			"Potholes on NH-66 near Kochi causing traffic delays",
			"Poor road conditions on rural routes in Wayanad district",
			"Inadequate street lighting on state highways",
		},
		Recommendations: []string{
			"Implement quarterly road maintenance schedule",
			"Allocate budget for pothole repair and resurfacing",
			"Install LED street lighting on major highways",
			"Set up citizen reporting system for road issues",
		},
	},
	{
		Area:   "Traffic Signals",
		Status: HealthCritical,
		Problems: []string{
			"Non-functional signals at 12 major intersections",
			"Outdated timer systems causing congestion",
			"Lack of pedestrian crossing signals in urban areas",
		},
		Recommendations: []string{
			"Upgrade to smart traffic management systems",
			"Deploy AI-based adaptive signal timing",
			"Install pedestrian countdown timers at all crossings",
			"Regular maintenance and inspection protocols",
		},
	},
	{
		Area:   "Police Management",
		Status: HealthGood,
		Problems: []string{
			"Limited patrol presence in remote areas",
			"Response time delays during peak hours",
		},
		Recommendations: []string{
			"Increase mobile patrol units in rural zones",
			"Implement GPS-based dispatch optimization",
			"Deploy motorcycle units for faster response",
			"Set up community policing programs",
		},
	},
	{
		Area:   "Bus Services / Public Transport",
		Status: HealthWarning,
		Problems: []string{
			"Irregular bus schedules causing passenger inconvenience",
			"Overcrowding during peak commute hours",
			"Lack of real-time tracking for buses",
			"Poor maintenance of bus stops and shelters",
		},
		Recommendations: []string{
			"Implement GPS tracking and real-time apps",
			"Increase bus frequency on high-demand routes",
			"Modernize bus fleet with air-conditioned vehicles",
			"Renovate bus stops with seating and shelters",
			"Introduce digital payment systems",
		},
	},
}

// adminServiceImpl implements the AdminService interface
type adminServiceImpl struct {
	provider identity.Provider
}

// NewAdminService creates a new admin service instance
func NewAdminService(provider identity.Provider) AdminService {
	return &adminServiceImpl{provider: provider}
}

func requireAdmin(auth *domain.AuthContext, view string) error {
	if !auth.IsAuthenticated() {
		return errors.NewAuthenticationError(NotSignedInMessage)
	}
	if !auth.IsAdmin() {
		return errors.NewPermissionError("open "+view, string(auth.Role))
	}
	return nil
}

func (s *adminServiceImpl) ListUsers(ctx context.Context, auth *domain.AuthContext) ([]domain.User, error) {
	if err := requireAdmin(auth, "users"); err != nil {
		return nil, err
	}
	return s.provider.ListUsers(ctx)
}

func (s *adminServiceImpl) GetUser(ctx context.Context, auth *domain.AuthContext, id string) (domain.User, error) {
	if err := requireAdmin(auth, "user"); err != nil {
		return domain.User{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, errors.NewInvalidInputError("id", id, "user id is required")
	}
	return s.provider.FetchUser(ctx, id)
}

// Analytics returns the featured destinations
func (s *adminServiceImpl) Analytics(auth *domain.AuthContext) ([]Destination, error) {
	if err := requireAdmin(auth, "analytics"); err != nil {
		return nil, err
	}
	out := make([]Destination, len(featuredDestinations))
	copy(out, featuredDestinations)
	return out, nil
}

// SystemHealth returns the transport system report
func (s *adminServiceImpl) SystemHealth(auth *domain.AuthContext) ([]SystemIssue, error) {
	if err := requireAdmin(auth, "system health"); err != nil {
		return nil, err
	}
	out := make([]SystemIssue, len(systemIssues))
	for i, issue := range systemIssues {
		issue.Problems = append([]string(nil), issue.Problems...)
		issue.Recommendations = append([]string(nil), issue.Recommendations...)
		out[i] = issue
	}
	return out, nil
}
