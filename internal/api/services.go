package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"gymctl/internal/models"
)

// ListServices returns every plan the gym offers.
// Benefits mirror the description lines.
func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	body, err := c.sendJSON(ctx, "list services", http.MethodGet, "/api/services", nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		Data []models.Service `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error parsing services response: %w", err)
	}

	services := make([]models.Service, 0, len(response.Data))
	for _, s := range response.Data {
		if len(s.Benefits) == 0 {
			s.Benefits = s.Description
		}
		services = append(services, s)
	}
	return services, nil
}

// ServiceGroup is one category of plans
type ServiceGroup struct {
	Category string
	Services []models.Service
}

// GroupServices buckets plans by category.
// Categories are sorted; plans keep their server order.
func GroupServices(services []models.Service) []ServiceGroup {
	byCategory := make(map[string][]models.Service)
	for _, s := range services {
		byCategory[s.Category] = append(byCategory[s.Category], s)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	groups := make([]ServiceGroup, 0, len(categories))
	for _, category := range categories {
		groups = append(groups, ServiceGroup{Category: category, Services: byCategory[category]})
	}
	return groups
}

// FindService looks a plan up by id
func FindService(services []models.Service, id string) (*models.Service, error) {
	for i := range services {
		if services[i].ID == id {
			return &services[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", models.ErrServiceNotFound, id)
}
