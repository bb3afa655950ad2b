// Package places adapts the Google Places v1 nearby search to the service's
// candidate shape.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pharmagarde/locator/internal/core/model"
	"github.com/pharmagarde/locator/internal/core/observability"
)

const (
	searchPath = "/v1/places:searchNearby"
	fieldMask  = "places.id,places.displayName,places.formattedAddress,places.location"
)

type Client struct {
	log        *slog.Logger
	http       *http.Client
	baseURL    string
	apiKey     string
	maxResults int
}

func NewClient(log *slog.Logger, hc *http.Client, baseURL, apiKey string, maxResults int) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("places api key is required")
	}
	if maxResults <= 0 || maxResults > 20 {
		maxResults = 20
	}
	return &Client{
		log:        log,
		http:       hc,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		maxResults: maxResults,
	}, nil
}

type searchRequest struct {
	IncludedTypes       []string `json:"includedTypes"`
	MaxResultCount      int      `json:"maxResultCount"`
	LocationRestriction struct {
		Circle struct {
			Center struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"center"`
			Radius float64 `json:"radius"`
		} `json:"circle"`
	} `json:"locationRestriction"`
}

type searchResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress string `json:"formattedAddress"`
		Location         struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"location"`
	} `json:"places"`
}

// NearbyPharmacies fetches pharmacy venues within radiusMeters of center.
// Order of the returned slice carries no meaning.
func (c *Client) NearbyPharmacies(ctx context.Context, center model.Coordinate, radiusMeters int) ([]model.PharmacyCandidate, error) {
	body := searchRequest{
		IncludedTypes:  []string{"pharmacy"},
		MaxResultCount: c.maxResults,
	}
	body.LocationRestriction.Circle.Center.Latitude = center.Lat
	body.LocationRestriction.Circle.Center.Longitude = center.Lng
	body.LocationRestriction.Circle.Radius = float64(radiusMeters)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	start := time.Now()
	resp, err := c.http.Do(req)
	observability.ObserveUpstreamLatency("places_search_nearby", time.Since(start).Seconds())
	if err != nil {
		observability.IncGatewayError(string(KindTransient))
		return nil, &GatewayError{Kind: KindTransient, msg: "nearby search", err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warn("close response body", "err", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kind := kindForStatus(resp.StatusCode)
		observability.IncGatewayError(string(kind))
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &GatewayError{
			Kind:   kind,
			Status: resp.StatusCode,
			msg:    fmt.Sprintf("nearby search status=%d body=%q", resp.StatusCode, strings.TrimSpace(string(b))),
		}
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		observability.IncGatewayError(string(KindTransient))
		return nil, &GatewayError{Kind: KindTransient, Status: resp.StatusCode, msg: "decode nearby search response", err: err}
	}

	candidates := make([]model.PharmacyCandidate, 0, len(out.Places))
	for _, p := range out.Places {
		if p.ID == "" {
			continue
		}
		candidates = append(candidates, model.PharmacyCandidate{
			ID:      p.ID,
			Name:    p.DisplayName.Text,
			Address: p.FormattedAddress,
			Location: model.Coordinate{
				Lat: p.Location.Latitude,
				Lng: p.Location.Longitude,
			},
		})
	}
	return candidates, nil
}
