package enacom

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/pkg/httputil"
	"github.com/wonny/telecom-kpi/pkg/logger"
)

// Resource paths of the CSV exports on the ENACOM open-data portal
const (
	PathInternetPenetration = "/dataset/internet-penetracion-hogares.csv"
	PathConnectivityMap     = "/dataset/mapa-conectividad.csv"
	PathMobileAccesses      = "/dataset/telefonia-movil-accesos.csv"
)

// Client downloads and parses the ENACOM open-data CSV exports
// ⭐ SSOT: ENACOM calls go through this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a client for the portal at baseURL
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// InternetPenetration fetches accesses per 100 households by province and quarter
func (c *Client) InternetPenetration(ctx context.Context) ([]contracts.Observation, error) {
	body, err := c.fetch(ctx, PathInternetPenetration)
	if err != nil {
		return nil, err
	}
	return ParseInternetPenetration(body)
}

// Localities fetches the connectivity map (one row per locality)
func (c *Client) Localities(ctx context.Context) ([]contracts.Locality, error) {
	body, err := c.fetch(ctx, PathConnectivityMap)
	if err != nil {
		return nil, err
	}
	return ParseConnectivityMap(body)
}

// MobileAccesses fetches national postpaid and prepaid accesses per quarter
func (c *Client) MobileAccesses(ctx context.Context) ([]contracts.MobileAccess, error) {
	body, err := c.fetch(ctx, PathMobileAccesses)
	if err != nil {
		return nil, err
	}
	return ParseMobileAccesses(body)
}

// FetchDataset downloads the three exports. Any failure aborts the whole fetch.
func (c *Client) FetchDataset(ctx context.Context) (contracts.Dataset, error) {
	start := time.Now()

	internet, err := c.InternetPenetration(ctx)
	if err != nil {
		return contracts.Dataset{}, fmt.Errorf("internet penetration: %w", err)
	}
	localities, err := c.Localities(ctx)
	if err != nil {
		return contracts.Dataset{}, fmt.Errorf("connectivity map: %w", err)
	}
	mobile, err := c.MobileAccesses(ctx)
	if err != nil {
		return contracts.Dataset{}, fmt.Errorf("mobile accesses: %w", err)
	}

	ds := contracts.Dataset{Internet: internet, Localities: localities, Mobile: mobile}

	c.logger.WithFields(map[string]interface{}{
		"internet":   len(internet),
		"localities": len(localities),
		"mobile":     len(mobile),
		"duration":   time.Since(start),
	}).Info("ENACOM dataset fetched")

	return ds, nil
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	body, err := c.httpClient.GetBytes(ctx, c.baseURL+path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	return body, nil
}
