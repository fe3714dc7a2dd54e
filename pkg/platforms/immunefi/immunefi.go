// Package immunefi extracts reward tiers and in-scope assets from Immunefi
// program pages.
package immunefi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sw33tLie/genscope/internal/utils"
	"github.com/sw33tLie/genscope/pkg/scope"
	"github.com/sw33tLie/genscope/pkg/whttp"
)

const (
	PLATFORM_URL = "https://immunefi.com"
	PROGRAM_PATH = "/bounty/"
)

// StatusError is returned when the program page answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

type Poller struct {
	baseURL string
	client  *retryablehttp.Client
}

// NewPoller builds a poller for the given site root. An empty baseURL means PLATFORM_URL.
// A nil client means the whttp default client.
func NewPoller(baseURL string, client *retryablehttp.Client) *Poller {
	if baseURL == "" {
		baseURL = PLATFORM_URL
	}
	return &Poller{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (p *Poller) Name() string { return "immunefi" }

func (p *Poller) ProgramURL(slug string) string {
	return ProgramURL(p.baseURL, slug)
}

// ProgramURL joins the site root, the bounty path and the program slug.
func ProgramURL(baseURL, slug string) string {
	return strings.TrimSuffix(baseURL, "/") + PROGRAM_PATH + url.PathEscape(slug)
}

// FetchProgram downloads the program page once and extracts its payouts and assets.
func (p *Poller) FetchProgram(ctx context.Context, slug string) (scope.Program, error) {
	programURL := p.ProgramURL(slug)
	utils.Log.Debugf("Downloading %s", programURL)

	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: "GET",
		URL:    programURL,
		Headers: []whttp.WHTTPHeader{
			{Name: "Accept", Value: "text/html,application/xhtml+xml"},
		},
	}, p.client)
	if err != nil {
		return scope.Program{}, fmt.Errorf("fetching %s: %w", programURL, err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return scope.Program{}, &StatusError{URL: programURL, StatusCode: res.StatusCode}
	}

	utils.Log.Debugf("Got %q (%d chars)", res.HTTPTitle, res.ResponseLength)
	return ParsePage(strings.NewReader(res.BodyString))
}
