package services

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ProbeTimeout bounds each reachability probe.
const ProbeTimeout = 5 * time.Second

// ReachabilityService implements [Prober] with unauthenticated HEAD requests.
type ReachabilityService struct {
	client *resty.Client
}

// NewReachabilityService creates a prober. A non-positive timeout uses [ProbeTimeout].
//
// Redirects are not followed: only a direct 200 counts as reachable.
func NewReachabilityService(timeout time.Duration) *ReachabilityService {
	if timeout <= 0 {
		timeout = ProbeTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.NoRedirectPolicy())
	return &ReachabilityService{client: client}
}

// Exists reports whether url answers a HEAD request with 200.
func (s *ReachabilityService) Exists(ctx context.Context, url string) bool {
	resp, err := s.client.R().SetContext(ctx).Head(url)
	if err != nil {
		return false
	}
	return resp.StatusCode() == http.StatusOK
}
