package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/portfolio-dev/portfolio/internal/logging"
	"github.com/portfolio-dev/portfolio/internal/types"
	"github.com/sony/gobreaker"
)

// ExternalMember is the wire shape of the external member source.
type ExternalMember struct {
	ID   uint       `json:"id"`
	Name string     `json:"name"`
	Role types.Role `json:"role"`
}

// ExternalMemberClient reads the external member source behind a circuit
// breaker, so a flapping upstream fails fast instead of tying up requests.
type ExternalMemberClient struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewExternalMemberClient(url string) *ExternalMemberClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "external-members-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Circuit breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	return &ExternalMemberClient{
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: breaker,
	}
}

func (c *ExternalMemberClient) Fetch() ([]ExternalMember, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Get(c.url)

		if err != nil {
			return nil, err
		}

		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("member source returned status %d", resp.StatusCode)
		}

		var members []ExternalMember

		if err := json.NewDecoder(resp.Body).Decode(&members); err != nil {
			return nil, err
		}

		return members, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]ExternalMember), nil
}
