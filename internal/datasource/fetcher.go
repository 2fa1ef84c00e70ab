package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-predictor/internal/models"
)

// maxCardBytes bounds the response body so a bad endpoint cannot exhaust
// memory.
const maxCardBytes = 8 << 20

// Fetcher loads race card JSON from a local file or an HTTP endpoint. Parsed
// cards are cached per source so watch-mode refreshes only refetch after the
// TTL expires.
type Fetcher struct {
	client *RateLimitedHTTPClient
	cards  *cache.Cache
	logger *logrus.Logger
}

// NewFetcher creates a fetcher. A zero cacheTTL disables caching.
func NewFetcher(client *RateLimitedHTTPClient, cacheTTL time.Duration, logger *logrus.Logger) *Fetcher {
	if client == nil {
		client = NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), logger)
	}
	if logger == nil {
		logger = logrus.New()
	}
	var cards *cache.Cache
	if cacheTTL > 0 {
		cards = cache.New(cacheTTL, 2*cacheTTL)
	}
	return &Fetcher{client: client, cards: cards, logger: logger}
}

// Fetch loads the race card named by source, which is either a filesystem
// path or an http(s) URL.
func (f *Fetcher) Fetch(ctx context.Context, source string) (*models.RaceCard, error) {
	if f.cards != nil {
		if cached, found := f.cards.Get(source); found {
			if card, ok := cached.(*models.RaceCard); ok {
				f.logger.WithField("source", source).Debug("Race card served from cache")
				return card, nil
			}
		}
	}

	var (
		data []byte
		err  error
	)
	if isRemote(source) {
		data, err = f.fetchRemote(ctx, source)
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			err = fmt.Errorf("failed to read race card file: %w", err)
		}
	}
	if err != nil {
		return nil, err
	}

	card, err := ParseCard(data)
	if err != nil {
		return nil, err
	}

	if f.cards != nil {
		f.cards.Set(source, card, cache.DefaultExpiration)
	}
	f.logger.WithFields(logrus.Fields{
		"source": source,
		"race":   card.RaceInfo.Name,
		"horses": len(card.Horses),
	}).Info("Race card loaded")
	return card, nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch race card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch race card: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCardBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read race card response: %w", err)
	}
	return data, nil
}

// ParseCard decodes race card JSON and checks the minimal structure.
func ParseCard(data []byte) (*models.RaceCard, error) {
	card := &models.RaceCard{}
	if err := json.Unmarshal(data, card); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRaceCard, err)
	}
	if len(card.Horses) == 0 {
		return nil, fmt.Errorf("%w: no horses", models.ErrInvalidRaceCard)
	}
	return card, nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
