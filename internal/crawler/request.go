package crawler

import (
	"fmt"

	"github.com/law-makers/shopcrawl/internal/engine"
	"github.com/law-makers/shopcrawl/internal/reqctx"
	urlutil "github.com/law-makers/shopcrawl/internal/utils/url"
)

// Request is one page in the frontier
type Request struct {
	ID         string
	URL        string
	UniqueKey  string // normalized URL, used for dedup
	RetryCount int    // zero-based attempt currently running
	Referrer   string // page the link was found on, empty for seeds
	Depth      int
}

// NewRequest validates rawURL and builds a Request for it
func NewRequest(rawURL string) (*Request, error) {
	if err := urlutil.ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrInvalidURL, err)
	}
	key, err := urlutil.Normalize(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrInvalidURL, err)
	}
	return &Request{
		ID:        reqctx.NewID(),
		URL:       rawURL,
		UniqueKey: key,
	}, nil
}
