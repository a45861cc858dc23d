package source

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/httputil"
)

// HTTP fetches a JSON payload from a URL.
type HTTP struct {
	URL     string
	Client  *httputil.Client
	Refresh bool
	Logger  *log.Logger
}

func (h *HTTP) Load(ctx context.Context) (graph.Payload, error) {
	if h.Logger != nil {
		h.Logger.Debug("fetching graph", "url", h.URL, "refresh", h.Refresh)
	}
	data, err := h.Client.Fetch(ctx, h.URL, h.Refresh)
	if err != nil {
		return graph.Payload{}, err
	}
	p, err := graph.UnmarshalPayload(data)
	if err != nil {
		return graph.Payload{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", h.URL)
	}
	return p, nil
}
