// Package source loads raw co-authorship payloads for [graph.Build].
//
// A source is addressed by a URI:
//
//	coauthors.json                 local file
//	file:///data/coauthors.json    local file
//	-                              standard input
//	https://host/coauthors.json    HTTP(S) with retry and caching
//	mongodb://host/db              MongoDB "nodes" and "links" collections
//
// [Open] picks the loader; every loader returns a [graph.Payload] and leaves
// validation to [graph.Build].
package source

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/httputil"
)

// Loader produces a payload.
type Loader interface {
	Load(ctx context.Context) (graph.Payload, error)
}

// Options configures [Open].
type Options struct {
	// HTTP fetches http(s) URIs. A client without caching is built when nil.
	HTTP *httputil.Client
	// Refresh bypasses the HTTP response cache.
	Refresh bool
	// Mongo names the database and collections for mongodb URIs.
	Mongo MongoOptions
	// Stdin replaces os.Stdin for the "-" URI.
	Stdin  io.Reader
	Logger *log.Logger
}

// Open returns the loader for uri.
func Open(uri string, opts Options) (Loader, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	switch {
	case uri == "":
		return nil, errors.New(errors.ErrCodeInvalidSource, "no graph source given")
	case uri == "-":
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		return &Reader{R: in, Name: "stdin"}, nil
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		client := opts.HTTP
		if client == nil {
			client = httputil.NewClient(nil, 0, nil)
		}
		return &HTTP{URL: uri, Client: client, Refresh: opts.Refresh, Logger: logger}, nil
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return NewMongo(uri, opts.Mongo, logger), nil
	case strings.HasPrefix(uri, "file://"):
		return newFile(strings.TrimPrefix(uri, "file://"))
	case strings.Contains(uri, "://"):
		return nil, errors.New(errors.ErrCodeInvalidSource, "unsupported source scheme: %s", uri)
	default:
		return newFile(uri)
	}
}

// IsRemote reports whether uri names an HTTP(S) or MongoDB source.
func IsRemote(uri string) bool {
	for _, p := range []string{"http://", "https://", "mongodb://", "mongodb+srv://"} {
		if strings.HasPrefix(uri, p) {
			return true
		}
	}
	return false
}

// Load opens uri and loads it in one call.
func Load(ctx context.Context, uri string, opts Options) (graph.Payload, error) {
	l, err := Open(uri, opts)
	if err != nil {
		return graph.Payload{}, err
	}
	start := time.Now()
	p, err := l.Load(ctx)
	if err != nil {
		return graph.Payload{}, err
	}
	if opts.Logger != nil {
		opts.Logger.Debug("loaded graph", "source", uri, "nodes", len(p.Nodes), "links", len(p.Links), "took", time.Since(start))
	}
	return p, nil
}
