package source

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/graph"
)

// MongoOptions names where the payload lives.
type MongoOptions struct {
	Database string
	Nodes    string
	Links    string
	// Filter restricts the node documents, e.g. {"country": "DE"}. Links
	// with an endpoint outside the filtered set are dropped.
	Filter  bson.M
	Timeout time.Duration
}

func (o MongoOptions) withDefaults() MongoOptions {
	if o.Database == "" {
		o.Database = "coauthornet"
	}
	if o.Nodes == "" {
		o.Nodes = "nodes"
	}
	if o.Links == "" {
		o.Links = "links"
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}

// Mongo reads node and link documents from two collections. Documents use
// the same field names as the JSON payload.
type Mongo struct {
	URI    string
	Opts   MongoOptions
	Logger *log.Logger
}

// NewMongo returns a loader for uri.
func NewMongo(uri string, opts MongoOptions, logger *log.Logger) *Mongo {
	return &Mongo{URI: uri, Opts: opts.withDefaults(), Logger: logger}
}

func (m *Mongo) Load(ctx context.Context) (graph.Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, m.Opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.URI))
	if err != nil {
		return graph.Payload{}, errors.Wrap(errors.ErrCodeInvalidSource, err, "connect mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil && m.Logger != nil {
			m.Logger.Warn("mongodb disconnect", "err", err)
		}
	}()

	db := client.Database(m.Opts.Database)
	filter := m.Opts.Filter
	if filter == nil {
		filter = bson.M{}
	}

	var nodes []graph.PayloadNode
	if err := findAll(ctx, db.Collection(m.Opts.Nodes), filter, &nodes); err != nil {
		return graph.Payload{}, err
	}
	var links []graph.PayloadLink
	if err := findAll(ctx, db.Collection(m.Opts.Links), bson.M{}, &links); err != nil {
		return graph.Payload{}, err
	}

	if len(m.Opts.Filter) > 0 {
		links = keepInternal(nodes, links)
	}
	if m.Logger != nil {
		m.Logger.Debug("read mongodb", "db", m.Opts.Database, "nodes", len(nodes), "links", len(links))
	}
	return graph.Payload{Nodes: nodes, Links: links}, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, out any) error {
	cur, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "query %s", coll.Name())
	}
	if err := cur.All(ctx, out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", coll.Name())
	}
	return nil
}

// keepInternal drops links that leave the node set.
func keepInternal(nodes []graph.PayloadNode, links []graph.PayloadLink) []graph.PayloadLink {
	ids := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}
	kept := links[:0]
	for _, l := range links {
		_, s := ids[l.Source]
		_, t := ids[l.Target]
		if s && t {
			kept = append(kept, l)
		}
	}
	return kept
}
