package mongo

import (
	"context"
	"net/url"
	"time"

	"github.com/hako/durafmt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jd-116/gadget-graphql-api/db"
	"github.com/jd-116/gadget-graphql-api/env"
	"github.com/jd-116/gadget-graphql-api/types"
)

const (
	gadgetsCollection     = "gadgets"
	defaultConnectTimeout = 10 * time.Second
)

// Provider implements db.Provider against a MongoDB deployment
// using a single long-lived client
type Provider struct {
	connectionURI  string
	databaseName   string
	connectTimeout time.Duration
	client         *mongo.Client
	logger         zerolog.Logger
}

// NewProvider creates a new provider and loads values in from the environment.
// It does not dial the database; see Connect
func NewProvider(logger zerolog.Logger) (*Provider, error) {
	dbName, err := env.GetEnv("database name", "MONGO_DB_NAME")
	if err != nil {
		return nil, err
	}
	if dbName == "" {
		return nil, errors.New("the database name ('MONGO_DB_NAME') cannot be empty")
	}

	var connectionURI string
	if env.IsSet("MONGO_DB_URI") {
		connectionURI, err = env.GetEnv("database connection string", "MONGO_DB_URI")
		if err != nil {
			return nil, err
		}
	} else {
		dbHost, err := env.GetEnv("database host", "MONGO_DB_HOST")
		if err != nil {
			return nil, err
		}

		dbUser, err := env.GetEnv("database user", "MONGO_DB_USER")
		if err != nil {
			return nil, err
		}

		dbPwd, err := env.GetEnv("database password", "MONGO_DB_PWD")
		if err != nil {
			return nil, err
		}

		connectionURI = buildConnectionURI(dbHost, dbUser, dbPwd, dbName)
	}

	connectTimeout := defaultConnectTimeout
	if env.IsSet("MONGO_DB_CONNECT_TIMEOUT") {
		connectTimeout, err = env.GetDurationEnv("database connect timeout", "MONGO_DB_CONNECT_TIMEOUT")
		if err != nil {
			return nil, err
		}
	}

	return &Provider{
		connectionURI:  connectionURI,
		databaseName:   dbName,
		connectTimeout: connectTimeout,
		client:         nil,
		logger:         logger.With().Str("component", "mongo").Str("database", dbName).Logger(),
	}, nil
}

// buildConnectionURI assembles a standard mongodb:// connection string,
// escaping the credentials
func buildConnectionURI(host string, user string, password string, databaseName string) string {
	u := url.URL{
		Scheme: "mongodb",
		User:   url.UserPassword(user, password),
		Host:   host,
		Path:   "/" + databaseName,
	}
	return u.String()
}

// Connect opens the client, pings the primary,
// and logs once the database is ready.
// The whole sequence is bounded by MONGO_DB_CONNECT_TIMEOUT
func (p *Provider) Connect(ctx context.Context) error {
	start := time.Now()
	connectCtx, cancel := context.WithTimeout(ctx, p.connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(p.connectionURI))
	if err != nil {
		return errors.Wrap(err, "could not create the MongoDB client")
	}

	err = p.attach(connectCtx, client, start)
	if err != nil {
		_ = client.Disconnect(ctx)
		return err
	}

	return nil
}

// attach pings the primary through the given client
// and keeps the client for later reads once it answers
func (p *Provider) attach(ctx context.Context, client *mongo.Client, start time.Time) error {
	err := client.Ping(ctx, readpref.Primary())
	if err != nil {
		return errors.Wrap(err, "could not ping the MongoDB primary")
	}

	p.client = client

	elapsed := durafmt.Parse(time.Since(start)).LimitFirstN(2).String()
	p.logger.Info().Str("elapsed", elapsed).Msg("connected to database")
	return nil
}

// Disconnect closes the client if it was opened
func (p *Provider) Disconnect(ctx context.Context) error {
	if p.client == nil {
		return nil
	}

	err := p.client.Disconnect(ctx)
	if err != nil {
		return errors.Wrap(err, "could not disconnect the MongoDB client")
	}

	p.client = nil
	return nil
}

func (p *Provider) gadgets() *mongo.Collection {
	return p.client.Database(p.databaseName).Collection(gadgetsCollection)
}

// GetGadget looks up a single gadget by its object ID
func (p *Provider) GetGadget(ctx context.Context, id string) (*types.Gadget, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, db.NewInvalidIDError(id)
	}

	result := p.gadgets().FindOne(ctx, bson.D{{Key: "_id", Value: objectID}})
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, db.NewNotFoundError(id)
		}

		return nil, errors.Wrapf(err, "could not look up gadget '%s'", id)
	}

	var gadget types.Gadget
	err = result.Decode(&gadget)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode gadget '%s'", id)
	}

	return &gadget, nil
}

// GetAllGadgets gets every gadget, sorted by name
func (p *Provider) GetAllGadgets(ctx context.Context) ([]types.Gadget, error) {
	collection := p.gadgets()

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "could not list gadgets")
	}

	var gadgets []types.Gadget
	err = cursor.All(ctx, &gadgets)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode gadgets")
	}

	// Return non-nil slice so JSON serialization is nice
	if gadgets == nil {
		return []types.Gadget{}, nil
	}

	return gadgets, nil
}
