package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client holds the single mongo connection for the process. It is created
// in main and handed to the stores.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, dbName string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Info().Str("database", dbName).Msg("connected to MongoDB")
	return &Client{client: client, db: client.Database(dbName)}, nil
}

// ConnectWithRetry calls Connect up to attempts times, sleeping wait between tries.
func ConnectWithRetry(ctx context.Context, uri, dbName string, attempts int, wait time.Duration) (*Client, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		c, err := Connect(ctx, uri, dbName)
		if err == nil {
			return c, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", i).Msg("MongoDB connection attempt failed")
		if i < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return nil, lastErr
}

func (c *Client) Properties() *mongo.Collection      { return c.db.Collection("properties") }
func (c *Client) Blogs() *mongo.Collection           { return c.db.Collection("blogs") }
func (c *Client) Contacts() *mongo.Collection        { return c.db.Collection("contacts") }
func (c *Client) Users() *mongo.Collection           { return c.db.Collection("users") }
func (c *Client) ViewingRequests() *mongo.Collection { return c.db.Collection("viewingrequests") }

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Drop removes every collection the API owns. Used by integration tests.
func (c *Client) Drop(ctx context.Context) error {
	for _, coll := range []*mongo.Collection{c.Properties(), c.Blogs(), c.Contacts(), c.Users(), c.ViewingRequests()} {
		if err := coll.Drop(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Disconnect(ctx); err != nil {
		return err
	}
	log.Info().Msg("disconnected from MongoDB")
	return nil
}

// CreateIndexes sets up the unique email index and the createdAt/updatedAt
// indexes the listing and dashboard queries sort on.
func (c *Client) CreateIndexes(ctx context.Context) error {
	byCreated := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}

	if _, err := c.Users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	if _, err := c.Properties().Indexes().CreateMany(ctx, []mongo.IndexModel{
		byCreated,
		{Keys: bson.D{{Key: "updatedAt", Value: -1}}},
		{Keys: bson.D{{Key: "featured", Value: 1}, {Key: "createdAt", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("properties indexes: %w", err)
	}

	for name, coll := range map[string]*mongo.Collection{"blogs": c.Blogs(), "contacts": c.Contacts()} {
		if _, err := coll.Indexes().CreateOne(ctx, byCreated); err != nil {
			return fmt.Errorf("%s index: %w", name, err)
		}
	}

	if _, err := c.ViewingRequests().Indexes().CreateMany(ctx, []mongo.IndexModel{
		byCreated,
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("viewing requests indexes: %w", err)
	}
	return nil
}
