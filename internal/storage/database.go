package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"adscout/internal/report"
	"adscout/internal/types"
)

// MongoArchive stores articles and run summaries in MongoDB. Daily
// exports are modeled as documents in a separate exports collection
// rather than files.
type MongoArchive struct {
	client   *mongo.Client
	articles *mongo.Collection
	runs     *mongo.Collection
	exports  *mongo.Collection
	mu       sync.Mutex
	count    int
	logger   *slog.Logger
}

// NewMongoArchive connects to MongoDB and verifies the connection.
func NewMongoArchive(uri, database, collection string, logger *slog.Logger) (*MongoArchive, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	db := client.Database(database)
	return &MongoArchive{
		client:   client,
		articles: db.Collection(collection),
		runs:     db.Collection("runs"),
		exports:  db.Collection("daily_exports"),
		logger:   logger.With("component", "mongo_archive"),
	}, nil
}

func (a *MongoArchive) Name() string { return "mongo" }

func (a *MongoArchive) SaveArticles(ctx context.Context, articles []types.Article) error {
	if len(articles) == 0 {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	docs := make([]any, len(articles))
	for i := range articles {
		docs[i] = articles[i]
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := a.articles.InsertMany(ctx, docs); err != nil {
		return &types.StorageError{Backend: a.Name(), Err: fmt.Errorf("insert articles: %w", err)}
	}

	a.count += len(articles)
	a.logger.Debug("articles stored in mongodb", "count", len(articles), "total", a.count)
	return nil
}

func (a *MongoArchive) ExportDaily(ctx context.Context, articles []types.Article, date time.Time) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	doc := map[string]any{
		"date":     date.Format("2006-01-02"),
		"count":    len(articles),
		"articles": articles,
	}
	if _, err := a.exports.InsertOne(ctx, doc); err != nil {
		return "", &types.StorageError{Backend: a.Name(), Err: fmt.Errorf("insert daily export: %w", err)}
	}
	return "daily_exports/" + date.Format("2006-01-02"), nil
}

func (a *MongoArchive) SaveRunSummary(ctx context.Context, summary *report.RunSummary) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := a.runs.InsertOne(ctx, summary); err != nil {
		return &types.StorageError{Backend: a.Name(), Err: fmt.Errorf("insert run summary: %w", err)}
	}
	return nil
}

func (a *MongoArchive) Close() error {
	a.logger.Info("mongodb archive closing", "total_articles", a.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}
