package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"npv-risk-web/internal/config"
	"npv-risk-web/internal/models"
)

const assessmentsCollection = "assessments"

// ErrAssessmentNotFound is returned for unknown or expired assessment ids
var ErrAssessmentNotFound = errors.New("assessment not found")

// Generic in-memory cache with type safety
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]*cacheItem[V]
	ttl   time.Duration
	done  chan struct{}
	once  sync.Once
}

type cacheItem[V any] struct {
	value      V
	expiration time.Time
}

func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		items: make(map[K]*cacheItem[V]),
		ttl:   ttl,
		done:  make(chan struct{}),
	}

	// Start cleanup goroutine
	go c.cleanup()

	return c
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || time.Now().After(item.expiration) {
		var zero V
		return zero, false
	}

	return item.value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem[V]{
		value:      value,
		expiration: time.Now().Add(c.ttl),
	}
}

// Len counts entries, expired ones included until the next sweep
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stop ends the cleanup goroutine
func (c *Cache[K, V]) Stop() {
	c.once.Do(func() { close(c.done) })
}

func (c *Cache[K, V]) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

func (c *Cache[K, V]) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, item := range c.items {
		if now.After(item.expiration) {
			delete(c.items, key)
		}
	}
}

// AssessmentStore keeps completed assessments in memory and, when configured, in Firestore
type AssessmentStore struct {
	firestoreClient *firestore.Client
	cache           *Cache[string, *models.Assessment]
	logger          *logrus.Logger
}

func NewAssessmentStore(cfg *config.Config, logger *logrus.Logger) *AssessmentStore {
	var client *firestore.Client
	if cfg.FirestoreProject != "" {
		var err error
		client, err = firestore.NewClient(context.Background(), cfg.FirestoreProject)
		if err != nil {
			// Log error but don't fail - fallback to in-memory only
			logger.WithError(err).Warn("Failed to initialize Firestore, using in-memory store")
			client = nil
		}
	}

	return &AssessmentStore{
		firestoreClient: client,
		cache:           NewCache[string, *models.Assessment](cfg.AssessmentTTL),
		logger:          logger,
	}
}

// Save records a completed simulation under a new id
func (s *AssessmentStore) Save(ctx context.Context, req models.SimulationRequest, result models.SimulationResult) (*models.Assessment, error) {
	assessment := &models.Assessment{
		ID:        uuid.NewString(),
		Request:   req,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}

	// Store in memory
	s.cache.Set(assessment.ID, assessment)

	// Store in Firestore
	if s.firestoreClient != nil {
		if _, err := s.firestoreClient.Collection(assessmentsCollection).Doc(assessment.ID).Set(ctx, assessment); err != nil {
			return assessment, fmt.Errorf("failed to persist assessment %s: %w", assessment.ID, err)
		}
	}

	return assessment, nil
}

// Get looks an assessment up in memory first, then in Firestore
func (s *AssessmentStore) Get(ctx context.Context, id string) (*models.Assessment, error) {
	if assessment, found := s.cache.Get(id); found {
		return assessment, nil
	}

	if s.firestoreClient == nil {
		return nil, ErrAssessmentNotFound
	}

	doc, err := s.firestoreClient.Collection(assessmentsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrAssessmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load assessment %s: %w", id, err)
	}

	var assessment models.Assessment
	if err := doc.DataTo(&assessment); err != nil {
		return nil, fmt.Errorf("failed to decode assessment %s: %w", id, err)
	}
	s.cache.Set(id, &assessment)
	return &assessment, nil
}

// Ready reports whether the durable backend is reachable; the in-memory store is always ready
func (s *AssessmentStore) Ready(ctx context.Context) error {
	if s.firestoreClient == nil {
		return nil
	}
	_, err := s.firestoreClient.Collection(assessmentsCollection).Limit(1).Documents(ctx).GetAll()
	return err
}

// Persistent reports whether Firestore is in use
func (s *AssessmentStore) Persistent() bool {
	return s.firestoreClient != nil
}

// Close stops the cache sweeper and closes the Firestore client
func (s *AssessmentStore) Close() error {
	s.cache.Stop()
	if s.firestoreClient != nil {
		return s.firestoreClient.Close()
	}
	return nil
}
