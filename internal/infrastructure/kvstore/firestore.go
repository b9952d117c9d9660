package kvstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreEntry struct {
	Value     []byte    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// FirestoreStore keeps each key as one document in a collection.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	return &FirestoreStore{client: client, collection: collection}
}

func (s *FirestoreStore) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("firestore get %q: %w", key, err)
	}

	var entry firestoreEntry
	if err := doc.DataTo(&entry); err != nil {
		return nil, fmt.Errorf("failed to parse firestore entry %q: %w", key, err)
	}
	return entry.Value, nil
}

func (s *FirestoreStore) Set(ctx context.Context, key string, value []byte) error {
	entry := firestoreEntry{Value: value, UpdatedAt: time.Now()}
	if _, err := s.client.Collection(s.collection).Doc(key).Set(ctx, entry); err != nil {
		return fmt.Errorf("firestore set %q: %w", key, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, key string) error {
	if _, err := s.client.Collection(s.collection).Doc(key).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete %q: %w", key, err)
	}
	return nil
}
