package kvstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), 0)
	defer func() { _ = client.Close() }()
	require.NoError(t, client.Ping(context.Background()).Err())

	prefix := fmt.Sprintf("ratpatrol-test-%d:", time.Now().UnixNano())
	testStoreContract(t, NewRedisStore(client, prefix))
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx := context.Background()
	client, err := ConnectMongo(ctx, uri)
	require.NoError(t, err)
	defer func() { _ = client.Disconnect(ctx) }()

	db := client.Database(fmt.Sprintf("ratpatrol_test_%d", time.Now().UnixNano()))
	defer func() { _ = db.Drop(ctx) }()

	testStoreContract(t, NewMongoStore(db, "kv"))
}

func TestFirestoreStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "ratpatrol-test")
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	collection := fmt.Sprintf("device_store_%d", time.Now().UnixNano())
	testStoreContract(t, NewFirestoreStore(client, collection))
}
