//go:build integration

// Package testutil starts the containers used by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// MongoDBContainer wraps a MongoDB testcontainer.
type MongoDBContainer struct {
	Container testcontainers.Container
	URI       string
}

// SetupMongoDB starts a MongoDB container.
func SetupMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	container, err := mongodb.Run(ctx, "mongo:7.0")
	if err != nil {
		return nil, fmt.Errorf("failed to start MongoDB container: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &MongoDBContainer{Container: container, URI: uri}, nil
}

// Cleanup terminates the container.
func (m *MongoDBContainer) Cleanup(ctx context.Context) error {
	if m.Container != nil {
		return m.Container.Terminate(ctx)
	}
	return nil
}

var (
	shared     *MongoDBContainer
	sharedErr  error
	sharedOnce sync.Once
)

// SharedMongoDB starts one container per test binary and returns it on every call.
func SharedMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = SetupMongoDB(ctx)
	})
	return shared, sharedErr
}

// RunWithMongoDB is a TestMain helper that owns the shared container:
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.RunWithMongoDB(context.Background(), m))
//	}
func RunWithMongoDB(ctx context.Context, m *testing.M) int {
	if _, err := SharedMongoDB(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mongodb container: %v\n", err)
		return 1
	}

	code := m.Run()

	if err := shared.Cleanup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to terminate MongoDB container: %v\n", err)
	}
	return code
}

// SharedMongoURI returns the URI of the shared container.
func SharedMongoURI() string {
	if shared == nil {
		panic("shared MongoDB container not started; call RunWithMongoDB from TestMain")
	}
	return shared.URI
}

// DBName turns a test name into a unique, valid database name.
func DBName(testName string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ".", "_").Replace(testName)
	if len(name) > 40 {
		name = name[:40]
	}
	return fmt.Sprintf("%s_%d", name, time.Now().UnixNano()%1_000_000)
}
