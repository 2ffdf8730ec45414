// Package firebase wires up the Firebase collaborators (Auth, Firestore,
// Cloud Messaging, Storage) from one credentials file.
package firebase

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// App bundles the initialized Firebase clients for injection.
type App struct {
	Auth       *auth.Client
	Firestore  *firestore.Client
	Messaging  *messaging.Client
	Bucket     *gcs.BucketHandle
	BucketName string
}

// New initializes the Firebase app and its service clients. The storage
// bucket is optional; when unset the Bucket field stays nil and cover
// uploads are disabled.
func New(ctx context.Context, credentialsFile, projectID, storageBucket string) (*App, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	cfg := &firebase.Config{ProjectID: projectID, StorageBucket: storageBucket}
	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firestore client: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	result := &App{
		Auth:      authClient,
		Firestore: firestoreClient,
		Messaging: messagingClient,
	}

	if storageBucket != "" {
		storageClient, err := app.Storage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get storage client: %w", err)
		}
		bucket, err := storageClient.Bucket(storageBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to get storage bucket: %w", err)
		}
		result.Bucket = bucket
		result.BucketName = storageBucket
	}

	log.Println("[Firebase] App initialized successfully")
	return result, nil
}
