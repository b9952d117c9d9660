package firebase

import (
	"context"
	"fmt"
	"os"

	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ClientOptions picks Google credentials: inline JSON first, then a
// service-account file. With neither, the clients fall back to application
// default credentials.
func ClientOptions(serviceAccountJSON, serviceAccountPath string) ([]option.ClientOption, error) {
	if serviceAccountJSON != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(serviceAccountJSON))}, nil
	}
	if serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); err != nil {
			return nil, fmt.Errorf("service account file %s: %w", serviceAccountPath, err)
		}
		return []option.ClientOption{option.WithCredentialsFile(serviceAccountPath)}, nil
	}
	return nil, nil
}

type FirebaseAuthClient struct {
	client *auth.Client
}

// NewFirebaseAuthClient initializes a Firebase app for projectID and returns
// its ID-token verifier.
func NewFirebaseAuthClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*FirebaseAuthClient, error) {
	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth: %w", err)
	}
	return &FirebaseAuthClient{client: client}, nil
}

// VerifyToken checks a Firebase ID token and returns its uid.
func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}
	return result.UID, nil
}
