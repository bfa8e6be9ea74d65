// utils/firebase.go
package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"coursehub/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var FCMClient *messaging.Client

// FirebaseInit initializes the Firebase App and Messaging client.
// Without a credentials file push delivery stays disabled.
func FirebaseInit(ctx context.Context) error {
	path := config.AppConfig.FirebaseCredentialsFile
	if path == "" {
		return fmt.Errorf("firebase: FIREBASE_CREDENTIALS_FILE not set")
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(path))
	if err != nil {
		return fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}

	FCMClient = client
	return nil
}

// LoadServiceAccount reads the client email and private key from a service account JSON file.
func LoadServiceAccount(path string) (*config.ServiceAccount, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account: %w", err)
	}
	var sa config.ServiceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, fmt.Errorf("decode service account: %w", err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, fmt.Errorf("service account is missing client_email or private_key")
	}
	return &sa, nil
}
