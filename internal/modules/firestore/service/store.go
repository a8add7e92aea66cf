package service

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"trading_bot/internal/models"
)

const credentialsPathENV = "FIREBASE_CREDENTIALS_PATH"

// Firestore — обёртка над клиентом: один документ по известному пути,
// чтение и запись целиком.
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(ctx context.Context) (*Firestore, error) {
	var opts []option.ClientOption
	if credPath := os.Getenv(credentialsPathENV); credPath != "" {
		opts = append(opts, option.WithCredentialsFile(credPath))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "init firebase app")
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "init firestore client")
	}

	return &Firestore{client: client}, nil
}

func (f *Firestore) GetDocument(ctx context.Context, collection, document string) (map[string]any, error) {
	snap, err := f.client.Collection(collection).Doc(document).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrapf(models.ErrRemoteStore, "get %s/%s: %v", collection, document, err)
	}
	return snap.Data(), nil
}

func (f *Firestore) SetDocument(ctx context.Context, collection, document string, data map[string]any) error {
	if _, err := f.client.Collection(collection).Doc(document).Set(ctx, data); err != nil {
		return errors.Wrapf(models.ErrRemoteStore, "set %s/%s: %v", collection, document, err)
	}
	return nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
