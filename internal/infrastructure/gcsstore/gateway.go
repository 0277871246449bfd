// Package gcsstore keeps the account table as a single CSV object in a
// Google Cloud Storage bucket.
package gcsstore

import (
	"bytes"
	"context"
	"errors"
	"time"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
	"github.com/oksasatya/account-ledger/internal/domain/repository"
	"github.com/oksasatya/account-ledger/internal/infrastructure/csvstore"
	"github.com/oksasatya/account-ledger/pkg/helpers"
)

const objectTimeout = 15 * time.Second

type Gateway struct {
	Client *storage.Client
	Bucket string
	Object string
}

func NewGateway(client *storage.Client, bucket, object string) *Gateway {
	return &Gateway{Client: client, Bucket: bucket, Object: object}
}

// LoadAll treats a missing object as an empty table.
func (g *Gateway) LoadAll(ctx context.Context) ([]entity.Account, error) {
	c, cancel := context.WithTimeout(ctx, objectTimeout)
	defer cancel()
	rc, err := g.Client.Bucket(g.Bucket).Object(g.Object).NewReader(c)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return csvstore.Decode(rc)
}

func (g *Gateway) SaveAll(ctx context.Context, accounts []entity.Account) error {
	var buf bytes.Buffer
	if err := csvstore.Encode(&buf, accounts); err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, objectTimeout)
	defer cancel()
	_, err := helpers.UploadObject(c, g.Client, g.Bucket, g.Object, "text/csv", &buf)
	return err
}

var _ repository.AccountGateway = (*Gateway)(nil)
