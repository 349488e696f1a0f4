package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

type listingStore struct {
	client *firestore.Client
}

func NewListingStore(client *firestore.Client) *listingStore {
	return &listingStore{client: client}
}

func (s *listingStore) collection() *firestore.CollectionRef {
	return s.client.Collection("listings")
}

func (s *listingStore) Get(ctx context.Context, listingID string) (*models.Listing, error) {
	doc, err := s.collection().Doc(listingID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("listing not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get listing", err)
	}
	var l models.Listing
	if err := doc.DataTo(&l); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse listing data", err)
	}
	return &l, nil
}
