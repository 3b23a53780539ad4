package mocks

import (
	"context"

	"catalog-mirror/core/remote"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of remote.Client
type Client struct {
	mock.Mock
}

func (m *Client) ListArtists(ctx context.Context, page int) (*remote.ArtistPage, error) {
	args := m.Called(ctx, page)
	if p, ok := args.Get(0).(*remote.ArtistPage); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListOffers(ctx context.Context, artistID int64, page int) (*remote.OfferPage, error) {
	args := m.Called(ctx, artistID, page)
	if p, ok := args.Get(0).(*remote.OfferPage); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListOrders(ctx context.Context, page int) (*remote.OrderPage, error) {
	args := m.Called(ctx, page)
	if p, ok := args.Get(0).(*remote.OrderPage); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) GetSkus(ctx context.Context, campaignID string) (*remote.SkuResult, error) {
	args := m.Called(ctx, campaignID)
	if r, ok := args.Get(0).(*remote.SkuResult); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CheckAuth(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
