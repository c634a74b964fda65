package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pelican/internal/encoder"
	"pelican/internal/mocks"
	"pelican/internal/model"
)

func TestLinkService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid destinations", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := mocks.NewMockLinkStore(ctrl)

		var saved *model.Link
		mockStore.EXPECT().SaveLink(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, link *model.Link) error {
				saved = link
				return nil
			})

		svc := NewLinkService(mockStore)
		resp, err := svc.Create(ctx, &model.CreateLinkRequest{
			AccountID: "acct-1",
			Destinations: map[string]string{
				"default": "https://a.com",
				"US":      "https://us.a.com",
			},
		})

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, saved.ID, resp.ID)
		assert.Len(t, resp.ID, encoder.MaxLength)
		assert.Equal(t, "acct-1", resp.AccountID)
		assert.Equal(t, "https://us.a.com", resp.Destinations["US"])
	})

	t.Run("missing default destination", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := mocks.NewMockLinkStore(ctrl)

		svc := NewLinkService(mockStore)
		_, err := svc.Create(ctx, &model.CreateLinkRequest{
			AccountID:    "acct-1",
			Destinations: map[string]string{"US": "https://us.a.com"},
		})

		assert.ErrorIs(t, err, model.ErrMissingDefaultDestination)
	})

	t.Run("store failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockStore := mocks.NewMockLinkStore(ctrl)
		mockStore.EXPECT().SaveLink(gomock.Any(), gomock.Any()).Return(assert.AnError)

		svc := NewLinkService(mockStore)
		_, err := svc.Create(ctx, &model.CreateLinkRequest{
			AccountID:    "acct-1",
			Destinations: map[string]string{"default": "https://a.com"},
		})

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestLinkService_Evaluations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockLinkStore(ctrl)
	mockStore.EXPECT().ListEvaluations(gomock.Any(), "abc", 10).Return([]model.Evaluation{
		{ID: 1, LinkID: "abc", Status: model.StatusUp},
	}, nil)

	svc := NewLinkService(mockStore)
	evals, err := svc.Evaluations(context.Background(), "abc", 10)

	require.NoError(t, err)
	require.Len(t, evals, 1)
	assert.Equal(t, model.StatusUp, evals[0].Status)
}
