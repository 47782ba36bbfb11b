package service

import (
	"context"
	"testing"

	"github.com/frayen/support-desk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFaqService_Create_DefaultCategory(t *testing.T) {
	faqRepo := new(MockFaqRepo)
	svc := NewFaqService(faqRepo, nil)

	faqRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FaqEntry")).Return(nil)

	entry, err := svc.Create(context.Background(), CreateInput{
		Question: "Do you offer gift wrapping?",
		Answer:   "Yes, at checkout.",
	})
	require.NoError(t, err)
	assert.Equal(t, "general", entry.Category)
	assert.NotEqual(t, "", entry.ID.String())

	faqRepo.AssertExpectations(t)
}

func TestFaqService_List_FallsBackToStoreWithoutCache(t *testing.T) {
	faqRepo := new(MockFaqRepo)
	svc := NewFaqService(faqRepo, nil)

	want := []domain.FaqEntry{{Question: "Q?", Answer: "A."}}
	faqRepo.On("List", mock.Anything, "shipping").Return(want, nil)

	got, err := svc.List(context.Background(), "shipping")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFaqService_EnsureSeeded_SkipsNonEmptyStore(t *testing.T) {
	faqRepo := new(MockFaqRepo)
	svc := NewFaqService(faqRepo, nil)

	faqRepo.On("Count", mock.Anything).Return(int64(12), nil)

	require.NoError(t, svc.EnsureSeeded(context.Background()))
	faqRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFaqService_EnsureSeeded_LoadsBundledCorpus(t *testing.T) {
	faqRepo := new(MockFaqRepo)
	svc := NewFaqService(faqRepo, nil)

	var seeded []*domain.FaqEntry
	faqRepo.On("Count", mock.Anything).Return(int64(0), nil)
	faqRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FaqEntry")).
		Run(func(args mock.Arguments) {
			seeded = append(seeded, args.Get(1).(*domain.FaqEntry))
		}).
		Return(nil)

	require.NoError(t, svc.EnsureSeeded(context.Background()))
	require.NotEmpty(t, seeded)

	for _, e := range seeded {
		assert.NotEmpty(t, e.Question)
		assert.NotEmpty(t, e.Answer)
		assert.NotEmpty(t, e.Category)
	}
}
