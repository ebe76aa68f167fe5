package service

import (
	"context"
	"errors"
	"testing"

	caterrors "github.com/evergreen/nursery/internal/catalog/errors"
	"github.com/evergreen/nursery/internal/catalog/model"
	"github.com/evergreen/nursery/internal/catalog/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type decrementCall struct {
	id primitive.ObjectID
	by int64
}

// mockProductStore is a mock implementation of the ProductStore interface
type mockProductStore struct {
	products   []model.Product
	product    model.Product
	totalCount int64
	insertedID primitive.ObjectID
	matched    int64
	deleted    int64
	err        error

	lastPage       store.PageQuery
	decrementCalls []decrementCall
	failDecrement  string // hex ID whose decrement fails
}

func (m *mockProductStore) FindAll(_ context.Context) ([]model.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockProductStore) FindPage(_ context.Context, q store.PageQuery) ([]model.Product, int64, error) {
	m.lastPage = q
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.products, m.totalCount, nil
}

func (m *mockProductStore) FindByID(_ context.Context, _ primitive.ObjectID) (*model.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &m.product, nil
}

func (m *mockProductStore) SearchByTitle(_ context.Context, _ string) ([]model.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockProductStore) Insert(_ context.Context, _ model.Document) (primitive.ObjectID, error) {
	if m.err != nil {
		return primitive.NilObjectID, m.err
	}
	return m.insertedID, nil
}

func (m *mockProductStore) Update(_ context.Context, _ primitive.ObjectID, _ model.Document) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.matched, nil
}

func (m *mockProductStore) Delete(_ context.Context, _ primitive.ObjectID) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.deleted, nil
}

func (m *mockProductStore) DecrementQuantity(_ context.Context, id primitive.ObjectID, by int64) (int64, error) {
	if id.Hex() == m.failDecrement {
		return 0, errors.New("store failure")
	}
	m.decrementCalls = append(m.decrementCalls, decrementCall{id: id, by: by})
	return m.matched, nil
}

func Test_ProductService_FindByID(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("656e1d3f8f9c2a4b6d8e0f12")
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		productID   primitive.ObjectID
		expected    *model.Product
		expectError error
	}{
		{
			name: "Success - product found",
			mockStore: &mockProductStore{
				product: model.Product{ID: mockID, Title: "Rose", Price: 12.5, Quantity: 7},
			},
			productID: mockID,
			expected:  &model.Product{ID: mockID, Title: "Rose", Price: 12.5, Quantity: 7},
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				err: caterrors.ErrProductNotFound,
			},
			productID:   mockID,
			expected:    nil,
			expectError: caterrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindByID(context.Background(), tc.productID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_FindAll(t *testing.T) {
	ErrStoreError := errors.New("store error")
	mockID, _ := primitive.ObjectIDFromHex("656e1d3f8f9c2a4b6d8e0f12")
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		expected    []model.Product
		expectError error
	}{
		{
			name: "Success - products found",
			mockStore: &mockProductStore{
				products: []model.Product{{ID: mockID, Title: "Rose"}},
			},
			expected: []model.Product{{ID: mockID, Title: "Rose"}},
		},
		{
			name: "Success - no products",
			mockStore: &mockProductStore{
				products: []model.Product{},
			},
			expected: []model.Product{},
		},
		{
			name: "Error - store error",
			mockStore: &mockProductStore{
				err: ErrStoreError,
			},
			expectError: ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			found, err := service.FindAll(context.Background())
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_FindPage(t *testing.T) {
	testCases := []struct {
		name         string
		request      PageRequest
		expectedSkip int64
		expectedSort string
		expectedDesc bool
	}{
		{
			name:         "First page computes zero skip",
			request:      PageRequest{Page: 1, PageSize: 10, Sort: "title"},
			expectedSkip: 0,
			expectedSort: "title",
		},
		{
			name:         "Third page skips two pages",
			request:      PageRequest{Page: 3, PageSize: 25, Sort: "quantity", Desc: true},
			expectedSkip: 50,
			expectedSort: "quantity",
			expectedDesc: true,
		},
		{
			name:         "Empty sort falls back to price",
			request:      PageRequest{Page: 2, PageSize: 5},
			expectedSkip: 5,
			expectedSort: DefaultSortField,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockStore := &mockProductStore{products: []model.Product{}, totalCount: 42}
			service := NewService(mockStore)
			// when
			page, err := service.FindPage(context.Background(), tc.request)
			// then
			require.NoError(t, err)
			assert.Equal(t, int64(42), page.TotalCount)
			assert.Equal(t, tc.expectedSkip, mockStore.lastPage.Skip)
			assert.Equal(t, tc.request.PageSize, mockStore.lastPage.Limit)
			assert.Equal(t, tc.expectedSort, mockStore.lastPage.Sort)
			assert.Equal(t, tc.expectedDesc, mockStore.lastPage.Desc)
		})
	}
}

func Test_ProductService_Create(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("656e1d3f8f9c2a4b6d8e0f12")
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		doc         model.Document
		expectedID  primitive.ObjectID
		expectError bool
	}{
		{
			name:       "Success - arbitrary document accepted",
			mockStore:  &mockProductStore{insertedID: mockID},
			doc:        model.Document{"title": "Fern", "potSize": "12cm"},
			expectedID: mockID,
		},
		{
			name:        "Error - store error",
			mockStore:   &mockProductStore{err: errors.New("insert failed")},
			doc:         model.Document{"title": "Fern"},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			id, err := service.Create(context.Background(), tc.doc)
			// then
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, id)
		})
	}
}

func Test_ProductService_Update(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("656e1d3f8f9c2a4b6d8e0f12")
	testCases := []struct {
		name            string
		mockStore       *mockProductStore
		expectedMatched int64
		expectError     bool
	}{
		{
			name:            "Success - one matched",
			mockStore:       &mockProductStore{matched: 1},
			expectedMatched: 1,
		},
		{
			name:            "Success - zero matched is not an error",
			mockStore:       &mockProductStore{matched: 0},
			expectedMatched: 0,
		},
		{
			name:        "Error - store error",
			mockStore:   &mockProductStore{err: errors.New("update failed")},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore)
			// when
			matched, err := service.Update(context.Background(), mockID, model.Document{"price": 9.99})
			// then
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedMatched, matched)
		})
	}
}

func Test_ProductService_DecrementQuantities(t *testing.T) {
	idA := "656e1d3f8f9c2a4b6d8e0f01"
	idB := "656e1d3f8f9c2a4b6d8e0f02"
	idC := "656e1d3f8f9c2a4b6d8e0f03"

	t.Run("Applies items sequentially in input order", func(t *testing.T) {
		// given
		mockStore := &mockProductStore{matched: 1}
		service := NewService(mockStore)
		items := []DecrementItem{
			{ProductID: idA, Quantity: 3},
			{ProductID: idB, Quantity: 1},
			{ProductID: idC, Quantity: 5},
		}
		// when
		report, err := service.DecrementQuantities(context.Background(), items)
		// then
		require.NoError(t, err)
		require.Len(t, report.Applied, 3)
		assert.Equal(t, []DecrementResult{
			{ProductID: idA, Matched: 1},
			{ProductID: idB, Matched: 1},
			{ProductID: idC, Matched: 1},
		}, report.Applied)
		require.Len(t, mockStore.decrementCalls, 3)
		assert.Equal(t, int64(3), mockStore.decrementCalls[0].by)
		assert.Equal(t, int64(1), mockStore.decrementCalls[1].by)
		assert.Equal(t, int64(5), mockStore.decrementCalls[2].by)
	})

	t.Run("Missing product is a matched-zero no-op, not an error", func(t *testing.T) {
		// given
		mockStore := &mockProductStore{matched: 0}
		service := NewService(mockStore)
		// when
		report, err := service.DecrementQuantities(context.Background(), []DecrementItem{{ProductID: idA, Quantity: 2}})
		// then
		require.NoError(t, err)
		require.Len(t, report.Applied, 1)
		assert.Equal(t, int64(0), report.Applied[0].Matched)
	})

	t.Run("Store failure aborts the batch and reports applied items", func(t *testing.T) {
		// given
		mockStore := &mockProductStore{matched: 1, failDecrement: idB}
		service := NewService(mockStore)
		items := []DecrementItem{
			{ProductID: idA, Quantity: 3},
			{ProductID: idB, Quantity: 1},
			{ProductID: idC, Quantity: 5},
		}
		// when
		report, err := service.DecrementQuantities(context.Background(), items)
		// then
		require.Error(t, err)
		require.Len(t, report.Applied, 1)
		assert.Equal(t, idA, report.Applied[0].ProductID)
		// the item after the failure is never attempted
		require.Len(t, mockStore.decrementCalls, 1)
	})

	t.Run("Invalid product ID stops before any store call", func(t *testing.T) {
		// given
		mockStore := &mockProductStore{matched: 1}
		service := NewService(mockStore)
		// when
		report, err := service.DecrementQuantities(context.Background(), []DecrementItem{{ProductID: "not-an-id", Quantity: 1}})
		// then
		require.Error(t, err)
		assert.Empty(t, report.Applied)
		assert.Empty(t, mockStore.decrementCalls)
	})
}
