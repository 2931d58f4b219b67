package catalog_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/toffycaluga/tienda-backend/internal/auth"
	"github.com/toffycaluga/tienda-backend/internal/catalog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func managerActor(caps ...auth.Capability) auth.Actor {
	return auth.NewActor(uuid.Must(uuid.NewV4()), "manager", caps...)
}

func TestService_Create_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := catalog.NewService(mockRepo)
	actor := managerActor(auth.CapAddProduct)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *catalog.Product) bool {
		return p.Name == "Polera" &&
			p.SKU == "POL-001" &&
			p.IsActive &&
			p.CreatedBy != nil && *p.CreatedBy == actor.ID
	})).Return(nil).Once()

	product, err := svc.Create(context.Background(), actor, catalog.CreateInput{
		Name:  "Polera",
		SKU:   "POL-001",
		Price: decimal.RequireFromString("19.90"),
	})

	require.NoError(t, err)
	require.NotNil(t, product)
	require.True(t, product.Price.Equal(decimal.RequireFromString("19.90")))
	mockRepo.AssertExpectations(t)
}

func TestService_Create_DuplicateSKU(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := catalog.NewService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(catalog.ErrSKUExists).
		Once()

	_, err := svc.Create(context.Background(), managerActor(auth.CapAddProduct), catalog.CreateInput{
		Name:  "Polera",
		SKU:   "POL-001",
		Price: decimal.RequireFromString("19.90"),
	})

	require.ErrorIs(t, err, catalog.ErrSKUExists)
	mockRepo.AssertExpectations(t)
}

func TestService_Create_PermissionDenied(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := catalog.NewService(mockRepo)

	_, err := svc.Create(context.Background(), managerActor(auth.CapViewProduct), catalog.CreateInput{
		Name:  "Polera",
		SKU:   "POL-001",
		Price: decimal.RequireFromString("19.90"),
	})

	require.ErrorIs(t, err, auth.ErrPermissionDenied)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input catalog.CreateInput
	}{
		{name: "empty_name", input: catalog.CreateInput{Name: "  ", SKU: "POL-001", Price: decimal.NewFromInt(1)}},
		{name: "empty_sku", input: catalog.CreateInput{Name: "Polera", SKU: "", Price: decimal.NewFromInt(1)}},
		{name: "negative_price", input: catalog.CreateInput{Name: "Polera", SKU: "POL-001", Price: decimal.RequireFromString("-0.01")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			svc := catalog.NewService(mockRepo)

			_, err := svc.Create(context.Background(), managerActor(auth.CapAddProduct), tt.input)

			require.ErrorIs(t, err, catalog.ErrValidation)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Delete_ReferencedByOrder(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := catalog.NewService(mockRepo)
	productID := uuid.Must(uuid.NewV4())

	mockRepo.On("Delete", mock.Anything, productID).
		Return(catalog.ErrReferencedByOrder).
		Once()

	err := svc.Delete(context.Background(), managerActor(auth.CapDeleteProduct), productID)

	require.ErrorIs(t, err, catalog.ErrReferencedByOrder)
	mockRepo.AssertExpectations(t)
}

func TestService_MarkInactive_PermissionDenied(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := catalog.NewService(mockRepo)

	// change-product is not enough; mark-inactive is a distinct capability.
	_, err := svc.MarkInactive(context.Background(), managerActor(auth.CapChangeProduct), uuid.Must(uuid.NewV4()))

	require.ErrorIs(t, err, auth.ErrPermissionDenied)
	mockRepo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_MarkInactive_Idempotent(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := catalog.NewService(mockRepo)
	actor := managerActor(auth.CapMarkInactive)
	productID := uuid.Must(uuid.NewV4())

	inactive := &catalog.Product{
		ID:       productID,
		Name:     "Polera",
		SKU:      "POL-001",
		Price:    decimal.RequireFromString("19.90"),
		IsActive: false,
	}

	mockRepo.On("SetActive", mock.Anything, productID, false).Return(nil).Twice()
	mockRepo.On("GetByID", mock.Anything, productID).Return(inactive, nil).Twice()

	first, err := svc.MarkInactive(context.Background(), actor, productID)
	require.NoError(t, err)
	require.False(t, first.IsActive)

	second, err := svc.MarkInactive(context.Background(), actor, productID)
	require.NoError(t, err)
	require.False(t, second.IsActive)

	mockRepo.AssertExpectations(t)
}

func TestService_MarkInactive_Unauthenticated(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := catalog.NewService(mockRepo)

	_, err := svc.MarkInactive(context.Background(), auth.Anonymous(), uuid.Must(uuid.NewV4()))

	require.ErrorIs(t, err, auth.ErrUnauthenticated)
}
