package customer_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/toffycaluga/tienda-backend/internal/auth"
	"github.com/toffycaluga/tienda-backend/internal/customer"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]customer.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) InsertProfile(ctx context.Context, p *customer.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) GetProfileByCustomerID(ctx context.Context, customerID uuid.UUID) (*customer.Profile, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Profile), args.Error(1)
}

func authedActor() auth.Actor {
	return auth.NewActor(uuid.Must(uuid.NewV4()), "staff")
}

func TestService_Create_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := customer.NewService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *customer.Customer) bool {
		return c.FullName == "Ana" && c.Email == "ana@x.com" && c.IsActive
	})).Return(nil).Once()

	created, err := svc.Create(context.Background(), authedActor(), "Ana", "ana@x.com")

	require.NoError(t, err)
	require.NotNil(t, created)
	mockRepo.AssertExpectations(t)
}

func TestService_Create_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := customer.NewService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(customer.ErrEmailExists).
		Once()

	_, err := svc.Create(context.Background(), authedActor(), "Ana", "ana@x.com")

	require.ErrorIs(t, err, customer.ErrEmailExists)
	mockRepo.AssertExpectations(t)
}

func TestService_Create_Unauthenticated(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := customer.NewService(mockRepo)

	_, err := svc.Create(context.Background(), auth.Anonymous(), "Ana", "ana@x.com")

	require.ErrorIs(t, err, auth.ErrUnauthenticated)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_List(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := customer.NewService(mockRepo)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	expected := []customer.Customer{
		{ID: uuid.Must(uuid.NewV4()), FullName: "Ana", Email: "ana@x.com", IsActive: true, CreatedAt: now},
		{ID: uuid.Must(uuid.NewV4()), FullName: "Luis", Email: "luis@x.com", IsActive: true, CreatedAt: now},
	}
	mockRepo.On("List", mock.Anything).Return(expected, nil).Once()

	got, err := svc.List(context.Background(), authedActor())

	require.NoError(t, err)
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("customers mismatch (-want +got):\n%s", diff)
	}
	mockRepo.AssertExpectations(t)
}

func TestService_Delete_ReferencedByOrder(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := customer.NewService(mockRepo)
	customerID := uuid.Must(uuid.NewV4())

	mockRepo.On("Delete", mock.Anything, customerID).
		Return(customer.ErrReferencedByOrder).
		Once()

	err := svc.Delete(context.Background(), authedActor(), customerID)

	require.ErrorIs(t, err, customer.ErrReferencedByOrder)
	mockRepo.AssertExpectations(t)
}

func TestService_AttachProfile_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := customer.NewService(mockRepo)
	customerID := uuid.Must(uuid.NewV4())

	mockRepo.On("ExistsByID", mock.Anything, customerID).Return(true, nil).Once()
	mockRepo.On("GetProfileByCustomerID", mock.Anything, customerID).
		Return(nil, customer.ErrNotFound).
		Once()
	mockRepo.On("InsertProfile", mock.Anything, mock.MatchedBy(func(p *customer.Profile) bool {
		return p.CustomerID == customerID && p.DocumentID == "12.345.678-9" && p.Phone == "+56 9 1234 5678"
	})).Return(nil).Once()

	profile, err := svc.AttachProfile(context.Background(), authedActor(), customerID, "12.345.678-9", "+56 9 1234 5678")

	require.NoError(t, err)
	require.NotNil(t, profile)
	mockRepo.AssertExpectations(t)
}

func TestService_AttachProfile_AlreadyHasProfile(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := customer.NewService(mockRepo)
	customerID := uuid.Must(uuid.NewV4())

	mockRepo.On("ExistsByID", mock.Anything, customerID).Return(true, nil).Once()
	mockRepo.On("GetProfileByCustomerID", mock.Anything, customerID).
		Return(&customer.Profile{CustomerID: customerID, DocumentID: "11.111.111-1"}, nil).
		Once()

	// The 1:1 invariant is reported before any write.
	_, err := svc.AttachProfile(context.Background(), authedActor(), customerID, "12.345.678-9", "")

	require.ErrorIs(t, err, customer.ErrProfileExists)
	mockRepo.AssertNotCalled(t, "InsertProfile", mock.Anything, mock.Anything)
}

func TestService_AttachProfile_DuplicateDocumentID(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := customer.NewService(mockRepo)
	customerID := uuid.Must(uuid.NewV4())

	mockRepo.On("ExistsByID", mock.Anything, customerID).Return(true, nil).Once()
	mockRepo.On("GetProfileByCustomerID", mock.Anything, customerID).
		Return(nil, customer.ErrNotFound).
		Once()
	mockRepo.On("InsertProfile", mock.Anything, mock.Anything).
		Return(customer.ErrDocumentIDExists).
		Once()

	_, err := svc.AttachProfile(context.Background(), authedActor(), customerID, "12.345.678-9", "")

	require.ErrorIs(t, err, customer.ErrDocumentIDExists)
	mockRepo.AssertExpectations(t)
}

func TestService_AttachProfile_CustomerNotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := customer.NewService(mockRepo)
	customerID := uuid.Must(uuid.NewV4())

	mockRepo.On("ExistsByID", mock.Anything, customerID).Return(false, nil).Once()

	_, err := svc.AttachProfile(context.Background(), authedActor(), customerID, "12.345.678-9", "")

	require.ErrorIs(t, err, customer.ErrNotFound)
	mockRepo.AssertNotCalled(t, "InsertProfile", mock.Anything, mock.Anything)
}
