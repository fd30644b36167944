package address

import (
	"context"
	"ecosync-hub/internal/common/enum"
	"ecosync-hub/internal/common/models"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/repository"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryRepo mirrors the gorm repository, default flag handling included.
type memoryRepo struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*models.Address
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[uint64]*models.Address{}}
}

func (r *memoryRepo) FindByUser(ctx context.Context, userID uint64) ([]models.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Address
	for id := uint64(1); id <= r.nextID; id++ {
		if a, ok := r.rows[id]; ok && a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memoryRepo) FindByIDForUser(ctx context.Context, id, userID uint64) (*models.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok || a.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memoryRepo) Create(ctx context.Context, address *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	address.ID = r.nextID
	r.save(address)
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, address *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.save(address)
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.rows[id]; ok && a.UserID == userID {
		delete(r.rows, id)
		return 1, nil
	}
	return 0, nil
}

func (r *memoryRepo) save(address *models.Address) {
	if address.IsDefault {
		for _, a := range r.rows {
			if a.UserID == address.UserID && a.ID != address.ID {
				a.IsDefault = false
			}
		}
	}
	cp := *address
	r.rows[address.ID] = &cp
}

var user = types.UserWithAuth{ID: 1}

func request(name string, isDefault bool) *AddressRequest {
	return &AddressRequest{
		FullName:     name,
		HouseFlatNo:  "House 12",
		RoadStreet:   "Road 5",
		ThanaUpazila: "Gulshan",
		District:     "Dhaka",
		Division:     "Dhaka",
		PostalCode:   "1212",
		IsDefault:    isDefault,
	}
}

func newService() (IService, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(context.Background(), &repository.IRepository{Address: repo}), repo
}

func TestCreateAddressDefaults(t *testing.T) {
	svc, _ := newService()

	res := svc.CreateAddress(user, request("Rahim", false))

	require.Equal(t, http.StatusCreated, res.Code)
	a := res.Data.(AddressResponse)
	assert.Equal(t, enum.ADDRESS_HOME, a.AddressType)
	assert.Equal(t, models.DefaultCountry, a.Country)
	assert.Equal(t, "Rahim\nHouse 12, Road 5\nGulshan\nDhaka, Dhaka\n1212\nBANGLADESH", a.Formatted)
}

func TestDefaultAddressIsExclusive(t *testing.T) {
	svc, repo := newService()

	svc.CreateAddress(user, request("First", true))
	svc.CreateAddress(user, request("Second", true))

	assert.False(t, repo.rows[1].IsDefault)
	assert.True(t, repo.rows[2].IsDefault)

	res := svc.UpdateAddress(user, 1, request("First", true))
	require.Equal(t, http.StatusOK, res.Code)
	assert.True(t, repo.rows[1].IsDefault)
	assert.False(t, repo.rows[2].IsDefault)
}

func TestForeignAddressIsNotFound(t *testing.T) {
	svc, _ := newService()
	svc.CreateAddress(user, request("Rahim", false))
	stranger := types.UserWithAuth{ID: 2}

	assert.Equal(t, http.StatusNotFound, svc.GetAddress(stranger, 1).Code)
	assert.Equal(t, http.StatusNotFound, svc.UpdateAddress(stranger, 1, request("x", false)).Code)
	assert.Equal(t, http.StatusNotFound, svc.DeleteAddress(stranger, 1).Code)
	assert.Equal(t, http.StatusNotFound, svc.GetAddress(user, 42).Code)
}

func TestListAndDeleteAddresses(t *testing.T) {
	svc, _ := newService()
	svc.CreateAddress(user, request("One", false))
	svc.CreateAddress(user, request("Two", false))

	list := svc.ListAddresses(user).Data.([]AddressResponse)
	assert.Len(t, list, 2)

	assert.Equal(t, http.StatusOK, svc.DeleteAddress(user, 1).Code)
	assert.Len(t, svc.ListAddresses(user).Data.([]AddressResponse), 1)
}
