package address

import (
	"context"
	types "ecosync-hub/internal/common/type"
	"ecosync-hub/internal/pkg/jwt"
	"ecosync-hub/internal/pkg/middleware"
	"ecosync-hub/internal/pkg/validation"
	addressService "ecosync-hub/internal/service/address"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	calls []string
	user  types.UserWithAuth
	id    uint64
	req   *addressService.AddressRequest
}

func (f *fakeService) record(name string, user types.UserWithAuth, id uint64, req *addressService.AddressRequest) *types.Response {
	f.calls = append(f.calls, name)
	f.user, f.id, f.req = user, id, req
	return &types.Response{Code: http.StatusOK, Message: name}
}

func (f *fakeService) ListAddresses(user types.UserWithAuth) *types.Response {
	return f.record("list", user, 0, nil)
}

func (f *fakeService) GetAddress(user types.UserWithAuth, id uint64) *types.Response {
	return f.record("get", user, id, nil)
}

func (f *fakeService) CreateAddress(user types.UserWithAuth, req *addressService.AddressRequest) *types.Response {
	return f.record("create", user, 0, req)
}

func (f *fakeService) UpdateAddress(user types.UserWithAuth, id uint64, req *addressService.AddressRequest) *types.Response {
	return f.record("update", user, id, req)
}

func (f *fakeService) DeleteAddress(user types.UserWithAuth, id uint64) *types.Response {
	return f.record("delete", user, id, nil)
}

func setup(t *testing.T) (*gin.Engine, *fakeService, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "address-handler-secret")
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Setup())

	svc := &fakeService{}
	e := gin.New()
	e.Use(middleware.ResponseInit())
	NewHandler(context.Background(), svc).NewRoutes(e.Group("/api"))

	token, _, err := jwt.GenerateToken(types.UserWithAuth{ID: 8}, time.Hour)
	require.NoError(t, err)
	return e, svc, token
}

func do(e *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

const validAddress = `{"full_name":"Karim","house_flat_no":"7B","thana_upazila":"Mirpur","district":"Dhaka","postal_code":"1216","address_type":"office"}`

func TestAddressRoutesRequireAuth(t *testing.T) {
	e, svc, _ := setup(t)

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/api/v1/addresses", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodPost, "/api/v1/addresses", "", validAddress).Code)
	assert.Empty(t, svc.calls)
}

func TestCreateAddress(t *testing.T) {
	e, svc, token := setup(t)

	w := do(e, http.MethodPost, "/api/v1/addresses", token, validAddress)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"create"}, svc.calls)
	assert.Equal(t, uint64(8), svc.user.ID)
	require.NotNil(t, svc.req)
	assert.Equal(t, "Karim", svc.req.FullName)
	assert.Equal(t, "office", svc.req.AddressType.ToString())
}

func TestCreateAddressValidation(t *testing.T) {
	e, svc, token := setup(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing district", `{"full_name":"Karim","house_flat_no":"7B","thana_upazila":"Mirpur","postal_code":"1216"}`},
		{"unknown address type", strings.Replace(validAddress, `"office"`, `"castle"`, 1)},
		{"malformed", `{"full_name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(e, http.MethodPost, "/api/v1/addresses", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body types.ResponseAPI
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Invalid request body", body.Message)
			assert.NotEmpty(t, body.Error)
		})
	}
	assert.Empty(t, svc.calls)
}

func TestAddressIDRoutes(t *testing.T) {
	e, svc, token := setup(t)

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/v1/addresses/abc", token, "").Code)
	assert.Empty(t, svc.calls)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/v1/addresses/3", token, "").Code)
	assert.Equal(t, uint64(3), svc.id)

	assert.Equal(t, http.StatusOK, do(e, http.MethodPut, "/api/v1/addresses/4", token, validAddress).Code)
	assert.Equal(t, uint64(4), svc.id)

	assert.Equal(t, http.StatusOK, do(e, http.MethodDelete, "/api/v1/addresses/5", token, "").Code)
	assert.Equal(t, uint64(5), svc.id)

	assert.Equal(t, []string{"get", "update", "delete"}, svc.calls)
}
