package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	partnerapp "github.com/einvoice/backend/internal/application/partner"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupPartyRouter(svc PartyService, userID uuid.UUID) *gin.Engine {
	h := NewPartyHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(middleware.JWTUserIDKey, userID)
		}
		c.Next()
	})
	r.POST("/accounts", h.CreateAccount)
	r.GET("/accounts/:id", h.GetAccount)
	r.POST("/clients", h.CreateClient)
	r.GET("/clients/:id", h.GetClient)
	r.POST("/users", h.CreateUser)
	r.GET("/users/:id", h.GetUser)
	return r
}

func TestPartyHandler_CreateAccount(t *testing.T) {
	svc := new(mockPartyService)
	userID := uuid.New()
	name := gofakeit.Company()
	svc.On("CreateAccount", mock.Anything, mock.MatchedBy(func(req partnerapp.CreateAccountRequest) bool {
		return req.Name == name && req.UserID != nil && *req.UserID == userID
	})).Return(&partnerapp.AccountResponse{ID: uuid.New(), Name: name}, nil)

	w := httptest.NewRecorder()
	setupPartyRouter(svc, userID).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/accounts", jsonBody(t, map[string]any{
		"name":        name,
		"owner_email": gofakeit.Email(),
	})))

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestPartyHandler_CreateClient(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(mockPartyService)
		accountID := uuid.New()
		svc.On("CreateClient", mock.Anything, mock.MatchedBy(func(req partnerapp.CreateClientRequest) bool {
			return req.AccountID == accountID && req.CountryCode == "SA"
		})).Return(&partnerapp.ClientResponse{ID: uuid.New(), Account: accountID}, nil)

		w := httptest.NewRecorder()
		setupPartyRouter(svc, uuid.Nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/clients", jsonBody(t, map[string]any{
			"account":                   accountID.String(),
			"registrationName":          gofakeit.Company(),
			"cityName":                  gofakeit.City(),
			"countryIdentificationCode": "SA",
		})))

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown account", func(t *testing.T) {
		svc := new(mockPartyService)
		svc.On("CreateClient", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError(shared.CodeNotFound, "Account not found"))

		w := httptest.NewRecorder()
		setupPartyRouter(svc, uuid.Nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/clients", jsonBody(t, map[string]any{
			"account":          uuid.NewString(),
			"registrationName": gofakeit.Company(),
		})))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad country code", func(t *testing.T) {
		svc := new(mockPartyService)
		w := httptest.NewRecorder()
		setupPartyRouter(svc, uuid.Nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/clients", jsonBody(t, map[string]any{
			"account":                   uuid.NewString(),
			"registrationName":          gofakeit.Company(),
			"countryIdentificationCode": "SAU",
		})))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPartyHandler_CreateUser(t *testing.T) {
	svc := new(mockPartyService)
	email := gofakeit.Email()
	svc.On("CreateUser", mock.Anything, partnerapp.CreateUserRequest{Name: "Sara", Email: email}).
		Return(&partnerapp.UserResponse{ID: uuid.New(), Name: "Sara", Email: email}, nil)
	r := setupPartyRouter(svc, uuid.Nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users", jsonBody(t, map[string]any{"name": "Sara", "email": email})))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users", jsonBody(t, map[string]any{"name": "Sara", "email": "not-an-email"})))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPartyHandler_Lookups(t *testing.T) {
	svc := new(mockPartyService)
	accountID, clientID, userID := uuid.New(), uuid.New(), uuid.New()
	svc.On("GetAccount", mock.Anything, accountID).Return(&partnerapp.AccountResponse{ID: accountID}, nil)
	svc.On("GetClient", mock.Anything, clientID).Return(nil, shared.NewDomainError(shared.CodeNotFound, "Client not found"))
	svc.On("GetUser", mock.Anything, userID).Return(&partnerapp.UserResponse{ID: userID}, nil)
	r := setupPartyRouter(svc, uuid.Nil)

	tests := []struct {
		path   string
		status int
	}{
		{"/accounts/" + accountID.String(), http.StatusOK},
		{"/accounts/nope", http.StatusBadRequest},
		{"/clients/" + clientID.String(), http.StatusNotFound},
		{"/clients/nope", http.StatusBadRequest},
		{"/users/" + userID.String(), http.StatusOK},
		{"/users/nope", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
