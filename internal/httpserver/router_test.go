package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookstore-api/internal/domain"
	orderrepo "bookstore-api/internal/repository/order"
	catalogsvc "bookstore-api/internal/service/catalog"
	checkoutsvc "bookstore-api/internal/service/checkout"
	usersvc "bookstore-api/internal/service/user"
	"github.com/gin-gonic/gin"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubUserService struct {
	user      *domain.User
	signupErr error
	loginErr  error
	lookupErr error
}

func (s *stubUserService) Signup(_ context.Context, _ usersvc.SignupInput) (*domain.User, error) {
	return s.user, s.signupErr
}

func (s *stubUserService) Login(_ context.Context, _, _ string) (*domain.User, string, string, error) {
	return s.user, "access", "refresh", s.loginErr
}

func (s *stubUserService) LookupByToken(_ context.Context, _ string) (*domain.User, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.user, nil
}

func (s *stubUserService) AccessTTLSeconds() int {
	return 3600
}

type stubCatalogService struct {
	books     []domain.Book
	book      *domain.Book
	err       error
	created   *domain.Book
	createErr error
}

func (s *stubCatalogService) List(_ context.Context) ([]domain.Book, error) {
	return s.books, s.err
}

func (s *stubCatalogService) Get(_ context.Context, _ int64) (*domain.Book, error) {
	if s.book == nil && s.err == nil {
		return nil, domain.ErrNotFound
	}
	return s.book, s.err
}

func (s *stubCatalogService) Create(_ context.Context, _ catalogsvc.BookInput) (*domain.Book, error) {
	return s.created, s.createErr
}

func (s *stubCatalogService) Update(_ context.Context, _ int64, _ catalogsvc.BookInput) (*domain.Book, error) {
	return s.created, s.createErr
}

func (s *stubCatalogService) Deactivate(_ context.Context, _ int64) error {
	return s.err
}

type stubCheckoutService struct {
	result     *checkoutsvc.Result
	err        error
	calls      int
	lastUserID string
	lastInput  checkoutsvc.ConfirmInput
}

func (s *stubCheckoutService) Confirm(_ context.Context, userID string, in checkoutsvc.ConfirmInput) (*checkoutsvc.Result, error) {
	s.calls++
	s.lastUserID = userID
	s.lastInput = in
	return s.result, s.err
}

type stubOrderStore struct {
	orders     []domain.Order
	total      int64
	err        error
	statusErr  error
	lastID     string
	lastStatus string
	lastFilter orderrepo.ListFilter
}

func (s *stubOrderStore) ListByUser(_ context.Context, _ string, _ int) ([]domain.Order, error) {
	return s.orders, s.err
}

func (s *stubOrderStore) List(_ context.Context, filter orderrepo.ListFilter) ([]domain.Order, int64, error) {
	s.lastFilter = filter
	return s.orders, s.total, s.err
}

func (s *stubOrderStore) UpdateStatus(_ context.Context, id, status string) error {
	s.lastID = id
	s.lastStatus = status
	return s.statusErr
}

func testDeps() Deps {
	return Deps{
		UserSvc:     &stubUserService{user: &domain.User{ID: "user-1", Email: "reader@example.com"}},
		CatalogSvc:  &stubCatalogService{},
		CheckoutSvc: &stubCheckoutService{},
		Orders:      &stubOrderStore{},
	}
}

func serve(t *testing.T, deps Deps, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, deps, "*")
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := serve(t, testDeps(), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBuildRouterMissingDeps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if _, err := buildRouter(logDiscard(), nil, Deps{}, "*"); err == nil {
		t.Fatalf("expected error for missing dependencies")
	}
}

func TestListBooks(t *testing.T) {
	deps := testDeps()
	deps.CatalogSvc = &stubCatalogService{books: []domain.Book{{ID: 1, Title: "Go in Action", Price: 45000}}}

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	rec := serve(t, deps, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"title":"Go in Action"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetBookNotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/books/42", nil)
	rec := serve(t, testDeps(), req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := serve(t, testDeps(), req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestAuthInvalidToken(t *testing.T) {
	deps := testDeps()
	deps.UserSvc = &stubUserService{lookupErr: usersvc.ErrInvalidToken}

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := serve(t, deps, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}
}

func TestAdminForbiddenForRegularUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := serve(t, testDeps(), req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminListOrdersWithFilter(t *testing.T) {
	store := &stubOrderStore{orders: []domain.Order{{ID: "o1", Status: domain.OrderStatusDone}}, total: 1}
	deps := testDeps()
	deps.UserSvc = &stubUserService{user: &domain.User{ID: "admin-1", Admin: true}}
	deps.Orders = store

	req := httptest.NewRequest(http.MethodGet, "/admin/orders?status=DONE&page=2&size=5", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := serve(t, deps, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if store.lastFilter.Status != domain.OrderStatusDone || store.lastFilter.Page != 2 || store.lastFilter.Size != 5 {
		t.Fatalf("unexpected filter %+v", store.lastFilter)
	}
}

func TestAdminListOrdersRejectsUnknownStatus(t *testing.T) {
	deps := testDeps()
	deps.UserSvc = &stubUserService{user: &domain.User{ID: "admin-1", Admin: true}}

	req := httptest.NewRequest(http.MethodGet, "/admin/orders?status=BOGUS", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := serve(t, deps, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	store := &stubOrderStore{}
	deps := testDeps()
	deps.UserSvc = &stubUserService{user: &domain.User{ID: "admin-1", Admin: true}}
	deps.Orders = store

	req := httptest.NewRequest(http.MethodPatch, "/admin/orders/o1/status", strings.NewReader(`{"status":"SHIPPING"}`))
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")
	rec := serve(t, deps, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rec.Code, rec.Body.String())
	}
	if store.lastID != "o1" || store.lastStatus != domain.OrderStatusShipping {
		t.Fatalf("unexpected update %s/%s", store.lastID, store.lastStatus)
	}
}
