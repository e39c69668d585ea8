package httpserver

import (
	"context"
	"errors"
	"log"
	"strings"

	"bookstore-api/internal/domain"
	orderrepo "bookstore-api/internal/repository/order"
	catalogsvc "bookstore-api/internal/service/catalog"
	checkoutsvc "bookstore-api/internal/service/checkout"
	usersvc "bookstore-api/internal/service/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserService is the auth surface the handlers consume.
type UserService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	AccessTTLSeconds() int
}

// CatalogService covers browsing and the admin catalog mutations.
type CatalogService interface {
	List(ctx context.Context) ([]domain.Book, error)
	Get(ctx context.Context, id int64) (*domain.Book, error)
	Create(ctx context.Context, in catalogsvc.BookInput) (*domain.Book, error)
	Update(ctx context.Context, id int64, in catalogsvc.BookInput) (*domain.Book, error)
	Deactivate(ctx context.Context, id int64) error
}

// CheckoutService finalizes payment confirmations.
type CheckoutService interface {
	Confirm(ctx context.Context, userID string, in checkoutsvc.ConfirmInput) (*checkoutsvc.Result, error)
}

// OrderStore is the read/admin surface over persisted orders.
type OrderStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error)
	List(ctx context.Context, filter orderrepo.ListFilter) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// Deps carries everything the router needs.
type Deps struct {
	UserSvc     UserService
	CatalogSvc  CatalogService
	CheckoutSvc CheckoutService
	Orders      OrderStore
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins string) (*gin.Engine, error) {
	if deps.UserSvc == nil || deps.CatalogSvc == nil || deps.CheckoutSvc == nil || deps.Orders == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if corsOrigins == "" || corsOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(corsOrigins, ",")
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/signup", signupHandler(deps.UserSvc))
	router.POST("/login", loginHandler(deps.UserSvc))

	router.GET("/books", listBooksHandler(deps.CatalogSvc))
	router.GET("/books/:id", getBookHandler(deps.CatalogSvc))

	authed := router.Group("/", requireAuth(deps.UserSvc))
	authed.GET("/me", meHandler())
	authed.POST("/payments/confirm", confirmPaymentHandler(deps.CheckoutSvc))
	authed.GET("/orders", listMyOrdersHandler(deps.Orders))

	admin := authed.Group("/admin", requireAdmin())
	admin.POST("/books", createBookHandler(deps.CatalogSvc))
	admin.PUT("/books/:id", updateBookHandler(deps.CatalogSvc))
	admin.DELETE("/books/:id", deactivateBookHandler(deps.CatalogSvc))
	admin.GET("/orders", listAllOrdersHandler(deps.Orders))
	admin.PATCH("/orders/:id/status", updateOrderStatusHandler(deps.Orders))

	return router, nil
}
