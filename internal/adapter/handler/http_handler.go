package handler

import (
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/rl1809/canteen-orders/internal/core/domain"
	"github.com/rl1809/canteen-orders/internal/core/service"
	"github.com/rl1809/canteen-orders/internal/metrics"
	"github.com/rl1809/canteen-orders/internal/port"
)

const (
	identityContextKey = "identity"
	maxUploadSize      = 6 << 20
)

type HTTPHandler struct {
	orders   *service.Coordinator
	carts    *service.CartService
	catalog  *service.CatalogService
	accounts *service.AccountService
	identity port.IdentityProvider
	status   statusAuthorizer
}

type AddItemRequest struct {
	CanteenID  string `json:"canteen_id" binding:"required"`
	MenuItemID string `json:"item_id" binding:"required"`
	Quantity   int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Delta int `json:"delta"`
}

type ReorderRequest struct {
	ArchiveID string `json:"archive_id" binding:"required"`
}

type CheckoutHTTPRequest struct {
	PaymentMethod string     `json:"payment_method" binding:"required"`
	ScheduledTime *time.Time `json:"scheduled_time"`
}

type StatusHTTPRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

type CanteenHTTPRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
}

type CanteenOpenRequest struct {
	Open *bool `json:"open" binding:"required"`
}

type MenuItemHTTPRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Available   *bool   `json:"available"`
}

func NewHTTPHandler(orders *service.Coordinator, carts *service.CartService, catalog *service.CatalogService, accounts *service.AccountService, identity port.IdentityProvider) *HTTPHandler {
	return &HTTPHandler{
		orders:   orders,
		carts:    carts,
		catalog:  catalog,
		accounts: accounts,
		identity: identity,
		status:   statusAuthorizer{orders: orders, catalog: catalog},
	}
}

// Router builds the gin engine with every route registered.
func (h *HTTPHandler) Router(ws *WSHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(metrics.PrometheusMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/health", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/canteens", h.ListCanteens)
	api.GET("/canteens/:canteenID", h.GetCanteen)
	api.GET("/canteens/:canteenID/menu", h.ListMenu)

	auth := api.Group("", h.Authenticate)
	auth.POST("/auth/signin", h.SignIn)
	auth.POST("/auth/signout", h.SignOut)

	auth.GET("/me", h.Profile)
	auth.GET("/me/orders", h.OrderHistory)
	auth.GET("/me/orders/active", h.ActiveOrders)

	auth.GET("/cart", h.GetCart)
	auth.DELETE("/cart", h.ClearCart)
	auth.POST("/cart/items", h.AddItem)
	auth.PATCH("/cart/items/:itemID", h.UpdateQuantity)
	auth.DELETE("/cart/items/:itemID", h.RemoveItem)
	auth.POST("/cart/reorder", h.Reorder)
	auth.POST("/cart/checkout", h.Checkout)

	auth.GET("/orders/:orderID", h.GetOrder)
	auth.POST("/orders/:orderID/status", h.UpdateStatus)

	auth.POST("/canteens", h.RegisterCanteen)
	auth.PATCH("/canteens/:canteenID", h.SetCanteenOpen)
	auth.POST("/canteens/:canteenID/menu", h.AddMenuItem)
	auth.PUT("/canteens/:canteenID/menu/:itemID", h.UpdateMenuItem)
	auth.DELETE("/canteens/:canteenID/menu/:itemID", h.DeleteMenuItem)
	auth.POST("/canteens/:canteenID/menu/:itemID/image", h.UploadMenuImage)
	auth.GET("/canteens/:canteenID/orders/active", h.CanteenActiveOrders)
	auth.GET("/canteens/:canteenID/orders/history", h.CanteenOrderHistory)
	auth.GET("/canteens/:canteenID/analytics", h.CanteenAnalytics)

	if ws != nil {
		auth.GET("/ws/orders", ws.WatchMyOrders)
		auth.GET("/ws/canteens/:canteenID/orders", ws.WatchCanteenOrders)
	}
	return r
}

// Authenticate resolves the bearer token. Browsers cannot set headers on a
// websocket handshake, so the access_token query parameter is accepted too.
func (h *HTTPHandler) Authenticate(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		token = c.Query("access_token")
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is missing"})
		return
	}

	id, err := h.identity.Verify(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(httpStatus(err), gin.H{"error": publicMessage(err)})
		return
	}

	c.Set(identityContextKey, id)
	c.Request = c.Request.WithContext(withIdentity(c.Request.Context(), id))
	c.Next()
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HTTPHandler) SignIn(c *gin.Context) {
	caller := callerOf(c)
	profile, err := h.accounts.SignIn(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *HTTPHandler) SignOut(c *gin.Context) {
	if err := h.identity.SignOut(c.Request.Context(), callerOf(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) Profile(c *gin.Context) {
	profile, err := h.accounts.Profile(c.Request.Context(), callerOf(c).UID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *HTTPHandler) OrderHistory(c *gin.Context) {
	orders, err := h.accounts.OrderHistory(c.Request.Context(), callerOf(c).UID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": nonNil(orders)})
}

func (h *HTTPHandler) ActiveOrders(c *gin.Context) {
	snap, err := h.orders.ListActive(c.Request.Context(), domain.ByUser(callerOf(c).UID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": sortedOrders(snap)})
}

func (h *HTTPHandler) GetCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), callerOf(c).UID)
	writeCart(c, cart, err)
}

func (h *HTTPHandler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), callerOf(c).UID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.carts.AddItem(c.Request.Context(), callerOf(c).UID, req.CanteenID, req.MenuItemID, req.Quantity)
	writeCart(c, cart, err)
}

func (h *HTTPHandler) UpdateQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	cart, err := h.carts.UpdateQuantity(c.Request.Context(), callerOf(c).UID, c.Param("itemID"), req.Delta)
	writeCart(c, cart, err)
}

func (h *HTTPHandler) RemoveItem(c *gin.Context) {
	cart, err := h.carts.RemoveItem(c.Request.Context(), callerOf(c).UID, c.Param("itemID"))
	writeCart(c, cart, err)
}

func (h *HTTPHandler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	cart, err := h.carts.Reorder(c.Request.Context(), callerOf(c).UID, req.ArchiveID)
	writeCart(c, cart, err)
}

func (h *HTTPHandler) Checkout(c *gin.Context) {
	var req CheckoutHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.carts.Checkout(c.Request.Context(), service.CheckoutRequest{
		UserID:        callerOf(c).UID,
		PaymentMethod: req.PaymentMethod,
		ScheduledTime: req.ScheduledTime,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *HTTPHandler) GetOrder(c *gin.Context) {
	ctx := c.Request.Context()
	order, err := h.orders.GetOrder(ctx, c.Param("orderID"))
	if err == nil {
		err = h.status.authorize(ctx, callerOf(c), *order)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *HTTPHandler) UpdateStatus(c *gin.Context) {
	var req StatusHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.status.updateStatus(c.Request.Context(), callerOf(c), c.Param("orderID"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *HTTPHandler) ListCanteens(c *gin.Context) {
	canteens, err := h.catalog.ListCanteens(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"canteens": nonNil(canteens)})
}

func (h *HTTPHandler) GetCanteen(c *gin.Context) {
	canteen, err := h.catalog.GetCanteen(c.Request.Context(), c.Param("canteenID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, canteen)
}

func (h *HTTPHandler) ListMenu(c *gin.Context) {
	items, err := h.catalog.ListMenu(c.Request.Context(), c.Param("canteenID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": nonNil(items)})
}

func (h *HTTPHandler) RegisterCanteen(c *gin.Context) {
	var req CanteenHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	canteen, err := h.catalog.RegisterCanteen(c.Request.Context(), callerOf(c), req.Name, req.Location)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, canteen)
}

func (h *HTTPHandler) SetCanteenOpen(c *gin.Context) {
	var req CanteenOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	canteen, err := h.catalog.SetCanteenOpen(c.Request.Context(), callerOf(c).UID, c.Param("canteenID"), *req.Open)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, canteen)
}

func (h *HTTPHandler) AddMenuItem(c *gin.Context) {
	item, ok := bindMenuItem(c)
	if !ok {
		return
	}
	created, err := h.catalog.AddMenuItem(c.Request.Context(), callerOf(c).UID, item)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *HTTPHandler) UpdateMenuItem(c *gin.Context) {
	item, ok := bindMenuItem(c)
	if !ok {
		return
	}
	item.ID = c.Param("itemID")
	updated, err := h.catalog.UpdateMenuItem(c.Request.Context(), callerOf(c).UID, item)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteMenuItem(c *gin.Context) {
	if err := h.catalog.DeleteMenuItem(c.Request.Context(), callerOf(c).UID, c.Param("canteenID"), c.Param("itemID")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) UploadMenuImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}

	item, err := h.catalog.UploadMenuImage(c.Request.Context(), callerOf(c).UID, c.Param("canteenID"), c.Param("itemID"),
		header.Header.Get("Content-Type"), data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *HTTPHandler) CanteenActiveOrders(c *gin.Context) {
	ctx := c.Request.Context()
	canteenID := c.Param("canteenID")
	if _, err := h.catalog.OwnedCanteen(ctx, callerOf(c).UID, canteenID); err != nil {
		writeError(c, err)
		return
	}
	snap, err := h.orders.ListActive(ctx, domain.ByCanteen(canteenID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": sortedOrders(snap)})
}

func (h *HTTPHandler) CanteenOrderHistory(c *gin.Context) {
	orders, err := h.accounts.CanteenOrderHistory(c.Request.Context(), callerOf(c).UID, c.Param("canteenID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": nonNil(orders)})
}

func (h *HTTPHandler) CanteenAnalytics(c *gin.Context) {
	stats, err := h.accounts.CanteenAnalytics(c.Request.Context(), callerOf(c).UID, c.Param("canteenID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func bindMenuItem(c *gin.Context) (domain.MenuItem, bool) {
	var req MenuItemHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return domain.MenuItem{}, false
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return domain.MenuItem{
		CanteenID:   c.Param("canteenID"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Available:   available,
	}, true
}

func callerOf(c *gin.Context) domain.Identity {
	v, _ := c.Get(identityContextKey)
	if id, ok := v.(*domain.Identity); ok {
		return *id
	}
	return domain.Identity{}
}

func writeCart(c *gin.Context, cart *domain.Cart, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"canteen_id":   cart.CanteenID,
		"canteen_name": cart.CanteenName,
		"items":        nonNil(cart.Items),
		"total":        cart.Total(),
	})
}

func writeError(c *gin.Context, err error) {
	code := httpStatus(err)
	if code >= http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
	}
	c.JSON(code, gin.H{"error": publicMessage(err)})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("request served")
	}
}

// sortedOrders lists a snapshot oldest first.
func sortedOrders(snap service.Snapshot) []domain.Order {
	out := make([]domain.Order, 0, len(snap))
	for _, o := range snap {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
