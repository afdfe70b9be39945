package v1

import (
	"net/http"

	"evmarket.io/marketplace-api/app/interfaces/http/routes/v1/admin"
	"evmarket.io/marketplace-api/app/interfaces/http/routes/v1/auth"
	"evmarket.io/marketplace-api/app/interfaces/http/routes/v1/complaints"
	"evmarket.io/marketplace-api/app/interfaces/http/routes/v1/listings"
	"evmarket.io/marketplace-api/app/interfaces/http/routes/v1/notifications"
	"evmarket.io/marketplace-api/app/interfaces/http/routes/v1/orders"
	"evmarket.io/marketplace-api/app/interfaces/http/routes/v1/payments"
	"evmarket.io/marketplace-api/app/interfaces/http/routes/v1/posts"
	"evmarket.io/marketplace-api/app/interfaces/http/routes/v1/repairlocations"
	"evmarket.io/marketplace-api/app/interfaces/http/routes/v1/savedvehicles"
	"evmarket.io/marketplace-api/app/interfaces/http/routes/v1/testdrives"
	"evmarket.io/marketplace-api/app/interfaces/http/routes/v1/users"
	"evmarket.io/marketplace-api/config"
	"github.com/gin-gonic/gin"
)

type V1Route struct {
	authRoute            *auth.AuthRoute
	usersRoute           *users.UsersRoute
	listingsRoute        *listings.ListingsRoute
	ordersRoute          *orders.OrdersRoute
	paymentsRoute        *payments.PaymentsRoute
	notificationsRoute   *notifications.NotificationsRoute
	postsRoute           *posts.PostsRoute
	testDrivesRoute      *testdrives.TestDrivesRoute
	complaintsRoute      *complaints.ComplaintsRoute
	savedVehiclesRoute   *savedvehicles.SavedVehiclesRoute
	repairLocationsRoute *repairlocations.RepairLocationsRoute
	cacheRoute           *admin.CacheRoute
}

func NewV1Route(
	authRoute *auth.AuthRoute,
	usersRoute *users.UsersRoute,
	listingsRoute *listings.ListingsRoute,
	ordersRoute *orders.OrdersRoute,
	paymentsRoute *payments.PaymentsRoute,
	notificationsRoute *notifications.NotificationsRoute,
	postsRoute *posts.PostsRoute,
	testDrivesRoute *testdrives.TestDrivesRoute,
	complaintsRoute *complaints.ComplaintsRoute,
	savedVehiclesRoute *savedvehicles.SavedVehiclesRoute,
	repairLocationsRoute *repairlocations.RepairLocationsRoute,
	cacheRoute *admin.CacheRoute,
) *V1Route {
	return &V1Route{
		authRoute,
		usersRoute,
		listingsRoute,
		ordersRoute,
		paymentsRoute,
		notificationsRoute,
		postsRoute,
		testDrivesRoute,
		complaintsRoute,
		savedVehiclesRoute,
		repairLocationsRoute,
		cacheRoute,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)
	v1Route.authRoute.RegisterRouter(v1Router)
	v1Route.usersRoute.RegisterRouter(v1Router)
	v1Route.listingsRoute.RegisterRouter(v1Router)
	v1Route.ordersRoute.RegisterRouter(v1Router)
	v1Route.paymentsRoute.RegisterRouter(v1Router)
	v1Route.notificationsRoute.RegisterRouter(v1Router)
	v1Route.postsRoute.RegisterRouter(v1Router)
	v1Route.testDrivesRoute.RegisterRouter(v1Router)
	v1Route.complaintsRoute.RegisterRouter(v1Router)
	v1Route.savedVehiclesRoute.RegisterRouter(v1Router)
	v1Route.repairLocationsRoute.RegisterRouter(v1Router)
	v1Route.cacheRoute.RegisterRouter(v1Router)
}

// GetVersion godoc
// @Summary     Get API build version
// @Description Returns the current build version of the API server.
// @Tags        system
// @Produce     json
// @Success     200 {object} map[string]string "version info"
// @Router      /v1/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": config.Version,
	})
}
