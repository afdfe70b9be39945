package routes

import (
	v1 "evmarket.io/marketplace-api/app/interfaces/http/routes/v1"
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
	"github.com/google/wire"
)

var RouteProvider = wire.NewSet(
	auth.NewAuthRoute,
	users.NewUsersRoute,
	listings.NewListingsRoute,
	orders.NewOrdersRoute,
	payments.NewPaymentsRoute,
	notifications.NewNotificationsRoute,
	posts.NewPostsRoute,
	testdrives.NewTestDrivesRoute,
	complaints.NewComplaintsRoute,
	savedvehicles.NewSavedVehiclesRoute,
	repairlocations.NewRepairLocationsRoute,
	admin.NewCacheRoute,
	v1.NewV1Route,
)
