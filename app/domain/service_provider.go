package domain

import (
	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/booking"
	"evmarket.io/marketplace-api/app/domain/complaint"
	"evmarket.io/marketplace-api/app/domain/cron"
	"evmarket.io/marketplace-api/app/domain/listing"
	"evmarket.io/marketplace-api/app/domain/notification"
	"evmarket.io/marketplace-api/app/domain/order"
	"evmarket.io/marketplace-api/app/domain/payment"
	"evmarket.io/marketplace-api/app/domain/post"
	"evmarket.io/marketplace-api/app/domain/repairlocation"
	"evmarket.io/marketplace-api/app/domain/savedvehicle"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"github.com/google/wire"
)

var ServiceProvider = wire.NewSet(
	user.NewService,
	auth.NewAuthService,
	listing.NewService,
	notification.NewService,
	order.NewService,
	payment.NewService,
	post.NewService,
	booking.NewService,
	complaint.NewService,
	savedvehicle.NewService,
	repairlocation.NewService,
	cron.NewService,
	wire.Bind(new(notification.UserLookup), new(*user.UserService)),
	wire.Bind(new(notification.Notifier), new(*notification.NotificationService)),
	wire.Bind(new(order.ListingProvider), new(*listing.ListingService)),
	wire.Bind(new(booking.ListingReader), new(*listing.ListingService)),
	wire.Bind(new(savedvehicle.ListingReader), new(*listing.ListingService)),
	wire.Bind(new(payment.OrderProvider), new(*order.OrderService)),
	wire.Bind(new(complaint.OrderReader), new(*order.OrderService)),
	wire.Bind(new(cron.BookingCompleter), new(*booking.BookingService)),
	wire.Bind(new(cron.CacheHealthChecker), new(*cache.CacheService)),
)
