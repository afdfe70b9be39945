package repository

import (
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/bookingrepo"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/complaintrepo"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/listingrepo"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/notificationrepo"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/orderrepo"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/paymentrepo"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/postrepo"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/repairlocationrepo"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/savedvehiclerepo"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/transaction"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/userrepo"
	"github.com/google/wire"
)

var RepositoryProvider = wire.NewSet(
	transaction.NewDatabase,
	userrepo.NewUserGormRepository,
	listingrepo.NewListingGormRepository,
	orderrepo.NewOrderGormRepository,
	paymentrepo.NewPaymentGormRepository,
	notificationrepo.NewNotificationGormRepository,
	postrepo.NewPostGormRepository,
	bookingrepo.NewSlotGormRepository,
	bookingrepo.NewBookingGormRepository,
	complaintrepo.NewComplaintGormRepository,
	savedvehiclerepo.NewSavedVehicleGormRepository,
	repairlocationrepo.NewRepairLocationGormRepository,
)
