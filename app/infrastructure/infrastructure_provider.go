package infrastructure

import (
	"evmarket.io/marketplace-api/app/domain/payment"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/utils/emailservice"
	"evmarket.io/marketplace-api/app/utils/httpclients/paymentgateway"
	"github.com/google/wire"
)

var InfrastructureProvider = wire.NewSet(
	cache.NewStore,
	cache.NewCacheServiceFromEnv,
	cache.NewLocker,
	paymentgateway.NewClient,
	wire.Bind(new(payment.Gateway), new(*paymentgateway.Client)),
	emailservice.NewSMTPSender,
	wire.Bind(new(emailservice.Sender), new(*emailservice.SMTPSender)),
)
