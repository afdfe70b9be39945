package config

// Version is overridden at build time with -ldflags "-X evmarket.io/marketplace-api/config.Version=...".
var Version = "dev"
