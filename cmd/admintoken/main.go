// Command admintoken prints a bearer token for the storefront admin routes.
//
//	ADMIN_JWT_SECRET=... admintoken -name ops -ttl 1h
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"storefront-service/internal/api"
	"storefront-service/internal/config"
)

func main() {
	name := flag.String("name", "ops", "operator name recorded in the token")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()
	if cfg.AdminJWTSecret == "" {
		log.Fatal().Msg("ADMIN_JWT_SECRET is not set")
	}

	token, err := api.SignAdminToken(cfg.AdminJWTSecret, *name, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("Error signing admin token")
	}
	fmt.Println(token)
}
