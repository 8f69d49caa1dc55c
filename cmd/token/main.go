// Comando token emite um bearer token assinado com AUTH_SECRET.
//
//	go run ./cmd/token -client painel -role viewer
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/appdotbuilder/revenue-dashboard/internal/config"
	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
	"github.com/appdotbuilder/revenue-dashboard/internal/usecases/authenticating"
	"github.com/appdotbuilder/revenue-dashboard/pkg/log"
)

func main() {
	client := flag.String("client", "", "nome do cliente que usará o token")
	role := flag.String("role", "viewer", "papel do token: admin ou viewer")
	ttl := flag.Duration("ttl", 0, "validade do token (padrão AUTH_TOKEN_TTL)")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	log.Setup(cfg.App.LogLevel)

	if *ttl > 0 {
		cfg.Auth.TokenTTL = *ttl
	}

	roleID := domain.ParseRole(*role)
	if roleID == 0 {
		fmt.Fprintf(os.Stderr, "papel desconhecido %q\n", *role)
		os.Exit(2)
	}

	token, expiresAt, err := authenticating.NewService(cfg.Auth).IssueToken(*client, roleID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "erro ao emitir token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "papel %s, expira em %s\n", domain.RoleName(roleID), expiresAt.Format(time.RFC3339))
}
