package domain

import "github.com/golang-jwt/jwt/v5"

// Papéis aceitos no token de acesso
const (
	RoleAdmin  = 1 // Pode cadastrar produtos e vendas e operar os jobs
	RoleViewer = 2 // Somente leitura dos relatórios
)

// Claims são os dados carregados no token de acesso da API
type Claims struct {
	ClientName string `json:"client_name"`
	RoleID     int    `json:"role_id"`
	jwt.RegisteredClaims
}

// RoleName retorna o nome do papel para logs e para a CLI de tokens
func RoleName(roleID int) string {
	switch roleID {
	case RoleAdmin:
		return "admin"
	case RoleViewer:
		return "viewer"
	default:
		return "desconhecido"
	}
}

// ParseRole converte o nome do papel no seu ID, 0 quando desconhecido
func ParseRole(name string) int {
	switch name {
	case "admin":
		return RoleAdmin
	case "viewer":
		return RoleViewer
	default:
		return 0
	}
}
