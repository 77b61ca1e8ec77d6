package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"goescola/config"
	"goescola/internal/domain"
	"goescola/internal/pkg/database"
	"goescola/internal/pkg/logger"
	"goescola/internal/repository/usuariorepo"
)

// Cria a conta de administrador inicial a partir de ADMIN_EMAIL e
// ADMIN_SENHA. Deve ser executado uma única vez após as migrações.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Warning: .env file not found or failed to read. Loading configs from system environment only: %v", err)
	}

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)

	email := os.Getenv("ADMIN_EMAIL")
	senha := os.Getenv("ADMIN_SENHA")
	if email == "" || senha == "" {
		log.Fatal("seedadmin: as variáveis ADMIN_EMAIL e ADMIN_SENHA devem ser definidas.")
	}

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("seedadmin: falha ao conectar ao banco de dados: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("seedadmin: falha ao gerar hash da senha: %v", err)
	}

	repo := usuariorepo.NewUsuarioRepository(db, cfg.DBTimeout, appLog)
	usuario, err := repo.Save(context.Background(), domain.Usuario{
		Email:     email,
		SenhaHash: string(hash),
		Role:      domain.RoleAdmin,
	})
	if err != nil {
		log.Fatalf("seedadmin: falha ao criar conta de administrador: %v", err)
	}

	log.Printf("seedadmin: conta de administrador criada (id=%d, email=%s).", usuario.ID, usuario.Email)
}
