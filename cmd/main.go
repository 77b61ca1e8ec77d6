package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"goescola/config"
	"goescola/internal/pkg/cache"
	"goescola/internal/pkg/database"
	"goescola/internal/pkg/logger"
	"goescola/internal/pkg/token"
	"goescola/internal/validator"

	// Camadas da API para Injeção de Dependências
	"goescola/internal/api/aluno"
	"goescola/internal/api/auth"
	"goescola/internal/api/matricula"
	"goescola/internal/api/router"
	"goescola/internal/api/turma"
	"goescola/internal/repository/alunorepo"
	"goescola/internal/repository/matricularepo"
	"goescola/internal/repository/turmarepo"
	"goescola/internal/repository/usuariorepo"
	"goescola/internal/service/alunoservice"
	"goescola/internal/service/authservice"
	"goescola/internal/service/matriculaservice"
	"goescola/internal/service/turmaservice"
)

func main() {
	// 1. Configuração e Inicialização
	stdlog.Println("⚡ Inicializando serviço GoEscola...")

	// O godotenv.Load() procura por um arquivo chamado .env na raiz. Se não
	// existir, seguimos com as variáveis do ambiente do sistema (ex: Docker).
	if err := godotenv.Load(); err != nil {
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// D. Validador de payloads (regras de CPF, senha forte e data de nascimento)
	v := validator.New()

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Montagem da Clean Architecture)
	// Ordem: Repository -> Service -> Handler

	// A. Alunos
	alunoRepo := alunorepo.NewAlunoRepository(db, cacheClient, cfg.DBTimeout, log)
	alunoSvc := alunoservice.NewService(alunoRepo, log)
	alunoHandler := aluno.NewHandler(alunoSvc, v, log)
	log.Debug("Módulo de Alunos inicializado.", nil)

	// B. Turmas
	turmaRepo := turmarepo.NewTurmaRepository(db, cfg.DBTimeout, log)
	turmaSvc := turmaservice.NewService(turmaRepo, log)
	turmaHandler := turma.NewHandler(turmaSvc, v, log)
	log.Debug("Módulo de Turmas inicializado.", nil)

	// C. Matrículas (depende dos repositórios de aluno e turma para as
	// verificações de existência)
	matriculaRepo := matricularepo.NewMatriculaRepository(db, cfg.DBTimeout, log)
	matriculaSvc := matriculaservice.NewService(matriculaRepo, alunoRepo, turmaRepo, log)
	matriculaHandler := matricula.NewHandler(matriculaSvc, v, log)
	log.Debug("Módulo de Matrículas inicializado.", nil)

	// D. Autenticação
	usuarioRepo := usuariorepo.NewUsuarioRepository(db, cfg.DBTimeout, log)
	authSvc := authservice.NewService(usuarioRepo, tokenSvc, log)
	authHandler := auth.NewHandler(authSvc, v, log)
	log.Debug("Módulo de Autenticação inicializado.", nil)

	// 4. Configuração e Início do Roteador/Servidor

	r := router.NewRouter(router.Deps{
		AlunoHandler:     alunoHandler,
		TurmaHandler:     turmaHandler,
		MatriculaHandler: matriculaHandler,
		AuthHandler:      authHandler,
		TokenService:     tokenSvc,
		CacheClient:      cacheClient,
		RateLimitMax:     cfg.RateLimitMaxRequests,
		RateLimitPeriod:  cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor GoEscola ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
