package router

import (
	"net/http"
	"time"

	"goescola/internal/api/aluno"
	"goescola/internal/api/auth"
	"goescola/internal/api/matricula"
	"goescola/internal/api/turma"
	"goescola/internal/domain"
	"goescola/internal/pkg/cache"
	"goescola/internal/pkg/middleware"
)

// Deps agrupa os Handlers e serviços transversais que o roteador precisa
// receber por injeção de dependências.
type Deps struct {
	AlunoHandler     *aluno.Handler
	TurmaHandler     *turma.Handler
	MatriculaHandler *matricula.Handler
	AuthHandler      *auth.Handler
	TokenService     middleware.TokenService
	CacheClient      cache.Client
	RateLimitMax     int
	RateLimitPeriod  time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// Todas as rotas sob /api/v1 exigem token JWT com role Admin, com exceção
// do login. /ping fica fora do prefixo e também é público.
func NewRouter(deps Deps) http.Handler {

	// Usamos o ServeMux padrão do net/http com os padrões de método e
	// path do Go 1.22, dispensando um mux de terceiros.
	mux := http.NewServeMux()

	// protegido encadeia autenticação e exigência de role Admin em uma rota.
	authMw := middleware.NewAuthMiddleware(deps.TokenService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	protegido := func(h http.HandlerFunc) http.HandlerFunc {
		return authMw(adminOnly(h))
	}

	// --- 1. Health Check ---
	mux.HandleFunc("GET /ping", PingHandler)

	// --- 2. Autenticação (pública) ---
	mux.HandleFunc("POST /api/v1/auth/login", deps.AuthHandler.LoginHandler)

	// --- 3. Alunos ---
	mux.HandleFunc("GET /api/v1/alunos", protegido(deps.AlunoHandler.ListAlunosHandler))
	mux.HandleFunc("GET /api/v1/alunos/{id}", protegido(deps.AlunoHandler.GetAlunoByIDHandler))
	mux.HandleFunc("GET /api/v1/alunos/buscar/nome", protegido(deps.AlunoHandler.SearchByNomeHandler))
	mux.HandleFunc("GET /api/v1/alunos/buscar/cpf", protegido(deps.AlunoHandler.SearchByCpfHandler))
	mux.HandleFunc("POST /api/v1/alunos", protegido(deps.AlunoHandler.CreateAlunoHandler))
	mux.HandleFunc("PUT /api/v1/alunos/{id}", protegido(deps.AlunoHandler.UpdateAlunoHandler))
	mux.HandleFunc("DELETE /api/v1/alunos/{id}", protegido(deps.AlunoHandler.DeleteAlunoHandler))

	// --- 4. Turmas ---
	mux.HandleFunc("GET /api/v1/turmas", protegido(deps.TurmaHandler.ListTurmasHandler))
	mux.HandleFunc("GET /api/v1/turmas/{id}", protegido(deps.TurmaHandler.GetTurmaByIDHandler))
	mux.HandleFunc("POST /api/v1/turmas", protegido(deps.TurmaHandler.CreateTurmaHandler))
	mux.HandleFunc("PUT /api/v1/turmas/{id}", protegido(deps.TurmaHandler.UpdateTurmaHandler))
	mux.HandleFunc("DELETE /api/v1/turmas/{id}", protegido(deps.TurmaHandler.DeleteTurmaHandler))

	// --- 5. Matrículas ---
	mux.HandleFunc("POST /api/v1/matriculas", protegido(deps.MatriculaHandler.CreateMatriculaHandler))
	mux.HandleFunc("GET /api/v1/matriculas/{id}", protegido(deps.MatriculaHandler.GetMatriculaByIDHandler))
	mux.HandleFunc("GET /api/v1/matriculas/turma/{turmaId}", protegido(deps.MatriculaHandler.GetMatriculasByTurmaHandler))
	mux.HandleFunc("DELETE /api/v1/matriculas/{id}", protegido(deps.MatriculaHandler.DeleteMatriculaHandler))

	// --- 6. Middlewares globais ---
	// O rate limit por IP envolve o mux inteiro, inclusive o login.
	return middleware.RateLimiter(deps.CacheClient, deps.RateLimitMax, deps.RateLimitPeriod)(mux)
}

// PingHandler é a função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
