// Command relicd serves staked Relic of Lies matches over websockets.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/relicoflies/relic/internal/auth"
	"github.com/relicoflies/relic/internal/cache"
	"github.com/relicoflies/relic/internal/config"
	"github.com/relicoflies/relic/internal/database"
	"github.com/relicoflies/relic/internal/game"
	"github.com/relicoflies/relic/internal/models"
	"github.com/relicoflies/relic/internal/ws"
)

func main() {
	config.Load()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if config.Get("LOG_LEVEL", "info") == "debug" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	auth.Init(config.JWTSecret())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres and Redis are both optional: without them the server still
	// runs matches, it just skips persistence and the action history.
	if url := config.DatabaseURL(); url != "" {
		if err := database.Connect(ctx, url); err != nil {
			logrus.WithError(err).Fatal("connect postgres")
		}
		defer database.DB.Close()
	} else {
		logrus.Warn("DATABASE_URL unset, match persistence disabled")
	}
	if addr := config.RedisAddr(); addr != "" {
		if err := cache.Connect(ctx, addr); err != nil {
			logrus.WithError(err).Fatal("connect redis")
		}
	} else {
		logrus.Warn("REDIS_ADDR unset, action history disabled")
	}

	rooms := game.NewRooms()
	hub := ws.NewHub(rooms)
	users := newUserStore()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/auth/register", users.handleRegister)
	mux.HandleFunc("/auth/login", users.handleLogin)
	mux.HandleFunc("/leaderboard", handleLeaderboard)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              config.ListenAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logrus.WithField("addr", srv.Addr).Info("relicd listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Fatal("http server")
	}
}

// userStore is an in-memory account registry keyed by username. Durable
// accounts are out of scope for the game server itself; the leaderboard
// keys on user IDs, which survive in tokens.
type userStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newUserStore() *userStore {
	return &userStore{users: make(map[string]*models.User)}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *userStore) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		http.Error(w, "username and password required", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	if _, exists := s.users[creds.Username]; exists {
		s.mu.Unlock()
		http.Error(w, "username taken", http.StatusConflict)
		return
	}
	u := &models.User{ID: uuid.New(), Username: creds.Username, PasswordHash: hash}
	s.users[creds.Username] = u
	s.mu.Unlock()

	logrus.WithField("user", u.ID).Info("user registered")
	s.issueToken(w, u)
}

func (s *userStore) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	u, ok := s.users[creds.Username]
	s.mu.Unlock()
	if !ok || !auth.CheckPassword(u.PasswordHash, creds.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	s.issueToken(w, u)
}

func (s *userStore) issueToken(w http.ResponseWriter, u *models.User) {
	token, err := auth.CreateToken(u.ID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"token":    token,
		"userId":   u.ID.String(),
		"username": u.Username,
	})
}

func handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	entries, err := database.TopPlayers(ctx, 20)
	if err != nil {
		logrus.WithError(err).Error("read leaderboard")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
