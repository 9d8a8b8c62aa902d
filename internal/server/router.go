// internal/server/router.go
//
// 本檔負責 HTTP 路由註冊與中介層（middleware）。
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router 建立並回傳整個 HTTP 處理鏈。
// 所有端點同時掛在根路徑與 /api/v1 之下。
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	routes := func(r chi.Router) {
		// 健康檢查
		r.Get("/health", s.health)

		// 客戶：
		//   - GET  /customers                    → 摘要
		//   - POST /customers                    → 註冊
		//   - GET  /customers/{id}               → 查詢
		//   - GET  /customers/{id}/transactions  → 交易紀錄
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", s.listCustomers)
			r.Post("/", s.register)
			r.Get("/{id}", s.getCustomer)
			r.Get("/{id}/transactions", s.history)
		})

		// 轉帳：POST /transfers
		r.Post("/transfers", s.transfer)
	}

	r.Route("/api/v1", routes)
	r.Group(routes)
	return r
}

// accessLog 以 zap 記錄每個請求的方法、路徑、狀態碼與耗時。
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
