// cmd/server/main.go

// 本服務提供客戶註冊、轉帳、摘要與交易紀錄查詢的 HTTP API。
// 此檔案負責初始化模組（config, storage, bank, server），
// 啟動時自平面檔載入登錄表，結束時再保存一次。

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"custledger/internal/bank"
	"custledger/internal/config"
	"custledger/internal/server"
	"custledger/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	store := storage.NewCSVStore(cfg.Ledger.DataFile, logger.Named("storage"))
	opts := append(cfg.BankOptions(), bank.WithLogger(logger.Named("bank")))
	b, _, err := bank.Open(store, opts...)
	if err != nil {
		// 讀檔失敗不中止服務：已改以示範客戶啟動
		logger.Error("could not load data file, using seed customers",
			zap.String("path", store.Path()), zap.Error(err))
	}

	s := server.NewServer(b, logger.Named("http"))
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: s.Router()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("ledger server running", zap.String("addr", cfg.HTTPAddr), zap.String("data_file", store.Path()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := b.Flush(); err != nil {
		logger.Error("final save failed", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if config.DebugLogging() {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}
