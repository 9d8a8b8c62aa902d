// internal/server/handler.go
//
// Package server 提供 HTTP/JSON 介面，作為 bank 模組的展示層 (Presentation Layer)。
// 每個 handler 僅負責：
//  1. 解析 HTTP 請求
//  2. 呼叫 bank 層執行商業邏輯（檢核、編號、金額運算與寫回皆在 bank 層）
//  3. 回傳標準化 JSON 回應
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"custledger/internal/bank"
)

// Server 為 HTTP 層核心結構。
type Server struct {
	Bank *bank.Bank
	log  *zap.Logger
}

// NewServer 建立新的 HTTP 伺服器；log 可為 nil。
func NewServer(b *bank.Bank, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{Bank: b, log: log}
}

// listCustomers 處理 GET /customers：依註冊順序列出摘要。
func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	all := s.Bank.Customers()
	out := make([]customerView, 0, len(all))
	for _, c := range all {
		out = append(out, viewCustomer(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// register 處理 POST /customers。
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req bank.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	c, err := s.Bank.Register(req)
	if err != nil && warning(err) == "" {
		writeErr(w, err, statusFor(err))
		return
	}
	v := viewCustomer(c)
	v.Warning = warning(err)
	writeJSON(w, http.StatusCreated, v)
}

// getCustomer 處理 GET /customers/{id}。
func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := s.Bank.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, viewCustomer(c))
}

// history 處理 GET /customers/{id}/transactions。
func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := s.Bank.Get(id)
	if err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	txs, err := s.Bank.History(id)
	if err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	out := historyView{Customer: viewCustomer(c), Transactions: make([]transactionView, 0, len(txs))}
	for _, tx := range txs {
		out.Transactions = append(out.Transactions, viewTransaction(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

// transfer 處理 POST /transfers：成功後回傳收據與雙方最新餘額。
func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req bank.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	rc, err := s.Bank.Transfer(req)
	if err != nil && warning(err) == "" {
		writeErr(w, err, statusFor(err))
		return
	}
	v := viewReceipt(rc)
	v.Warning = warning(err)
	writeJSON(w, http.StatusOK, v)
}

// health 提供健康檢查端點：GET /health。
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
