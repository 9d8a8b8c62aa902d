// internal/config/config.go
//
// Package config 於啟動時自預設值、YAML 設定檔與環境變數組出服務設定。
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"custledger/internal/bank"
)

// Config 為服務的完整設定。
type Config struct {
	HTTPAddr string
	Ledger   LedgerConfig
}

// LedgerConfig 為帳務引擎與資料檔的設定。
type LedgerConfig struct {
	DataFile        string
	TransferCeiling decimal.Decimal
	Media           []bank.Medium
}

// fileConfig 為 YAML 設定檔格式；未出現的欄位沿用預設值。
type fileConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	Ledger   struct {
		DataFile        string   `yaml:"data_file"`
		TransferCeiling string   `yaml:"transfer_ceiling"`
		Media           []string `yaml:"media"`
	} `yaml:"ledger"`
}

const (
	defaultHTTPAddr = ":8080"
	defaultDataFile = "bank_transactions.csv"
)

// Load 依序套用：預設值 → LEDGER_CONFIG_FILE 指定的 YAML → 環境變數。
// 所有值於啟動時決定，執行期間不可變更。
func Load(logger *zap.Logger) (*Config, error) {
	var fc fileConfig
	if path := os.Getenv("LEDGER_CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		logger.Info("config file loaded", zap.String("path", path))
	}

	ceilingStr := getEnv("LEDGER_TRANSFER_CEILING", orDefault(fc.Ledger.TransferCeiling, bank.DefaultCeiling))
	ceiling, err := decimal.NewFromString(ceilingStr)
	if err != nil {
		return nil, fmt.Errorf("LEDGER_TRANSFER_CEILING %q: %w", ceilingStr, err)
	}
	if !ceiling.IsPositive() {
		return nil, fmt.Errorf("LEDGER_TRANSFER_CEILING must be positive, got %s", ceilingStr)
	}

	mediaNames := fc.Ledger.Media
	if v := os.Getenv("LEDGER_MEDIA"); v != "" {
		mediaNames = strings.Split(v, ",")
	}
	media := bank.AllMedia
	if len(mediaNames) > 0 {
		media, err = parseMedia(mediaNames)
		if err != nil {
			return nil, err
		}
	}

	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", orDefault(fc.HTTPAddr, defaultHTTPAddr)),
		Ledger: LedgerConfig{
			DataFile:        getEnv("LEDGER_DATA_FILE", orDefault(fc.Ledger.DataFile, defaultDataFile)),
			TransferCeiling: ceiling.Round(2),
			Media:           media,
		},
	}, nil
}

// DebugLogging 回傳 LOG_LEVEL 是否為 debug；須在建立 logger 前呼叫，故只讀環境變數。
func DebugLogging() bool {
	return strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug")
}

// BankOptions 將設定轉為 bank.Option。
func (c *Config) BankOptions() []bank.Option {
	return []bank.Option{
		bank.WithCeiling(c.Ledger.TransferCeiling),
		bank.WithMedia(c.Ledger.Media...),
	}
}

func parseMedia(names []string) ([]bank.Medium, error) {
	out := make([]bank.Medium, 0, len(names))
	for _, n := range names {
		m, err := bank.ParseMedium(strings.TrimSpace(n))
		if err != nil {
			return nil, fmt.Errorf("LEDGER_MEDIA: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
