package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Filters holds the numeric admission bounds.
type Filters struct {
	MinLiquidityUSD float64
	MinPriceUSD     float64
	MaxPriceUSD     float64
}

// PocketUniverse holds credentials for the volume-authenticity provider.
type PocketUniverse struct {
	APIURL   string
	APIToken string
}

// VolumeVerification controls how trading volume is checked for authenticity.
type VolumeVerification struct {
	UseInternalAlgorithm bool
	FakeVolumeThreshold  float64
	UsePocketUniverse    bool
	PocketUniverse       PocketUniverse
}

// Rugcheck holds credentials and policy for the token-safety provider.
type Rugcheck struct {
	RequiredStatus string
	APIURL         string
	APIToken       string
}

// Telegram holds alert sink credentials.
type Telegram struct {
	BotToken string
	ChatID   string
}

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Source             string
	Interval           time.Duration
	PumpThreshold      float64
	PGDSN              string
	ExportOut          string
	LogLevel           string
	Filters            Filters
	CoinBlacklist      []string
	DevBlacklist       []string
	VolumeVerification VolumeVerification
	Rugcheck           Rugcheck
	Telegram           Telegram
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	// Local .env files are honored for credentials.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SCREENER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("source", "profiles")
	v.SetDefault("interval", 600*time.Second)
	v.SetDefault("pump-threshold", 50.0)
	v.SetDefault("out", "./data/snapshots.jsonl")
	v.SetDefault("log-level", "info")
	v.SetDefault("filters.min-liquidity-usd", 0.0)
	v.SetDefault("filters.min-price-usd", 0.0)
	v.SetDefault("filters.max-price-usd", 0.0)
	v.SetDefault("volume-verification.use-internal-algorithm", false)
	v.SetDefault("volume-verification.fake-volume-threshold", 5.0)
	v.SetDefault("volume-verification.use-pocket-universe", false)
	v.SetDefault("rugcheck.required-status", "Good")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// An unset price ceiling means no ceiling.
	maxPrice := v.GetFloat64("filters.max-price-usd")
	if maxPrice <= 0 {
		maxPrice = math.Inf(1)
	}

	cfg := Config{
		Source:        v.GetString("source"),
		Interval:      v.GetDuration("interval"),
		PumpThreshold: v.GetFloat64("pump-threshold"),
		PGDSN:         v.GetString("pg-dsn"),
		ExportOut:     v.GetString("out"),
		LogLevel:      v.GetString("log-level"),
		Filters: Filters{
			MinLiquidityUSD: v.GetFloat64("filters.min-liquidity-usd"),
			MinPriceUSD:     v.GetFloat64("filters.min-price-usd"),
			MaxPriceUSD:     maxPrice,
		},
		CoinBlacklist: getStringSlice(v, "coin-blacklist"),
		DevBlacklist:  getStringSlice(v, "dev-blacklist"),
		VolumeVerification: VolumeVerification{
			UseInternalAlgorithm: v.GetBool("volume-verification.use-internal-algorithm"),
			FakeVolumeThreshold:  v.GetFloat64("volume-verification.fake-volume-threshold"),
			UsePocketUniverse:    v.GetBool("volume-verification.use-pocket-universe"),
			PocketUniverse: PocketUniverse{
				APIURL:   v.GetString("volume-verification.pocket-universe.api-url"),
				APIToken: v.GetString("volume-verification.pocket-universe.api-token"),
			},
		},
		Rugcheck: Rugcheck{
			RequiredStatus: v.GetString("rugcheck.required-status"),
			APIURL:         v.GetString("rugcheck.api-url"),
			APIToken:       v.GetString("rugcheck.api-token"),
		},
		Telegram: Telegram{
			BotToken: v.GetString("telegram.bot-token"),
			ChatID:   v.GetString("telegram.chat-id"),
		},
	}

	return cfg, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
