package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Services holds the base URLs of the storefront microservices.
	Services ServicesConfig `mapstructure:",squash"`

	// HTTP holds the outbound HTTP client settings.
	HTTP HTTPConfig `mapstructure:",squash"`

	// Pricing holds tax and shipping settings.
	Pricing PricingConfig `mapstructure:",squash"`

	// Cache holds the optional Redis cache settings.
	Cache CacheConfig `mapstructure:",squash"`

	// Payment holds the simulated payment processor settings.
	Payment PaymentConfig `mapstructure:",squash"`

	// Session holds the idle expiry of shopper sessions.
	Session SessionConfig `mapstructure:",squash"`

	// Proxy holds the optional egress proxy for collaborator calls.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// ServicesConfig holds the base URLs of the REST collaborators.
type ServicesConfig struct {
	// CartURL is the base URL of the cart service.
	CartURL string `mapstructure:"CART_SERVICE_URL" required:"true"`
	// CouponURL is the base URL of the coupon service.
	CouponURL string `mapstructure:"COUPON_SERVICE_URL" required:"true"`
	// AddressURL is the base URL of the address service.
	AddressURL string `mapstructure:"ADDRESS_SERVICE_URL" required:"true"`
	// InventoryURL is the base URL of the inventory service.
	InventoryURL string `mapstructure:"INVENTORY_SERVICE_URL" required:"true"`
	// DeliveryURL is the base URL of the delivery options endpoint. Empty means synthesized options only.
	DeliveryURL string `mapstructure:"DELIVERY_SERVICE_URL"`
}

// HTTPConfig holds the timeout and retry policy for outbound requests.
type HTTPConfig struct {
	// Timeout bounds a single request attempt.
	Timeout time.Duration `mapstructure:"HTTP_TIMEOUT" default:"30s"`
	// RetryAttempts is the hard cap on attempts for connection and timeout failures.
	RetryAttempts int `mapstructure:"HTTP_RETRY_ATTEMPTS" default:"3"`
	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration `mapstructure:"HTTP_RETRY_DELAY" default:"500ms"`
}

// PricingConfig holds the tax rate and the shipping fee schedule.
type PricingConfig struct {
	TaxRate             float64 `mapstructure:"TAX_RATE" default:"0.10"`
	StandardShippingFee float64 `mapstructure:"STANDARD_SHIPPING_FEE"`
	ExpressShippingFee  float64 `mapstructure:"EXPRESS_SHIPPING_FEE" default:"9.99"`
}

// TaxRateDecimal returns the tax rate as a decimal.
func (p PricingConfig) TaxRateDecimal() decimal.Decimal {
	return decimal.NewFromFloat(p.TaxRate)
}

// StandardFee returns the standard shipping fee as a decimal.
func (p PricingConfig) StandardFee() decimal.Decimal {
	return decimal.NewFromFloat(p.StandardShippingFee)
}

// ExpressFee returns the express shipping fee as a decimal.
func (p PricingConfig) ExpressFee() decimal.Decimal {
	return decimal.NewFromFloat(p.ExpressShippingFee)
}

// CacheConfig holds Redis settings. An empty URL disables caching.
type CacheConfig struct {
	// RedisURL is in the format redis://[:password@]host[:port][/database].
	RedisURL string `mapstructure:"REDIS_URL"`
	// CouponTTL is how long a found coupon is cached.
	CouponTTL time.Duration `mapstructure:"COUPON_CACHE_TTL" default:"60s"`
	// DeliveryTTL is how long delivery options are cached.
	DeliveryTTL time.Duration `mapstructure:"DELIVERY_CACHE_TTL" default:"5m"`
}

// PaymentConfig holds the simulated payment processor settings.
type PaymentConfig struct {
	// Delay is how long a simulated payment takes to settle.
	Delay time.Duration `mapstructure:"PAYMENT_DELAY" default:"1500ms"`
}

// SessionConfig holds the idle expiry of shopper sessions.
type SessionConfig struct {
	// IdleTTL is how long a session may go unused before it is ended. Zero disables expiry.
	IdleTTL time.Duration `mapstructure:"SESSION_IDLE_TTL" default:"30m"`
	// SweepInterval is how often idle sessions are looked for.
	SweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL" default:"1m"`
}

// ProxyConfig contains the egress proxy settings.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED"`
	Hostname string `mapstructure:"PROXY_HOST"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// HasProxy returns true if proxy is enabled and configured.
func (p ProxyConfig) HasProxy() bool {
	return p.Enabled && p.Hostname != "" && p.Port > 0
}

// URL returns the proxy URL, with credentials when both are set.
func (p ProxyConfig) URL() string {
	if !p.HasProxy() {
		return ""
	}
	if p.Username != "" && p.Password != "" {
		return fmt.Sprintf("http://%s:%s@%s:%d", p.Username, p.Password, p.Hostname, p.Port)
	}
	return fmt.Sprintf("http://%s:%d", p.Hostname, p.Port)
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	default:
		return v.IsZero()
	}
}
