package config

import (
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type NotifyConfig struct {
	Env          string `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer   `yaml:"http_server"`
	OrderDB      `yaml:"order_db"`
	LogConfig    `yaml:"log_config"`
	SMTP         `yaml:"smtp"`
	Contacts     `yaml:"contacts"`
	KafkaService `yaml:"kafka-service"`
	Payment      `yaml:"payment"`
	Telephony    `yaml:"telephony"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"PORT" env-default:"5000"`
}

type OrderDB struct {
	Dsn            string `yaml:"dsn" env:"ORDER_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
}

type SMTP struct {
	Host           string `yaml:"host" env-default:"smtp.gmail.com"`
	Port           int    `yaml:"port" env-default:"587"`
	Username       string `yaml:"username" env:"EMAIL_USER"`
	Password       string `yaml:"password" env:"EMAIL_PASS"`
	MaxConnections int64  `yaml:"max_connections" env-default:"10"`
	RatePerSecond  int    `yaml:"rate_per_second" env-default:"10"`
}

// Contacts are the house addresses used for admin audit copies and as
// substitutes when order data arrives without them.
type Contacts struct {
	AdminEmail            string `yaml:"admin_email" env:"ADMIN_EMAIL" env-default:"supp@foodles.shop"`
	FallbackCustomerEmail string `yaml:"fallback_customer_email" env-default:"customer@foodles.shop"`
	FallbackVendorEmail   string `yaml:"fallback_vendor_email" env-default:"vendor@foodles.shop"`
	FallbackVendorPhone   string `yaml:"fallback_vendor_phone" env-default:"+919999999999"`
}

type KafkaService struct {
	Host  string `yaml:"host" env:"KAFKA_HOST"`
	Port  string `yaml:"port" env:"KAFKA_PORT"`
	Topic string `yaml:"topic" env-default:"order-notifications"`
}

type Payment struct {
	GatewaySecret string `yaml:"gateway_secret" env:"RAZORPAY_KEY_SECRET"`
	Form20        string `yaml:"form_20" env:"CASHFREE_FORM_20"`
	Form25        string `yaml:"form_25" env:"CASHFREE_FORM_25"`
	Form45        string `yaml:"form_45" env:"CASHFREE_FORM_45"`
	Form55        string `yaml:"form_55" env:"CASHFREE_FORM_55"`
}

type Telephony struct {
	// TenantIDs lists the restaurant ids whose Twilio credentials are read
	// from the environment. Incomplete entries are skipped.
	TenantIDs   []string `yaml:"tenant_ids" env-default:"1,2,3,4,5"`
	RingTimeout int      `yaml:"ring_timeout_seconds" env-default:"30"`
}

// TenantCredentials is one restaurant's telephony config.
type TenantCredentials struct {
	AccountSID   string
	AuthToken    string
	CallerNumber string
}

func MustLoad() *NotifyConfig {
	configPath := os.Getenv("NOTIFY_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("NOTIFY_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg NotifyConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}

// TenantCredentialsFromEnv collects per-restaurant Twilio credentials from
// TWILIO_ACCOUNT_SID_<id>, TWILIO_AUTH_TOKEN_<id> and TWILIO_PHONE_NUMBER_<id>.
// Tenants with missing pieces are omitted from the active set.
func (t Telephony) TenantCredentialsFromEnv() map[string]TenantCredentials {
	creds := make(map[string]TenantCredentials, len(t.TenantIDs))
	for _, id := range t.TenantIDs {
		c := TenantCredentials{
			AccountSID:   os.Getenv(fmt.Sprintf("TWILIO_ACCOUNT_SID_%s", id)),
			AuthToken:    os.Getenv(fmt.Sprintf("TWILIO_AUTH_TOKEN_%s", id)),
			CallerNumber: os.Getenv(fmt.Sprintf("TWILIO_PHONE_NUMBER_%s", id)),
		}
		if c.AccountSID == "" || c.AuthToken == "" || c.CallerNumber == "" {
			continue
		}
		creds[id] = c
	}
	return creds
}

// RestaurantOpen reads the live open/closed flag for a restaurant. The flags
// are environment-driven so operators can flip them without a deploy.
func RestaurantOpen(restaurantID string) bool {
	return os.Getenv(fmt.Sprintf("RESTAURANT_%s_STATUS", restaurantID)) == "1"
}
