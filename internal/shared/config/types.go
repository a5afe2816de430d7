package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Database
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT             JWTConfig `mapstructure:"jwt"`
	CasbinModelPath string    `mapstructure:"casbin_model_path"`
}

type EmailConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	SMTPHost       string   `mapstructure:"smtp_host"`
	SMTPPort       int      `mapstructure:"smtp_port"`
	SMTPUser       string   `mapstructure:"smtp_user"`
	SMTPPassword   string   `mapstructure:"smtp_password"`
	FromAddress    string   `mapstructure:"from_address"`
	FromName       string   `mapstructure:"from_name"`
	OperatorEmails []string `mapstructure:"operator_emails"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SSHConfig controls the remote executor.
type SSHConfig struct {
	Port               int `mapstructure:"port"`
	ProbeTimeoutSec    int `mapstructure:"probe_timeout_sec"`
	DialTimeoutSec     int `mapstructure:"dial_timeout_sec"`
	CommandTimeoutSec  int `mapstructure:"command_timeout_sec"`
}

func (s *SSHConfig) ProbeTimeout() time.Duration {
	return time.Duration(s.ProbeTimeoutSec) * time.Second
}

func (s *SSHConfig) DialTimeout() time.Duration {
	return time.Duration(s.DialTimeoutSec) * time.Second
}

func (s *SSHConfig) DefaultCommandTimeout() time.Duration {
	return time.Duration(s.CommandTimeoutSec) * time.Second
}

// ProvisionConfig controls site provisioning.
type ProvisionConfig struct {
	DomainSuffix         string `mapstructure:"domain_suffix"`
	BaseApp              string `mapstructure:"base_app"`
	QuotaApp             string `mapstructure:"quota_app"`
	AdminPassword        string `mapstructure:"admin_password"`
	SiteValidityDays     int    `mapstructure:"site_validity_days"`
	StuckGraceMinutes    int    `mapstructure:"stuck_grace_minutes"`
	AllocationLockTTLSec int    `mapstructure:"allocation_lock_ttl_sec"`
}

func (p *ProvisionConfig) StuckGrace() time.Duration {
	return time.Duration(p.StuckGraceMinutes) * time.Minute
}

func (p *ProvisionConfig) AllocationLockTTL() time.Duration {
	return time.Duration(p.AllocationLockTTLSec) * time.Second
}

// FleetConfig controls health sweeps.
type FleetConfig struct {
	SweepWorkers      int `mapstructure:"sweep_workers"`
	SweepIntervalMin  int `mapstructure:"sweep_interval_min"`
	ReportCacheTTLSec int `mapstructure:"report_cache_ttl_sec"`
}

func (f *FleetConfig) SweepInterval() time.Duration {
	return time.Duration(f.SweepIntervalMin) * time.Minute
}

func (f *FleetConfig) ReportCacheTTL() time.Duration {
	return time.Duration(f.ReportCacheTTLSec) * time.Second
}

// SecretsConfig holds the key used to encrypt instance SSH and database
// passwords at rest.
type SecretsConfig struct {
	EncryptionKey string `mapstructure:"encryption_key"`
}
