package config

import "github.com/pazhealth/paz/pkg/storage"

// Service file names.
const (
	ServiceData   = "data"
	ServiceSounds = "sounds"
	ServiceGemini = "gemini"
	ServiceOpenAI = "openai"
)

// DataConfig is the "data" service: where wellness records live and whose
// they are.
type DataConfig struct {
	Dir      string `yaml:"dir,omitempty"`
	User     string `yaml:"user,omitempty"`
	Language string `yaml:"language,omitempty"`
}

// SoundsConfig is the "sounds" service. Samples are read from Dir, or from
// an S3 bucket when Bucket is set.
type SoundsConfig struct {
	Dir             string   `yaml:"dir,omitempty"`
	Bucket          string   `yaml:"bucket,omitempty"`
	Prefix          string   `yaml:"prefix,omitempty"`
	Region          string   `yaml:"region,omitempty"`
	Endpoint        string   `yaml:"endpoint,omitempty"`
	AccessKeyID     string   `yaml:"access_key_id,omitempty"`
	SecretAccessKey string   `yaml:"secret_access_key,omitempty"`
	PathStyle       bool     `yaml:"path_style,omitempty"`
	Volume          *float64 `yaml:"volume,omitempty"`
}

// S3 returns the S3 settings, and false when the sounds are local.
func (s SoundsConfig) S3() (storage.S3Config, bool) {
	if s.Bucket == "" {
		return storage.S3Config{}, false
	}
	return storage.S3Config{
		Region:          s.Region,
		Endpoint:        s.Endpoint,
		Bucket:          s.Bucket,
		Prefix:          s.Prefix,
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
		PathStyle:       s.PathStyle,
	}, true
}

// ModelConfig is the "gemini" and "openai" service.
type ModelConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	Model   string `yaml:"model,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}
